// Package auth serves registration, token login/refresh/logout and the
// current-user endpoints.
package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	jwtutil "github.com/5w1tchy/library-api/internal/security/jwt"
	"github.com/5w1tchy/library-api/internal/security/password"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/5w1tchy/library-api/internal/validate"
)

type Handler struct {
	Users  UserStore
	Tokens RefreshTokens
	Signer *jwtutil.Signer
	Hasher *password.Hasher
	log    *slog.Logger
}

func New(users UserStore, refresh RefreshTokens, signer *jwtutil.Signer, hasher *password.Hasher) *Handler {
	return &Handler{
		Users:  users,
		Tokens: refresh,
		Signer: signer,
		Hasher: hasher,
		log:    slog.Default().With("component", "auth"),
	}
}

func invalidCredentials(w http.ResponseWriter, r *http.Request) {
	apperr.Unauthorized(w, r, "Unable to log in with provided credentials.")
}

// Register creates a regular (non-superuser) account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.Decode(r, &req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	req.Username = validate.Normalize(req.Username)
	if err := validate.Struct(req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	pw, warn, err := password.Validate(req.Password, req.Username, req.Email)
	if err != nil {
		apperr.WriteError(w, r, apperr.Invalid("password", "This password is too short. It must contain at least 8 characters."))
		return
	}
	hash, err := h.Hasher.Hash(pw)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	u, err := h.Users.Create(r.Context(), req.Username, req.Email, hash, false)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	h.log.Info("user registered", "user_id", u.ID)

	resp := toUserResponse(u)
	resp.PasswordWarning = warn
	httpx.Created(w, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.Decode(r, &req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	u, err := h.Users.GetByUsername(r.Context(), validate.Normalize(req.Username))
	if errors.Is(err, dbx.ErrNotFound) {
		invalidCredentials(w, r)
		return
	}
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	ok, needsRehash, err := h.Hasher.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		invalidCredentials(w, r)
		return
	}
	if needsRehash {
		if phc, err := h.Hasher.Hash(req.Password); err == nil {
			if err := h.Users.UpdatePasswordHash(r.Context(), u.ID, phc); err != nil {
				h.log.Warn("rehash failed", "user_id", u.ID, "err", err)
			}
		}
	}

	pair, err := h.issuePair(r, u.ID, u.TokenVersion, u.IsSuperuser)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, pair)
}

// Refresh rotates a refresh token: the presented one is consumed whatever
// the outcome, and a new pair is issued provided the user's token_version has
// not moved since it was issued.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.Decode(r, &req); err != nil || req.RefreshToken == "" {
		apperr.WriteError(w, r, apperr.Invalid("refresh_token", "This field is required."))
		return
	}

	ctx := r.Context()
	userID, tv, err := h.Tokens.Consume(ctx, req.RefreshToken)
	if err != nil {
		if !errors.Is(err, ErrInvalidRefresh) {
			h.log.Warn("refresh consume failed", "err", err)
		}
		apperr.Unauthorized(w, r, "Invalid refresh token")
		return
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil || u.TokenVersion != tv {
		apperr.Unauthorized(w, r, "Token has been revoked")
		return
	}

	pair, err := h.issuePair(r, u.ID, u.TokenVersion, u.IsSuperuser)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, pair)
}

// Logout drops the given refresh token. It always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	_ = httpx.Decode(r, &req)
	if req.RefreshToken != "" {
		_ = h.Tokens.Revoke(r.Context(), req.RefreshToken)
	}
	httpx.NoContent(w)
}

// LogoutAll bumps token_version, invalidating every access and refresh token
// of the current user.
func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	if _, err := h.Users.BumpTokenVersion(r.Context(), a.ID); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	var req ChangePasswordRequest
	if err := httpx.Decode(r, &req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	u, err := h.Users.GetByID(r.Context(), a.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if ok, _, err := h.Hasher.Verify(req.OldPassword, u.PasswordHash); err != nil || !ok {
		apperr.WriteError(w, r, apperr.Invalid("old_password", "Invalid password."))
		return
	}
	np, _, err := password.Validate(req.NewPassword, u.Username, u.Email)
	if err != nil {
		apperr.WriteError(w, r, apperr.Invalid("new_password", "This password is too short. It must contain at least 8 characters."))
		return
	}
	phc, err := h.Hasher.Hash(np)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := h.Users.UpdatePasswordHash(r.Context(), u.ID, phc); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	tv, err := h.Users.BumpTokenVersion(r.Context(), u.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	pair, err := h.issuePair(r, u.ID, tv, u.IsSuperuser)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, pair)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	u, err := h.Users.GetByID(r.Context(), a.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, toUserResponse(u))
}

func (h *Handler) issuePair(r *http.Request, userID int64, tokenVersion int, superuser bool) (TokenPair, error) {
	access, _, err := h.Signer.SignAccess(userID, tokenVersion, superuser)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := h.Tokens.Issue(r.Context(), userID, tokenVersion)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
