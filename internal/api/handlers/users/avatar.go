// Package users serves the avatar upload of the current user.
package users

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/handlers/upload"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/models"
	storage "github.com/5w1tchy/library-api/internal/storage/s3"
)

// MaxAvatarBytes caps an avatar upload.
const MaxAvatarBytes = 5 << 20

type Objects interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	DeleteObject(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	SetAvatar(ctx context.Context, id int64, key string) (*string, error)
}

type AvatarResponse struct {
	ID       int64   `json:"pk"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
}

type Handler struct {
	users   UserStore
	objects Objects
	now     func() time.Time
	log     *slog.Logger
}

func New(users UserStore, objects Objects) *Handler {
	return &Handler{
		users:   users,
		objects: objects,
		now:     time.Now,
		log:     slog.Default().With("component", "avatars"),
	}
}

// Upload serves PUT and PATCH /api/users/me/avatar. The previous object is
// removed once the new key is stored.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	ctx := r.Context()

	img, err := upload.ReadImage(r, "avatar", MaxAvatarBytes)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	key := storage.AvatarKey(h.now(), img.Ext)
	if err := h.objects.PutObject(ctx, key, img.ContentType, bytes.NewReader(img.Data), img.Size()); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	prev, err := h.users.SetAvatar(ctx, a.ID, key)
	if err != nil {
		if derr := h.objects.DeleteObject(ctx, key); derr != nil {
			h.log.Warn("orphaned avatar", "key", key, "err", derr)
		}
		apperr.WriteError(w, r, err)
		return
	}
	if prev != nil && *prev != "" && *prev != key {
		if err := h.objects.DeleteObject(ctx, *prev); err != nil {
			h.log.Warn("old avatar not deleted", "key", *prev, "err", err)
		}
	}
	h.log.Info("avatar updated", "user_id", a.ID, "key", key)

	url, err := h.objects.PresignGet(ctx, key)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, AvatarResponse{ID: a.ID, Username: a.Username, Avatar: &url})
}

// Get serves GET /api/users/me/avatar with a fresh presigned URL, or a null
// avatar when none is set.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	u, err := h.users.GetByID(r.Context(), a.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	resp := AvatarResponse{ID: u.ID, Username: u.Username}
	if u.AvatarKey != nil && *u.AvatarKey != "" {
		url, err := h.objects.PresignGet(r.Context(), *u.AvatarKey)
		if err != nil {
			apperr.WriteError(w, r, err)
			return
		}
		resp.Avatar = &url
	}
	httpx.OK(w, resp)
}
