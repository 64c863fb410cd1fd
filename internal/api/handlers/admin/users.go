package admin

import (
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/validate"
)

// GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := validate.ClampLimitOffset(q.Get("limit"), q.Get("offset"), 25, 200)

	users, total, err := h.Sto.ListUsers(r.Context(), ListFilter{
		Query:     validate.Normalize(q.Get("search")),
		Superuser: parseBool(q.Get("is_superuser")),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Page(w, users, total, limit, offset)
}

// GET /api/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	u, err := h.Sto.GetUser(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, u)
}

// POST /api/admin/users/{id}/superuser
//
// Changing the flag bumps the user's token version so the "su" claim of
// outstanding tokens cannot outlive it. Admins cannot demote themselves,
// which also keeps at least one superuser around.
func (h *Handler) SetSuperuser(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	var req SetSuperuserRequest
	if err := httpx.Decode(r, &req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if id == a.ID && !*req.IsSuperuser {
		apperr.WriteError(w, r, apperr.Invalid("is_superuser", "You cannot remove your own superuser status."))
		return
	}
	if !h.checkRateLimit(w, r, "superuser", a.ID, 20, time.Hour) {
		return
	}

	// also bumps token_version, in the same transaction
	if err := h.Sto.SetSuperuser(r.Context(), id, *req.IsSuperuser); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	h.log.Info("superuser flag changed", "admin_id", a.ID, "user_id", id, "is_superuser", *req.IsSuperuser)

	u, err := h.Sto.GetUser(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, u)
}

// POST /api/admin/users/{id}/logout revokes every token of the user.
func (h *Handler) LogoutUser(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	if !h.checkRateLimit(w, r, "logout", a.ID, 60, time.Hour) {
		return
	}
	if err := h.Sto.BumpTokenVersion(r.Context(), id); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	h.log.Info("user logged out by admin", "admin_id", a.ID, "user_id", id)
	httpx.NoContent(w)
}
