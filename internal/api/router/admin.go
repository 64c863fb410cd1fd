package router

import (
	"net/http"

	admin "github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
)

// superusersOnly denies every method, safe or not, to non-superusers.
type superusersOnly struct{}

func (superusersOnly) Allow(_ string, a middlewares.Actor) bool { return a.ID != 0 && a.IsSuperuser }

func (p superusersOnly) AllowObject(method string, a middlewares.Actor, _ *int64) bool {
	return p.Allow(method, a)
}

// MountAdmin wires all /api/admin/* endpoints behind authentication and the
// superuser check.
func MountAdmin(mux *http.ServeMux, h *admin.Handler, requireAuth middlewares.Middleware) {
	gate := func(next http.HandlerFunc) http.Handler {
		return middlewares.ApplyMiddleware(next, requireAuth, middlewares.Guard(superusersOnly{}))
	}

	mux.Handle("GET /api/admin/stats", gate(h.Stats))
	mux.Handle("GET /api/admin/users", gate(h.ListUsers))
	mux.Handle("GET /api/admin/users/{id}", gate(h.GetUser))
	mux.Handle("POST /api/admin/users/{id}/superuser", gate(h.SetSuperuser))
	mux.Handle("POST /api/admin/users/{id}/logout", gate(h.LogoutUser))
}
