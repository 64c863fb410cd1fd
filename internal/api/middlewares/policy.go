package middlewares

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

// Policy decides whether an actor may perform a method, first for the
// request as a whole and then for a specific object.
type Policy interface {
	Allow(method string, a Actor) bool
	// AllowObject checks an object owned by ownerID (nil when the owner is
	// unknown or gone).
	AllowObject(method string, a Actor, ownerID *int64) bool
}

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOrReadOnly lets any authenticated user read; writes need a superuser.
type AdminOrReadOnly struct{}

func (AdminOrReadOnly) Allow(method string, a Actor) bool {
	return a.ID != 0 && (IsSafeMethod(method) || a.IsSuperuser)
}

func (p AdminOrReadOnly) AllowObject(method string, a Actor, _ *int64) bool {
	return p.Allow(method, a)
}

// ReaderOrReadOnly lets any authenticated user read; an object can only be
// changed by the user who owns it.
type ReaderOrReadOnly struct{}

func (ReaderOrReadOnly) Allow(_ string, a Actor) bool { return a.ID != 0 }

func (ReaderOrReadOnly) AllowObject(method string, a Actor, ownerID *int64) bool {
	if a.ID == 0 {
		return false
	}
	return IsSafeMethod(method) || (ownerID != nil && *ownerID == a.ID)
}

// OwnerOrAdmin is ReaderOrReadOnly that also lets superusers change any object.
type OwnerOrAdmin struct{}

func (OwnerOrAdmin) Allow(_ string, a Actor) bool { return a.ID != 0 }

func (OwnerOrAdmin) AllowObject(method string, a Actor, ownerID *int64) bool {
	return (a.ID != 0 && a.IsSuperuser) || ReaderOrReadOnly{}.AllowObject(method, a, ownerID)
}

// Guard enforces p at request level: 401 without an actor, 403 when denied.
func Guard(p Policy) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := ActorFrom(r.Context())
			if !ok {
				apperr.Unauthorized(w, r, "Authentication credentials were not provided.")
				return
			}
			if !p.Allow(r.Method, a) {
				apperr.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CheckObject applies the object-level rule and writes 403 when denied.
func CheckObject(w http.ResponseWriter, r *http.Request, p Policy, ownerID *int64) bool {
	a, _ := ActorFrom(r.Context())
	if !p.AllowObject(r.Method, a, ownerID) {
		apperr.Forbidden(w, r)
		return false
	}
	return true
}
