package books

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
)

// AddFavorite is idempotent: favoriting twice still answers 201 with the book.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "book_id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	a, _ := middlewares.ActorFrom(r.Context())
	d, err := h.store.AddFavorite(r.Context(), id, a.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	out, err := h.detail(r, d)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Created(w, out)
}

func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "book_id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	a, _ := middlewares.ActorFrom(r.Context())
	if err := h.store.RemoveFavorite(r.Context(), id, a.ID); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

// Favorites lists the requesting user's favorite books.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	a, _ := middlewares.ActorFrom(r.Context())
	bs, err := h.store.Favorites(r.Context(), a.ID)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, nonNil(bs))
}
