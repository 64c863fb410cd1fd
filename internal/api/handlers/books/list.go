package books

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/validate"
)

func filterFrom(r *http.Request) storebooks.Filter {
	q := r.URL.Query()
	return storebooks.Filter{
		Title:  validate.Normalize(q.Get("title")),
		Author: validate.Normalize(q.Get("author")),
		Year:   validate.Normalize(q.Get("publication_year")),
	}
}

// List serves GET /api/books: filtered, ordered by title and paged.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := validate.ClampLimitOffset(q.Get("limit"), q.Get("offset"), defaultLimit, maxLimit)

	bs, total, err := h.store.List(r.Context(), filterFrom(r), limit, offset)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Page(w, nonNil(bs), total, limit, offset)
}

// Search serves GET /api/books/search with the same filters, unpaged.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	bs, err := h.store.Search(r.Context(), filterFrom(r))
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, nonNil(bs))
}

func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	bs, err := h.store.Featured(r.Context())
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, nonNil(bs))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	d, err := h.store.Get(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	out, err := h.detail(r, d)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, out)
}
