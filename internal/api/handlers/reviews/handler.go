// Package reviews serves book reviews: listing and creating them under a book
// and retrieving or deleting a single review.
package reviews

import (
	"context"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/validate"
)

type Store interface {
	List(ctx context.Context, bookID int64, search string) ([]models.BookReview, error)
	Get(ctx context.Context, id int64) (models.BookReview, error)
	Create(ctx context.Context, bookID, reviewerID int64, body string) (models.BookReview, error)
	Delete(ctx context.Context, id int64) error
}

type ReviewDTO struct {
	Body string `json:"body" validate:"required"`
}

type Review struct {
	ID         int64   `json:"pk"`
	Body       string  `json:"body"`
	Book       string  `json:"book"`
	ReviewedBy *string `json:"reviewed_by"`
}

func toReview(rv models.BookReview) Review {
	return Review{ID: rv.ID, Body: rv.Body, Book: rv.BookTitle, ReviewedBy: rv.ReviewerUsername}
}

type Handler struct {
	store  Store
	policy middlewares.Policy
}

func New(s Store) *Handler {
	return &Handler{store: s, policy: middlewares.OwnerOrAdmin{}}
}

// List serves GET /api/books/{book_id}/reviews; ?search= filters the bodies
// with full-text search.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bookID, err := httpx.PathID(r, "book_id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	rvs, err := h.store.List(r.Context(), bookID, validate.Normalize(r.URL.Query().Get("search")))
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	out := make([]Review, 0, len(rvs))
	for _, rv := range rvs {
		out = append(out, toReview(rv))
	}
	httpx.OK(w, out)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	bookID, err := httpx.PathID(r, "book_id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	var dto ReviewDTO
	if err := httpx.Decode(r, &dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	dto.Body = validate.Normalize(dto.Body)
	if err := validate.Struct(dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	a, _ := middlewares.ActorFrom(r.Context())
	rv, err := h.store.Create(r.Context(), bookID, a.ID, dto.Body)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Created(w, toReview(rv))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	rv, err := h.store.Get(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, toReview(rv))
}

// Delete is allowed for the reviewer and for superusers.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	rv, err := h.store.Get(r.Context(), id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if !middlewares.CheckObject(w, r, h.policy, rv.ReviewerID) {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
