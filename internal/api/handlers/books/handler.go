// Package books serves the book catalog, featured books, favorites and
// title page uploads.
package books

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/5w1tchy/library-api/internal/api/httpx"
	"github.com/5w1tchy/library-api/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Handler struct {
	store   Store
	objects Objects
	now     func() time.Time
	log     *slog.Logger
}

// New returns the book handlers. objects may be nil, in which case title
// pages are neither accepted nor linked.
func New(s Store, objects Objects) *Handler {
	return &Handler{
		store:   s,
		objects: objects,
		now:     time.Now,
		log:     slog.Default().With("component", "books"),
	}
}

func (h *Handler) detail(r *http.Request, d models.BookDetail) (Detail, error) {
	out := Detail{Book: d.Book, Reviews: make([]string, 0, len(d.ReviewIDs))}
	for _, id := range d.ReviewIDs {
		out.Reviews = append(out.Reviews, httpx.AbsoluteURL(r, reviewPath(id)))
	}
	if d.TitlePageKey != nil && h.objects != nil {
		url, err := h.objects.PresignGet(r.Context(), *d.TitlePageKey)
		if err != nil {
			return Detail{}, err
		}
		out.TitlePage = &url
	}
	return out, nil
}

func nonNil(bs []models.Book) []models.Book {
	if bs == nil {
		return []models.Book{}
	}
	return bs
}
