// Package bookrecords serves a reader's reading-state records for one book,
// nested under /api/books/{book_id}/book_records.
package bookrecords

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
	List(ctx context.Context, bookID, readerID int64) ([]models.BookRecord, error)
	Get(ctx context.Context, bookID, readerID, id int64) (models.BookRecord, error)
	Create(ctx context.Context, bookID, readerID int64, state models.ReadingState) (models.BookRecord, error)
	UpdateState(ctx context.Context, bookID, readerID, id int64, state models.ReadingState) (models.BookRecord, error)
	Delete(ctx context.Context, bookID, readerID, id int64) error
}

type RecordDTO struct {
	ReadingState string `json:"reading_state" validate:"required,reading_state"`
}

type PatchDTO struct {
	ReadingState *string `json:"reading_state" validate:"omitnil,reading_state"`
}

// Record is the client representation of a reading record.
type Record struct {
	ID           int64               `json:"pk"`
	Book         models.Book         `json:"book"`
	Reader       string              `json:"reader"`
	ReadingState models.ReadingState `json:"reading_state"`
}

func toRecord(rec models.BookRecord) Record {
	return Record{ID: rec.ID, Book: rec.Book, Reader: rec.ReaderUsername, ReadingState: rec.ReadingState}
}

type Handler struct {
	store  Store
	policy middlewares.Policy
}

func New(s Store) *Handler {
	return &Handler{store: s, policy: middlewares.ReaderOrReadOnly{}}
}

// scope resolves the book id, the record id (when named) and the acting reader.
func scope(r *http.Request, withID bool) (bookID, id, readerID int64, ok bool) {
	var err error
	if bookID, err = httpx.PathID(r, "book_id"); err != nil {
		return 0, 0, 0, false
	}
	if withID {
		if id, err = httpx.PathID(r, "id"); err != nil {
			return 0, 0, 0, false
		}
	}
	a, _ := middlewares.ActorFrom(r.Context())
	return bookID, id, a.ID, true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	bookID, _, reader, ok := scope(r, false)
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	recs, err := h.store.List(r.Context(), bookID, reader)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecord(rec))
	}
	httpx.OK(w, out)
}

// Create binds the record to the requesting reader and the book in the path.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	bookID, _, reader, ok := scope(r, false)
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	var dto RecordDTO
	if err := httpx.Decode(r, &dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	rec, err := h.store.Create(r.Context(), bookID, reader, models.ReadingState(dto.ReadingState))
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Created(w, toRecord(rec))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, id, reader, ok := scope(r, true)
	if !ok {
		apperr.NotFound(w, r)
		return
	}
	rec, err := h.store.Get(r.Context(), bookID, reader, id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, toRecord(rec))
}

// owned loads the record and applies the object-level policy.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (models.BookRecord, bool) {
	bookID, id, reader, ok := scope(r, true)
	if !ok {
		apperr.NotFound(w, r)
		return models.BookRecord{}, false
	}
	rec, err := h.store.Get(r.Context(), bookID, reader, id)
	if err != nil {
		apperr.WriteError(w, r, err)
		return models.BookRecord{}, false
	}
	if !middlewares.CheckObject(w, r, h.policy, &rec.ReaderID) {
		return models.BookRecord{}, false
	}
	return rec, true
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.owned(w, r)
	if !ok {
		return
	}
	var dto RecordDTO
	if err := httpx.Decode(r, &dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	h.update(w, r, rec, models.ReadingState(dto.ReadingState))
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.owned(w, r)
	if !ok {
		return
	}
	var dto PatchDTO
	if err := httpx.Decode(r, &dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if dto.ReadingState == nil {
		httpx.OK(w, toRecord(rec))
		return
	}
	h.update(w, r, rec, models.ReadingState(*dto.ReadingState))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, rec models.BookRecord, state models.ReadingState) {
	out, err := h.store.UpdateState(r.Context(), rec.Book.ID, rec.ReaderID, rec.ID, state)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, toRecord(out))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), rec.Book.ID, rec.ReaderID, rec.ID); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
