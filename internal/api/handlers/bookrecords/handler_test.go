package bookrecords

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/5w1tchy/library-api/internal/api/middlewares"
	"github.com/5w1tchy/library-api/internal/models"
	"github.com/5w1tchy/library-api/internal/store/dbx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	books   map[int64]models.Book
	users   map[int64]string
	records map[int64]*models.BookRecord
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		books:   map[int64]models.Book{1: {ID: 1, Title: "Emma", Author: "Jane Austen"}},
		users:   map[int64]string{7: "Belletrix", 8: "Other"},
		records: map[int64]*models.BookRecord{},
		nextID:  1,
	}
}

func (m *memStore) List(_ context.Context, bookID, readerID int64) ([]models.BookRecord, error) {
	var out []models.BookRecord
	for id := int64(1); id < m.nextID; id++ {
		if rec, ok := m.records[id]; ok && rec.Book.ID == bookID && rec.ReaderID == readerID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, bookID, readerID, id int64) (models.BookRecord, error) {
	rec, ok := m.records[id]
	if !ok || rec.Book.ID != bookID || rec.ReaderID != readerID {
		return models.BookRecord{}, dbx.ErrNotFound
	}
	return *rec, nil
}

func (m *memStore) Create(_ context.Context, bookID, readerID int64, state models.ReadingState) (models.BookRecord, error) {
	b, ok := m.books[bookID]
	if !ok {
		return models.BookRecord{}, dbx.ErrNotFound
	}
	for _, rec := range m.records {
		if rec.Book.ID == bookID && rec.ReaderID == readerID {
			return models.BookRecord{}, &pgconn.PgError{Code: "23505", ConstraintName: "unique_book_record_for_user"}
		}
	}
	rec := &models.BookRecord{ID: m.nextID, Book: b, ReaderID: readerID, ReaderUsername: m.users[readerID], ReadingState: state}
	m.records[rec.ID] = rec
	m.nextID++
	return *rec, nil
}

func (m *memStore) UpdateState(ctx context.Context, bookID, readerID, id int64, state models.ReadingState) (models.BookRecord, error) {
	if _, err := m.Get(ctx, bookID, readerID, id); err != nil {
		return models.BookRecord{}, err
	}
	m.records[id].ReadingState = state
	return *m.records[id], nil
}

func (m *memStore) Delete(ctx context.Context, bookID, readerID, id int64) error {
	if _, err := m.Get(ctx, bookID, readerID, id); err != nil {
		return err
	}
	delete(m.records, id)
	return nil
}

func serve(h *Handler, actor middlewares.Actor, method, target, body string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books/{book_id}/book_records", h.List)
	mux.HandleFunc("POST /api/books/{book_id}/book_records", h.Create)
	mux.HandleFunc("GET /api/books/{book_id}/book_records/{id}", h.Get)
	mux.HandleFunc("PUT /api/books/{book_id}/book_records/{id}", h.Put)
	mux.HandleFunc("PATCH /api/books/{book_id}/book_records/{id}", h.Patch)
	mux.HandleFunc("DELETE /api/books/{book_id}/book_records/{id}", h.Delete)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middlewares.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

var (
	reader = middlewares.Actor{ID: 7, Username: "Belletrix"}
	other  = middlewares.Actor{ID: 8, Username: "Other"}
)

func TestCreateAndConflict(t *testing.T) {
	h := New(newMemStore())

	rec := serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"rg"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env struct {
		Data Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Belletrix", env.Data.Reader)
	assert.Equal(t, models.Reading, env.Data.ReadingState)
	assert.Equal(t, "Emma", env.Data.Book.Title)

	rec = serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"rd"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already created a book record for this book")
}

func TestCreate_SameBookDifferentReaders(t *testing.T) {
	h := New(newMemStore())
	require.Equal(t, http.StatusCreated, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"rg"}`).Code)

	rec := serve(h, other, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"wr"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var env struct {
		Data Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Other", env.Data.Reader)
	assert.Equal(t, models.WantToRead, env.Data.ReadingState)

	// uniqueness is per reader
	assert.Equal(t, http.StatusBadRequest, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"rd"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, other, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"rd"}`).Code)
}

func TestCreateRejects(t *testing.T) {
	h := New(newMemStore())

	assert.Equal(t, http.StatusNotFound, serve(h, reader, http.MethodPost, "/api/books/99/book_records", `{"reading_state":"wr"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"xx"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{}`).Code)
}

func TestOtherReadersRecordsAreHidden(t *testing.T) {
	h := New(newMemStore())
	require.Equal(t, http.StatusCreated, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"wr"}`).Code)

	rec := serve(h, other, http.MethodGet, "/api/books/1/book_records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(h, other, http.MethodGet, "/api/books/1/book_records/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, other, http.MethodPatch, "/api/books/1/book_records/1", `{"reading_state":"rd"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, other, http.MethodDelete, "/api/books/1/book_records/1", "").Code)
}

func TestUpdateAndDelete(t *testing.T) {
	h := New(newMemStore())
	require.Equal(t, http.StatusCreated, serve(h, reader, http.MethodPost, "/api/books/1/book_records", `{"reading_state":"wr"}`).Code)

	rec := serve(h, reader, http.MethodPatch, "/api/books/1/book_records/1", `{"reading_state":"rd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reading_state":"rd"`)

	rec = serve(h, reader, http.MethodPatch, "/api/books/1/book_records/1", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reading_state":"rd"`)

	assert.Equal(t, http.StatusBadRequest, serve(h, reader, http.MethodPut, "/api/books/1/book_records/1", `{}`).Code)
	rec = serve(h, reader, http.MethodPut, "/api/books/1/book_records/1", `{"reading_state":"rg"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reading_state":"rg"`)

	assert.Equal(t, http.StatusNoContent, serve(h, reader, http.MethodDelete, "/api/books/1/book_records/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, reader, http.MethodGet, "/api/books/1/book_records/1", "").Code)
}
