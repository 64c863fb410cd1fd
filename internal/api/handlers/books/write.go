package books

import (
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	storebooks "github.com/5w1tchy/library-api/internal/store/books"
	"github.com/5w1tchy/library-api/internal/validate"
)

func decodeBook(r *http.Request) (storebooks.Input, error) {
	var dto BookDTO
	if err := httpx.Decode(r, &dto); err != nil {
		return storebooks.Input{}, err
	}
	dto.Title = validate.Normalize(dto.Title)
	dto.Author = validate.Normalize(dto.Author)
	if err := validate.Struct(dto); err != nil {
		return storebooks.Input{}, err
	}
	return storebooks.Input{
		Title:           dto.Title,
		Author:          dto.Author,
		PublicationYear: dto.PublicationYear,
		Featured:        dto.Featured,
	}, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeBook(r)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	b, err := h.store.Create(r.Context(), in)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.Created(w, b)
}

// Put replaces every writable field; an omitted publication_year becomes null.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	in, err := decodeBook(r)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	b, err := h.store.Replace(r.Context(), id, in)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, b)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	var dto PatchDTO
	if err := httpx.Decode(r, &dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	for _, s := range []*string{dto.Title, dto.Author} {
		if s != nil {
			*s = validate.Normalize(*s)
		}
	}
	if err := validate.Struct(dto); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	if err := validate.Struct(yearCheck{PublicationYear: dto.PublicationYear.Value}); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	b, err := h.store.Patch(r.Context(), id, storebooks.Patch{
		Title:           dto.Title,
		Author:          dto.Author,
		SetYear:         dto.PublicationYear.Set,
		PublicationYear: dto.PublicationYear.Value,
		Featured:        dto.Featured,
	})
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.OK(w, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		apperr.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}
