package books

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
	"github.com/5w1tchy/library-api/internal/api/handlers/upload"
	"github.com/5w1tchy/library-api/internal/api/httpx"
	storage "github.com/5w1tchy/library-api/internal/storage/s3"
)

// MaxTitlePageBytes caps a title page upload.
const MaxTitlePageBytes = 8 << 20

var errNoObjects = errors.New("object storage not configured")

// UploadTitlePage serves PUT /api/books/{id}/title_page. The image arrives as
// the raw body or a multipart "title_page" field; the replaced object is
// removed best-effort. Answers with the book detail.
func (h *Handler) UploadTitlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := httpx.PathID(r, "id")
	if err != nil {
		apperr.NotFound(w, r)
		return
	}
	if h.objects == nil {
		apperr.WriteError(w, r, errNoObjects)
		return
	}

	img, err := upload.ReadImage(r, "title_page", MaxTitlePageBytes)
	if err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	key := storage.TitlePageKey(h.now(), img.Ext)
	if err := h.objects.PutObject(ctx, key, img.ContentType, bytes.NewReader(img.Data), img.Size()); err != nil {
		apperr.WriteError(w, r, err)
		return
	}

	prev, err := h.store.SetTitlePage(ctx, id, key)
	if err != nil {
		if derr := h.objects.DeleteObject(ctx, key); derr != nil {
			h.log.Warn("orphaned title page", "key", key, "err", derr)
		}
		apperr.WriteError(w, r, err)
		return
	}
	if prev != nil && *prev != key {
		if err := h.objects.DeleteObject(ctx, *prev); err != nil {
			h.log.Warn("old title page not deleted", "key", *prev, "err", err)
		}
	}
	h.log.Info("title page updated", "book_id", id, "key", key)

	d, err := h.store.Get(ctx, id)
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
