// Package upload reads image uploads sent either as the raw request body or
// as a multipart form field.
package upload

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/5w1tchy/library-api/internal/api/apperr"
)

// sniffed content type -> object key extension
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

func (i Image) Size() int64 { return int64(len(i.Data)) }

// ReadImage reads at most max bytes from the multipart field or, for any
// other content type, the raw body. The format is sniffed from the bytes;
// the client's Content-Type and filename are not trusted.
func ReadImage(r *http.Request, field string, max int64) (Image, error) {
	var src io.Reader = r.Body
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(max); err != nil {
			return Image{}, apperr.Invalid(field, "Upload a valid image.")
		}
		f, _, err := r.FormFile(field)
		if err != nil {
			return Image{}, apperr.Invalid(field, "No file was submitted.")
		}
		defer f.Close()
		src = f
	}

	data, err := io.ReadAll(io.LimitReader(src, max+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return Image{}, apperr.Invalid(field, "The submitted file is too large.")
		}
		return Image{}, err
	}
	switch {
	case len(data) == 0:
		return Image{}, apperr.Invalid(field, "The submitted file is empty.")
	case int64(len(data)) > max:
		return Image{}, apperr.Invalid(field, "The submitted file is too large.")
	}

	ct := http.DetectContentType(data)
	ext, ok := imageTypes[ct]
	if !ok {
		return Image{}, apperr.Invalid(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return Image{Data: data, ContentType: ct, Ext: ext}, nil
}
