package books

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/5w1tchy/library-api/internal/models"
	storebooks "github.com/5w1tchy/library-api/internal/store/books"
)

// Store is the slice of the book store the handlers need.
type Store interface {
	List(ctx context.Context, f storebooks.Filter, limit, offset int) ([]models.Book, int, error)
	Search(ctx context.Context, f storebooks.Filter) ([]models.Book, error)
	Featured(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id int64) (models.BookDetail, error)
	Create(ctx context.Context, in storebooks.Input) (models.Book, error)
	Replace(ctx context.Context, id int64, in storebooks.Input) (models.Book, error)
	Patch(ctx context.Context, id int64, p storebooks.Patch) (models.Book, error)
	Delete(ctx context.Context, id int64) error
	AddFavorite(ctx context.Context, bookID, userID int64) (models.BookDetail, error)
	RemoveFavorite(ctx context.Context, bookID, userID int64) error
	Favorites(ctx context.Context, userID int64) ([]models.Book, error)
	SetTitlePage(ctx context.Context, id int64, key string) (*string, error)
}

// Objects is the object storage holding title page images.
type Objects interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	DeleteObject(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// BookDTO is the body of POST and PUT.
type BookDTO struct {
	Title           string `json:"title" validate:"required,max=255"`
	Author          string `json:"author" validate:"required,max=255"`
	PublicationYear *int   `json:"publication_year" validate:"omitnil,pubyear"`
	Featured        bool   `json:"featured"`
}

// PatchDTO is the body of PATCH; absent fields stay untouched.
type PatchDTO struct {
	Title           *string      `json:"title" validate:"omitnil,min=1,max=255"`
	Author          *string      `json:"author" validate:"omitnil,min=1,max=255"`
	PublicationYear nullableYear `json:"publication_year"`
	Featured        *bool        `json:"featured"`
}

// nullableYear tells an explicit null apart from an absent key.
type nullableYear struct {
	Set   bool
	Value *int
}

func (y *nullableYear) UnmarshalJSON(b []byte) error {
	y.Set = true
	if string(b) == "null" {
		y.Value = nil
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	y.Value = &n
	return nil
}

type yearCheck struct {
	PublicationYear *int `json:"publication_year" validate:"omitnil,pubyear"`
}

// Detail is the single-book representation; reviews are absolute URLs and
// title_page is a presigned download URL or null.
type Detail struct {
	models.Book
	TitlePage *string  `json:"title_page"`
	Reviews   []string `json:"reviews"`
}

func reviewPath(id int64) string {
	return "/api/book-reviews/" + strconv.FormatInt(id, 10)
}
