package models

import "time"

type Book struct {
	ID              int64      `json:"pk"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	PublicationYear *int       `json:"publication_year"`
	Featured        bool       `json:"featured"`
	FavoriteCount   int        `json:"favorite_count"`
	CreatedAt       time.Time  `json:"-"`
	UpdatedAt       *time.Time `json:"-"`
}

// String mirrors how books are referred to in logs and admin output.
func (b Book) String() string { return b.Title + " by " + b.Author }

// BookDetail is a book together with the ids of its reviews and the object
// key of its title page image, if one was uploaded.
type BookDetail struct {
	Book
	ReviewIDs    []int64
	TitlePageKey *string
}
