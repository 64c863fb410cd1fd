package models

import "time"

type BookReview struct {
	ID        int64
	Body      string
	BookID    int64
	BookTitle string
	// ReviewerID and ReviewerUsername are nil once the reviewer account is gone.
	ReviewerID       *int64
	ReviewerUsername *string
	CreatedAt        time.Time
}
