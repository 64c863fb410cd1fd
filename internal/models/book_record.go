package models

import "time"

// ReadingState is stored as a two-letter code.
type ReadingState string

const (
	WantToRead ReadingState = "wr"
	Reading    ReadingState = "rg"
	Read       ReadingState = "rd"
)

var readingStateLabels = map[ReadingState]string{
	WantToRead: "want to read",
	Reading:    "reading",
	Read:       "read",
}

func (s ReadingState) Valid() bool {
	_, ok := readingStateLabels[s]
	return ok
}

func (s ReadingState) Label() string { return readingStateLabels[s] }

// ReadingStates lists the codes in display order.
func ReadingStates() []ReadingState { return []ReadingState{WantToRead, Reading, Read} }

type BookRecord struct {
	ID             int64
	Book           Book
	ReaderID       int64
	ReaderUsername string
	ReadingState   ReadingState
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
