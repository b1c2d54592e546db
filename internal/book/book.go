package book

import (
	"errors"
	"time"
)

const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrBorrowed is returned when deleting a book that is currently out on
	// loan; a future ledger entry must never reference a deleted book.
	ErrBorrowed = errors.New("cannot delete a borrowed book")
)

// Book represents a catalog entry. Status is a cached view of the ledger:
// borrowed iff an open transaction exists for this book. It is mutated only
// by the lending service.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Query defines filters for listing books.
type Query struct {
	Q        string // free text over title/author/category
	Category string
	Status   string
}

// UpdateFields carries a partial update: empty Title/Author are left
// untouched, a non-nil Category replaces the stored value (may clear it).
type UpdateFields struct {
	Title    string
	Author   string
	Category *string
}
