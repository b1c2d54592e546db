package lending

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_store.go -package=mocks

// Filter selects and orders ledger entries for listing.
type Filter struct {
	BorrowerID string // empty selects all borrowers
	OpenOnly   bool
	DueBefore  *time.Time
	// ByDueDate orders ascending by due date (soonest first); the default
	// order is newest created first.
	ByDueDate bool
}

// Store is the persistence contract the lending service requires from the
// catalog and ledger. ConditionalSetBookStatus must be an atomic
// compare-and-swap on the status column; it is the mutual-exclusion point
// for concurrent borrows.
type Store interface {
	FindBook(ctx context.Context, bookID string) (BookSummary, error)
	ConditionalSetBookStatus(ctx context.Context, bookID, expected, next string) (bool, error)
	SetBookStatus(ctx context.Context, bookID, status string) error

	CreateTransaction(ctx context.Context, tx *Transaction) error
	CloseTransaction(ctx context.Context, txID string, returnedAt time.Time) (Transaction, error)
	FindOpenTransaction(ctx context.Context, bookID, borrowerID string) (Transaction, error)
	ExistsOpenTransaction(ctx context.Context, bookID string) (bool, error)
	ListTransactions(ctx context.Context, f Filter) ([]Transaction, error)

	ListBookIDs(ctx context.Context) ([]string, error)
	CountBooks(ctx context.Context, status string) (int, error)
	CountOpenOverdue(ctx context.Context, now time.Time) (int, error)
}
