package lending

import (
	"errors"
	"time"
)

// LoanPeriod is the fixed lending policy: every borrow is due 14 days after
// it is created. It is deliberately not configurable per call.
const LoanPeriod = 14 * 24 * time.Hour

const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNotAvailable        = errors.New("book is not available")
	ErrAlreadyBorrowed     = errors.New("book is already borrowed by this borrower")
	ErrNoActiveBorrow      = errors.New("no active borrow for this book by this borrower")
)

// Principal is the resolved identity of a caller, produced by the HTTP auth
// middleware and threaded explicitly into every service call.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// BookSummary is the slice of a catalog record the ledger cares about.
type BookSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
}

// BorrowerSummary identifies the user holding a loan.
type BorrowerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Transaction is one borrow/return event. It is created by a successful
// borrow and mutated exactly once, by a successful return; it is never
// deleted. ReturnDate == nil means the loan is still open.
type Transaction struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	BorrowerID string     `json:"borrower_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date"`
	CreatedAt  time.Time  `json:"created_at"`

	// Book is nil when the catalog record was deleted after the loan closed.
	Book     *BookSummary     `json:"book,omitempty"`
	Borrower *BorrowerSummary `json:"borrower,omitempty"`
}

func (t Transaction) Open() bool {
	return t.ReturnDate == nil
}

func (t Transaction) OverdueAt(now time.Time) bool {
	return t.Open() && t.DueDate.Before(now)
}

// Stats are aggregate counts over the catalog and ledger, computed at call
// time. TotalOverdue is global regardless of caller.
type Stats struct {
	TotalBooks    int `json:"totalBooks"`
	TotalBorrowed int `json:"totalBorrowed"`
	TotalOverdue  int `json:"totalOverdue"`
}

// DeriveStatus is the canonical availability rule: a book is borrowed if and
// only if it has at least one open transaction. The cached books.status
// column must always be recomputable through this function.
func DeriveStatus(hasOpenTransaction bool) string {
	if hasOpenTransaction {
		return StatusBorrowed
	}
	return StatusAvailable
}
