package lending

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Service enforces the borrow/return lifecycle: one open transaction per
// book at most, book status kept consistent with the ledger, overdue and
// aggregate views derived from current state.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the time source, used by tests to move time forward.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Borrow creates an open transaction for (book, borrower) and flips the book
// to borrowed. The conditional status update is the real mutual exclusion:
// under concurrent borrows of the same book exactly one caller wins the swap
// and every loser gets ErrNotAvailable.
func (s *Service) Borrow(ctx context.Context, bookID, borrowerID string) (Transaction, error) {
	book, err := s.store.FindBook(ctx, bookID)
	if err != nil {
		return Transaction{}, err
	}

	// Guards against a borrower re-borrowing a book they still hold, which
	// is only reachable if the status column has drifted.
	if _, err := s.store.FindOpenTransaction(ctx, bookID, borrowerID); err == nil {
		return Transaction{}, ErrAlreadyBorrowed
	} else if !errors.Is(err, ErrTransactionNotFound) {
		return Transaction{}, err
	}

	if book.Status != StatusAvailable {
		return Transaction{}, ErrNotAvailable
	}

	swapped, err := s.store.ConditionalSetBookStatus(ctx, bookID, StatusAvailable, StatusBorrowed)
	if err != nil {
		return Transaction{}, err
	}
	if !swapped {
		// Lost the race; an ordinary outcome, not an error.
		return Transaction{}, ErrNotAvailable
	}

	now := s.now()
	tx := Transaction{
		BookID:     bookID,
		BorrowerID: borrowerID,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
	}
	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		// The status flag is set with no open transaction behind it. Undo
		// the swap so the drift does not linger until the next sweep.
		if _, revertErr := s.store.ConditionalSetBookStatus(ctx, bookID, StatusBorrowed, StatusAvailable); revertErr != nil {
			log.Printf("lending: borrow revert failed, reconciliation needed book_id=%s err=%v", bookID, revertErr)
		}
		return Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}
	return tx, nil
}

// Return closes the borrower's open transaction for the book, then
// re-derives the status from the ledger instead of assuming the closed loan
// was the only open one.
func (s *Service) Return(ctx context.Context, bookID, borrowerID string) (Transaction, error) {
	if _, err := s.store.FindBook(ctx, bookID); err != nil {
		return Transaction{}, err
	}

	open, err := s.store.FindOpenTransaction(ctx, bookID, borrowerID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return Transaction{}, ErrNoActiveBorrow
		}
		return Transaction{}, err
	}

	closed, err := s.store.CloseTransaction(ctx, open.ID, s.now())
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			// Closed concurrently between lookup and update.
			return Transaction{}, ErrNoActiveBorrow
		}
		return Transaction{}, fmt.Errorf("closing transaction: %w", err)
	}

	if err := s.syncBookStatus(ctx, bookID); err != nil {
		// The return itself succeeded; the stale flag is drift that the
		// reconciliation sweep corrects.
		log.Printf("lending: status sync failed after return, reconciliation needed book_id=%s err=%v", bookID, err)
	}
	return closed, nil
}

// ListTransactions returns the full ledger for admins and the caller's own
// entries otherwise, newest first.
func (s *Service) ListTransactions(ctx context.Context, p Principal) ([]Transaction, error) {
	f := Filter{}
	if !p.IsAdmin() {
		f.BorrowerID = p.ID
	}
	return s.store.ListTransactions(ctx, f)
}

// ListActive returns one borrower's open transactions, newest first.
func (s *Service) ListActive(ctx context.Context, borrowerID string) ([]Transaction, error) {
	return s.store.ListTransactions(ctx, Filter{BorrowerID: borrowerID, OpenOnly: true})
}

// ListOverdue returns open transactions past their due date, most urgent
// first. Admins see every borrower, members only themselves.
func (s *Service) ListOverdue(ctx context.Context, p Principal) ([]Transaction, error) {
	now := s.now()
	f := Filter{OpenOnly: true, DueBefore: &now, ByDueDate: true}
	if !p.IsAdmin() {
		f.BorrowerID = p.ID
	}
	return s.store.ListTransactions(ctx, f)
}

// Stats computes aggregate counts at call time; nothing is cached.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := s.store.CountBooks(ctx, "")
	if err != nil {
		return Stats{}, err
	}
	borrowed, err := s.store.CountBooks(ctx, StatusBorrowed)
	if err != nil {
		return Stats{}, err
	}
	overdue, err := s.store.CountOpenOverdue(ctx, s.now())
	if err != nil {
		return Stats{}, err
	}
	return Stats{TotalBooks: total, TotalBorrowed: borrowed, TotalOverdue: overdue}, nil
}

// Reconcile recomputes every book's status from the ledger and corrects
// mismatches. It is idempotent and safe to run alongside live traffic: each
// correction is a compare-and-swap from the observed stale value, so a
// borrow landing mid-sweep is never clobbered. Returns the number of books
// corrected.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	ids, err := s.store.ListBookIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing books: %w", err)
	}

	corrected := 0
	for _, id := range ids {
		book, err := s.store.FindBook(ctx, id)
		if err != nil {
			if errors.Is(err, ErrBookNotFound) {
				continue // deleted mid-sweep
			}
			return corrected, err
		}
		hasOpen, err := s.store.ExistsOpenTransaction(ctx, id)
		if err != nil {
			return corrected, err
		}
		want := DeriveStatus(hasOpen)
		if book.Status == want {
			continue
		}
		swapped, err := s.store.ConditionalSetBookStatus(ctx, id, book.Status, want)
		if err != nil {
			return corrected, err
		}
		if swapped {
			log.Printf("lending: reconciled book status book_id=%s from=%s to=%s", id, book.Status, want)
			corrected++
		}
	}
	return corrected, nil
}

func (s *Service) syncBookStatus(ctx context.Context, bookID string) error {
	hasOpen, err := s.store.ExistsOpenTransaction(ctx, bookID)
	if err != nil {
		return err
	}
	return s.store.SetBookStatus(ctx, bookID, DeriveStatus(hasOpen))
}
