package lending

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store with the same semantics as the Postgres
// implementation: compare-and-swap on book status and, like the partial
// unique index, at most one open transaction per book.
type fakeStore struct {
	mu         sync.Mutex
	books      map[string]*BookSummary
	txs        []*Transaction
	seq        int
	failCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{books: map[string]*BookSummary{}}
}

func (f *fakeStore) addBook(id, title, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books[id] = &BookSummary{ID: id, Title: title, Author: "Author", Status: status}
}

func (f *fakeStore) bookStatus(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.books[id].Status
}

func (f *fakeStore) openCount(bookID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, tx := range f.txs {
		if tx.BookID == bookID && tx.ReturnDate == nil {
			n++
		}
	}
	return n
}

func (f *fakeStore) FindBook(_ context.Context, bookID string) (BookSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok {
		return BookSummary{}, ErrBookNotFound
	}
	return *b, nil
}

func (f *fakeStore) ConditionalSetBookStatus(_ context.Context, bookID, expected, next string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[bookID]
	if !ok || b.Status != expected {
		return false, nil
	}
	b.Status = next
	return true, nil
}

func (f *fakeStore) SetBookStatus(_ context.Context, bookID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.books[bookID]; ok {
		b.Status = status
	}
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, tx *Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("store unavailable")
	}
	for _, existing := range f.txs {
		if existing.BookID == tx.BookID && existing.ReturnDate == nil {
			return errors.New("duplicate open transaction for book")
		}
	}
	f.seq++
	tx.ID = fmt.Sprintf("tx-%d", f.seq)
	tx.CreatedAt = tx.BorrowDate
	cp := *tx
	f.txs = append(f.txs, &cp)
	return nil
}

func (f *fakeStore) CloseTransaction(_ context.Context, txID string, returnedAt time.Time) (Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if tx.ID == txID && tx.ReturnDate == nil {
			t := returnedAt
			tx.ReturnDate = &t
			return *tx, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (f *fakeStore) FindOpenTransaction(_ context.Context, bookID, borrowerID string) (Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tx := range f.txs {
		if tx.BookID == bookID && tx.BorrowerID == borrowerID && tx.ReturnDate == nil {
			return *tx, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (f *fakeStore) ExistsOpenTransaction(_ context.Context, bookID string) (bool, error) {
	return f.openCount(bookID) > 0, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, filter Filter) ([]Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []Transaction{}
	for _, tx := range f.txs {
		if filter.BorrowerID != "" && tx.BorrowerID != filter.BorrowerID {
			continue
		}
		if filter.OpenOnly && tx.ReturnDate != nil {
			continue
		}
		if filter.DueBefore != nil && !tx.DueDate.Before(*filter.DueBefore) {
			continue
		}
		out = append(out, *tx)
	}
	if filter.ByDueDate {
		sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (f *fakeStore) ListBookIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.books))
	for id := range f.books {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) CountBooks(_ context.Context, status string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.books {
		if status == "" || b.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountOpenOverdue(_ context.Context, now time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, tx := range f.txs {
		if tx.ReturnDate == nil && tx.DueDate.Before(now) {
			n++
		}
	}
	return n, nil
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) (*Service, *time.Time) {
	now := baseTime
	svc := NewService(store).WithClock(func() time.Time { return now })
	return svc, &now
}

func TestBorrow_CreatesOpenTransactionAndFlipsStatus(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	tx, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "b1", tx.BookID)
	assert.Equal(t, "u1", tx.BorrowerID)
	assert.True(t, tx.Open())
	assert.Equal(t, baseTime, tx.BorrowDate)
	assert.Equal(t, baseTime.Add(14*24*time.Hour), tx.DueDate)
	assert.Equal(t, StatusBorrowed, store.bookStatus("b1"))
	assert.Equal(t, 1, store.openCount("b1"))
}

func TestBorrow_UnknownBook(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "nope", "u1")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBorrow_UnavailableBookNeverCreatesSecondOpenTransaction(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), "b1", "u2")
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, 1, store.openCount("b1"))
}

func TestBorrow_SameBorrowerStillHoldingBook(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), "b1", "u1")
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
}

func TestBorrow_DriftedStatusStillBlocksHolder(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	// Simulate drift: flag says available while u1's loan is still open.
	require.NoError(t, store.SetBookStatus(context.Background(), "b1", StatusAvailable))

	_, err = svc.Borrow(context.Background(), "b1", "u1")
	assert.ErrorIs(t, err, ErrAlreadyBorrowed)
}

func TestBorrow_LedgerWriteFailureRevertsStatus(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.failCreate = true
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.Error(t, err)

	assert.Equal(t, StatusAvailable, store.bookStatus("b1"))
	assert.Equal(t, 0, store.openCount("b1"))
}

func TestReturn_ClosesTransactionAndFreesBook(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, now := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	*now = now.Add(3 * 24 * time.Hour)
	tx, err := svc.Return(context.Background(), "b1", "u1")
	require.NoError(t, err)

	require.NotNil(t, tx.ReturnDate)
	assert.Equal(t, *now, *tx.ReturnDate)
	assert.Equal(t, StatusAvailable, store.bookStatus("b1"))
	assert.Equal(t, 0, store.openCount("b1"))
}

func TestReturn_NoActiveBorrowLeavesLedgerUntouched(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	_, err := svc.Return(context.Background(), "b1", "u1")
	assert.ErrorIs(t, err, ErrNoActiveBorrow)
	assert.Empty(t, store.txs)
}

func TestReturn_TwiceYieldsConflictOnSecondCall(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	_, err := svc.Borrow(context.Background(), "b1", "u1")
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), "b1", "u1")
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), "b1", "u1")
	assert.ErrorIs(t, err, ErrNoActiveBorrow)
	assert.Len(t, store.txs, 1)
}

func TestBorrowReturnCycle(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusBorrowed, store.bookStatus("b1"))

	_, err = svc.Borrow(ctx, "b1", "u2")
	assert.ErrorIs(t, err, ErrNotAvailable)

	_, err = svc.Return(ctx, "b1", "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, store.bookStatus("b1"))

	_, err = svc.Borrow(ctx, "b1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, store.openCount("b1"))
}

func TestListTransactions_AdminSeesAllMembersSeeOwn(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.addBook("b2", "Sapiens", StatusAvailable)
	svc, now := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)
	*now = now.Add(time.Hour)
	_, err = svc.Borrow(ctx, "b2", "u2")
	require.NoError(t, err)

	all, err := svc.ListTransactions(ctx, Principal{ID: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest created first.
	assert.Equal(t, "b2", all[0].BookID)
	assert.Equal(t, "b1", all[1].BookID)

	own, err := svc.ListTransactions(ctx, Principal{ID: "u1", Role: RoleMember})
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "u1", own[0].BorrowerID)
}

func TestListActive_OnlyOpenLoans(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.addBook("b2", "Sapiens", StatusAvailable)
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, "b2", "u1")
	require.NoError(t, err)
	_, err = svc.Return(ctx, "b1", "u1")
	require.NoError(t, err)

	active, err := svc.ListActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b2", active[0].BookID)
}

func TestListOverdue_ScopingSortingAndReturnClears(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.addBook("b2", "Sapiens", StatusAvailable)
	store.addBook("b3", "1984", StatusAvailable)
	svc, now := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)
	*now = now.Add(24 * time.Hour)
	_, err = svc.Borrow(ctx, "b2", "u2")
	require.NoError(t, err)
	*now = now.Add(24 * time.Hour)
	_, err = svc.Borrow(ctx, "b3", "u1")
	require.NoError(t, err)

	// Nothing is overdue inside the loan period.
	overdue, err := svc.ListOverdue(ctx, Principal{ID: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Empty(t, overdue)

	// 16 days after the first borrow the first two loans are past due.
	*now = baseTime.Add(16 * 24 * time.Hour)
	overdue, err = svc.ListOverdue(ctx, Principal{ID: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	// Soonest due first.
	assert.Equal(t, "b1", overdue[0].BookID)
	assert.Equal(t, "b2", overdue[1].BookID)
	for _, tx := range overdue {
		assert.Nil(t, tx.ReturnDate)
		assert.True(t, tx.DueDate.Before(*now))
	}

	memberOverdue, err := svc.ListOverdue(ctx, Principal{ID: "u2", Role: RoleMember})
	require.NoError(t, err)
	require.Len(t, memberOverdue, 1)
	assert.Equal(t, "b2", memberOverdue[0].BookID)

	_, err = svc.Return(ctx, "b1", "u1")
	require.NoError(t, err)
	overdue, err = svc.ListOverdue(ctx, Principal{ID: "admin", Role: RoleAdmin})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "b2", overdue[0].BookID)
}

func TestStats_CountsAtCallTime(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.addBook("b2", "Sapiens", StatusAvailable)
	store.addBook("b3", "1984", StatusAvailable)
	svc, now := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)
	_, err = svc.Borrow(ctx, "b2", "u2")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalBooks: 3, TotalBorrowed: 2, TotalOverdue: 0}, stats)

	*now = now.Add(15 * 24 * time.Hour)
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalBooks: 3, TotalBorrowed: 2, TotalOverdue: 2}, stats)
}

func TestReconcile_CorrectsDriftBothWaysAndIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	store.addBook("b2", "Sapiens", StatusAvailable)
	store.addBook("b3", "1984", StatusAvailable)
	svc, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Borrow(ctx, "b1", "u1")
	require.NoError(t, err)

	// Flag drifted to available while b1's loan is open, and b2 drifted to
	// borrowed with no loan at all.
	require.NoError(t, store.SetBookStatus(ctx, "b1", StatusAvailable))
	require.NoError(t, store.SetBookStatus(ctx, "b2", StatusBorrowed))

	corrected, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, corrected)
	assert.Equal(t, StatusBorrowed, store.bookStatus("b1"))
	assert.Equal(t, StatusAvailable, store.bookStatus("b2"))
	assert.Equal(t, StatusAvailable, store.bookStatus("b3"))

	corrected, err = svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, corrected)
}

func TestConcurrentBorrows_ExactlyOneWins(t *testing.T) {
	store := newFakeStore()
	store.addBook("b1", "Dune", StatusAvailable)
	svc, _ := newTestService(store)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = svc.Borrow(context.Background(), "b1", fmt.Sprintf("u%d", n))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNotAvailable)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.openCount("b1"))
	assert.Equal(t, StatusBorrowed, store.bookStatus("b1"))
}
