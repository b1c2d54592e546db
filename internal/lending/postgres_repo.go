package lending

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of the books, users and
// transactions tables.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) FindBook(ctx context.Context, bookID string) (BookSummary, error) {
	const query = `
	SELECT id, title, author, category, status
	FROM books
	WHERE id = $1
	LIMIT 1
	`
	var b BookSummary
	err := r.db.QueryRow(ctx, query, bookID).Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BookSummary{}, ErrBookNotFound
		}
		return BookSummary{}, err
	}
	return b, nil
}

// ConditionalSetBookStatus is the compare-and-swap the service relies on for
// mutual exclusion: the row only changes if it still carries the expected
// status, and the report of whether it did is atomic with the change.
func (r *PostgresStore) ConditionalSetBookStatus(ctx context.Context, bookID, expected, next string) (bool, error) {
	const query = `
	UPDATE books
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, bookID, expected, next)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresStore) SetBookStatus(ctx context.Context, bookID, status string) error {
	const query = `
	UPDATE books
	SET status = $2, updated_at = NOW()
	WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, bookID, status)
	return err
}

func (r *PostgresStore) CreateTransaction(ctx context.Context, tx *Transaction) error {
	const query = `
	INSERT INTO transactions (id, book_id, borrower_id, borrow_date, due_date)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, tx.BookID, tx.BorrowerID, tx.BorrowDate, tx.DueDate).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return err
	}

	joined, err := r.findByID(ctx, tx.ID)
	if err != nil {
		return err
	}
	*tx = joined
	return nil
}

func (r *PostgresStore) CloseTransaction(ctx context.Context, txID string, returnedAt time.Time) (Transaction, error) {
	const query = `
	UPDATE transactions
	SET return_date = $2
	WHERE id = $1 AND return_date IS NULL
	`
	tag, err := r.db.Exec(ctx, query, txID, returnedAt)
	if err != nil {
		return Transaction{}, err
	}
	if tag.RowsAffected() == 0 {
		// Already closed or never existed.
		return Transaction{}, ErrTransactionNotFound
	}
	return r.findByID(ctx, txID)
}

func (r *PostgresStore) FindOpenTransaction(ctx context.Context, bookID, borrowerID string) (Transaction, error) {
	query := selectJoined + `
	WHERE t.book_id = $1 AND t.borrower_id = $2 AND t.return_date IS NULL
	LIMIT 1
	`
	rows, err := r.db.Query(ctx, query, bookID, borrowerID)
	if err != nil {
		return Transaction{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Transaction{}, err
		}
		return Transaction{}, ErrTransactionNotFound
	}
	return scanJoined(rows)
}

func (r *PostgresStore) ExistsOpenTransaction(ctx context.Context, bookID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM transactions
		WHERE book_id = $1 AND return_date IS NULL
	)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresStore) ListTransactions(ctx context.Context, f Filter) ([]Transaction, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if f.BorrowerID != "" {
		clauses = append(clauses, fmt.Sprintf("t.borrower_id = $%d", argn))
		args = append(args, f.BorrowerID)
		argn++
	}
	if f.OpenOnly {
		clauses = append(clauses, "t.return_date IS NULL")
	}
	if f.DueBefore != nil {
		clauses = append(clauses, fmt.Sprintf("t.due_date < $%d", argn))
		args = append(args, *f.DueBefore)
		argn++
	}

	order := "t.created_at DESC"
	if f.ByDueDate {
		order = "t.due_date ASC"
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY %s",
		selectJoined, strings.Join(clauses, " AND "), order)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		tx, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *PostgresStore) ListBookIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM books`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PostgresStore) CountBooks(ctx context.Context, status string) (int, error) {
	query := `SELECT COUNT(*) FROM books`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresStore) CountOpenOverdue(ctx context.Context, now time.Time) (int, error) {
	const query = `
	SELECT COUNT(*) FROM transactions
	WHERE return_date IS NULL AND due_date < $1
	`
	var n int
	if err := r.db.QueryRow(ctx, query, now).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Ledger rows outlive catalog rows, so the book side of the join is LEFT:
// a transaction whose book was deleted after the loan closed still lists,
// with a nil book summary.
const selectJoined = `
	SELECT t.id, t.book_id, t.borrower_id, t.borrow_date, t.due_date, t.return_date, t.created_at,
	       b.id, b.title, b.author, b.category, b.status,
	       u.id, u.name, u.email
	FROM transactions t
	JOIN users u ON u.id = t.borrower_id
	LEFT JOIN books b ON b.id = t.book_id
`

type joinedRow interface {
	Scan(dest ...any) error
}

func scanJoined(row joinedRow) (Transaction, error) {
	var (
		tx       Transaction
		book     BookSummary
		bookID   *string
		title    *string
		author   *string
		category *string
		status   *string
		borrower BorrowerSummary
	)
	err := row.Scan(
		&tx.ID, &tx.BookID, &tx.BorrowerID, &tx.BorrowDate, &tx.DueDate, &tx.ReturnDate, &tx.CreatedAt,
		&bookID, &title, &author, &category, &status,
		&borrower.ID, &borrower.Name, &borrower.Email,
	)
	if err != nil {
		return Transaction{}, err
	}
	if bookID != nil {
		book.ID = *bookID
		book.Title = *title
		book.Author = *author
		if category != nil {
			book.Category = *category
		}
		book.Status = *status
		tx.Book = &book
	}
	tx.Borrower = &borrower
	return tx, nil
}

func (r *PostgresStore) findByID(ctx context.Context, txID string) (Transaction, error) {
	query := selectJoined + `
	WHERE t.id = $1
	LIMIT 1
	`
	rows, err := r.db.Query(ctx, query, txID)
	if err != nil {
		return Transaction{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Transaction{}, err
		}
		return Transaction{}, ErrTransactionNotFound
	}
	return scanJoined(rows)
}
