package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
	INSERT INTO books (id, title, author, category, status)
	VALUES (gen_random_uuid(), $1, $2, $3, 'available')
	RETURNING id, status, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, b.Title, b.Author, b.Category).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Book, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Q != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR author ILIKE $%d OR category ILIKE $%d)", argn, argn+1, argn+2))
		pattern := "%" + q.Q + "%"
		args = append(args, pattern, pattern, pattern)
		argn += 3
	}
	if q.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category = $%d", argn))
		args = append(args, q.Category)
		argn++
	}
	if q.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argn))
		args = append(args, q.Status)
		argn++
	}

	query := fmt.Sprintf(`
	SELECT id, title, author, category, status, created_at, updated_at
	FROM books
	WHERE %s
	ORDER BY created_at DESC`, strings.Join(clauses, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	const query = `
	SELECT id, title, author, category, status, created_at, updated_at
	FROM books
	WHERE id = $1
	LIMIT 1
	`
	var b Book
	err := r.db.QueryRow(ctx, query, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Update(ctx context.Context, id string, f UpdateFields) (Book, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}
	argn := 2

	if f.Title != "" {
		sets = append(sets, fmt.Sprintf("title = $%d", argn))
		args = append(args, f.Title)
		argn++
	}
	if f.Author != "" {
		sets = append(sets, fmt.Sprintf("author = $%d", argn))
		args = append(args, f.Author)
		argn++
	}
	if f.Category != nil {
		sets = append(sets, fmt.Sprintf("category = $%d", argn))
		args = append(args, *f.Category)
		argn++
	}

	query := fmt.Sprintf(`
	UPDATE books
	SET %s
	WHERE id = $1
	RETURNING id, title, author, category, status, created_at, updated_at`,
		strings.Join(sets, ", "))

	var b Book
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

// Delete refuses removal while the book is borrowed. The DELETE itself
// re-checks both the status flag and the ledger, so a borrow racing the
// delete cannot slip a loan onto a vanished book.
func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM books WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if status == StatusBorrowed {
		return ErrBorrowed
	}

	const query = `
	DELETE FROM books
	WHERE id = $1 AND status = 'available'
	  AND NOT EXISTS (
		SELECT 1 FROM transactions t
		WHERE t.book_id = $1 AND t.return_date IS NULL
	  )
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Borrowed (or drifted) between the check and the delete.
		return ErrBorrowed
	}
	return nil
}
