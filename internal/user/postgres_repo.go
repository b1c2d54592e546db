package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	const query = `
	INSERT INTO users (id, name, email, password, role)
	VALUES (gen_random_uuid(), $1, $2, $3, COALESCE(NULLIF($4, ''), 'member'))
	RETURNING id, role, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, u.Name, u.Email, u.Password, u.Role).
		Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
	SELECT id, name, email, password, role, created_at, updated_at
	FROM users
	WHERE email = $1
	LIMIT 1
	`
	var u User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `
	SELECT id, name, email, password, role, created_at, updated_at
	FROM users
	WHERE id = $1
	LIMIT 1
	`
	var u User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	const query = `
	SELECT id, name, email, password, role, created_at, updated_at
	FROM users
	ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
