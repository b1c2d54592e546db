package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the contract for book data storage. Delete must refuse
// to remove a book that is borrowed or still has an open transaction.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	List(ctx context.Context, q Query) ([]Book, error)
	GetByID(ctx context.Context, id string) (Book, error)
	Update(ctx context.Context, id string, f UpdateFields) (Book, error)
	Delete(ctx context.Context, id string) error
}
