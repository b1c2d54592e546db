package book

import (
	"context"
)

// Service provides catalog business logic. Availability transitions belong
// to the lending service; this one only creates, lists, edits and (when the
// ledger allows) deletes catalog entries.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, title, author, category string) (Book, error) {
	b := &Book{
		Title:    title,
		Author:   author,
		Category: category,
		Status:   StatusAvailable,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, err
	}
	return *b, nil
}

func (s *Service) List(ctx context.Context, q Query) ([]Book, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id string) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, f UpdateFields) (Book, error) {
	return s.repo.Update(ctx, id, f)
}

// Delete removes a catalog entry unless it is out on loan; ErrBorrowed is
// the lending-domain gate, not a generic CRUD failure.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
