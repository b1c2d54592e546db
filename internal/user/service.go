package user

import (
	"context"
	"strings"
)

// Service provides user-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a member account. Emails are stored lowercased and must
// be unique.
func (s *Service) Register(ctx context.Context, name, email, hashedPassword string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return User{}, ErrAlreadyExists
	}

	newUser := &User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     RoleMember,
	}

	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, err
	}

	return *newUser, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
