// Package users serves the public user directory.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context, q domain.UserQuery) (*domain.UserPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)

	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return &domain.UserPage{
		Users:      users,
		TotalUsers: total,
		TotalPages: domain.TotalPages(total, q.Limit),
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.UserProfile, error) {
	user, err := s.users.GetProfile(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NewNotFound(fmt.Sprintf("User ID %d not found", id))
	}
	if err != nil {
		return nil, domain.NewInternal(err)
	}
	return user, nil
}
