package service

import (
	"context"
	"fmt"

	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context, status domain.UserStatus) ([]domain.User, error)
	UpdateStatus(ctx context.Context, id uint, status domain.UserStatus) (domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, status domain.UserStatus) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

func (s *UserService) SetStatus(ctx context.Context, id uint, status domain.UserStatus) (domain.User, error) {
	user, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return user, nil
}
