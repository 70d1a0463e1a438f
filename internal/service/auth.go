package service

import (
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
	ErrUserSuspended   = errors.New("user is suspended")
)

const (
	userNumberAlphabet = "0123456789"
	userNumberLength   = 8
	userNumberAttempts = 3
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Signup registers a regular user with a fresh user number and an empty balance.
func (s *AuthService) Signup(ctx context.Context, form domain.AuthFormData) (domain.User, error) {
	return s.create(ctx, form, domain.RoleUser)
}

func (s *AuthService) SignupAdmin(ctx context.Context, form domain.AuthFormData) (domain.User, error) {
	return s.create(ctx, form, domain.RoleAdmin)
}

func (s *AuthService) Login(ctx context.Context, form domain.AuthFormData) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	if user.Status == domain.UserSuspended {
		return domain.User{}, ErrUserSuspended
	}

	return user, nil
}

func (s *AuthService) create(ctx context.Context, form domain.AuthFormData, role string) (domain.User, error) {
	if err := s.checkEmailExists(ctx, form.Email); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := hashPassword(form.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Email:    form.Email,
		Password: hashedPassword,
		Role:     role,
		Status:   domain.UserActive,
	}

	for attempt := 0; attempt < userNumberAttempts; attempt++ {
		user.UserNumber, err = gonanoid.Generate(userNumberAlphabet, userNumberLength)
		if err != nil {
			return domain.User{}, fmt.Errorf("gonanoid.Generate -> %w", err)
		}

		created, err := s.repo.Create(ctx, user)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrUserNumberExists) {
			return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
	}

	return domain.User{}, fmt.Errorf("no free user number after %d attempts -> %w", userNumberAttempts, repository.ErrUserNumberExists)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) checkEmailExists(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrUserEmailExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	return nil
}
