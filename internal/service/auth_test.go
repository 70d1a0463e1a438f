package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/repository"
)

type memUserRepo struct {
	byEmail map[string]domain.User
	taken   []string
	nextID  uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if len(r.taken) > 0 {
		r.taken = r.taken[1:]
		return domain.User{}, repository.ErrUserNumberExists
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	r.nextID++
	user.ID = r.nextID
	r.byEmail[user.Email] = user
	return user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

var userNumberPattern = regexp.MustCompile(`^[0-9]{8}$`)

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active user with number", func(t *testing.T) {
		svc := NewAuthService(newMemUserRepo())

		user, err := svc.Signup(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)

		assert.Equal(t, domain.RoleUser, user.Role)
		assert.Equal(t, domain.UserActive, user.Status)
		assert.Regexp(t, userNumberPattern, user.UserNumber)
		assert.NotEqual(t, "secret123", user.Password)
		assert.Zero(t, user.Balance)
		assert.Zero(t, user.RafflePoints)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := NewAuthService(newMemUserRepo())

		_, err := svc.Signup(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "other1234"})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})

	t.Run("retries taken user numbers", func(t *testing.T) {
		repo := newMemUserRepo()
		repo.taken = []string{"a", "b"}
		svc := NewAuthService(repo)

		user, err := svc.Signup(ctx, domain.AuthFormData{Email: "ben@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Regexp(t, userNumberPattern, user.UserNumber)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		repo := newMemUserRepo()
		repo.taken = []string{"a", "b", "c"}
		svc := NewAuthService(repo)

		_, err := svc.Signup(ctx, domain.AuthFormData{Email: "ben@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, repository.ErrUserNumberExists)
	})

	t.Run("admin role", func(t *testing.T) {
		svc := NewAuthService(newMemUserRepo())

		user, err := svc.SignupAdmin(ctx, domain.AuthFormData{Email: "root@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.True(t, user.IsAdmin())
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newMemUserRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "nope12345"})
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, domain.AuthFormData{Email: "zoe@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("suspended user", func(t *testing.T) {
		u := repo.byEmail["ana@example.com"]
		u.Status = domain.UserSuspended
		repo.byEmail["ana@example.com"] = u

		_, err := svc.Login(ctx, domain.AuthFormData{Email: "ana@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrUserSuspended)
	})
}
