package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hungtabe/ezevent-api/internal/domain"
	"github.com/hungtabe/ezevent-api/internal/repository"
)

type mockAuthUserRepo struct {
	createFn      func(ctx context.Context, user domain.User) (domain.User, error)
	findByEmailFn func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockAuthUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.createFn(ctx, user)
}

func (m *mockAuthUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.findByEmailFn(ctx, email)
}

func TestAuthService_Signup(t *testing.T) {
	t.Run("hashes the password and defaults the role", func(t *testing.T) {
		var stored domain.User
		repo := &mockAuthUserRepo{
			createFn: func(_ context.Context, user domain.User) (domain.User, error) {
				stored = user
				user.ID = 1
				return user, nil
			},
		}
		svc := NewAuthService(repo)

		created, err := svc.Signup(context.Background(), domain.User{
			Email:    "jamie@example.com",
			Password: "test1234",
			Name:     "Jamie",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), created.ID)
		assert.Equal(t, domain.RoleStudent, stored.Role)
		assert.NotEqual(t, "test1234", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("test1234")))
	})

	t.Run("keeps an explicit role", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			createFn: func(_ context.Context, user domain.User) (domain.User, error) {
				assert.Equal(t, domain.RoleOrganizer, user.Role)
				return user, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Signup(context.Background(), domain.User{
			Email:    "org@example.com",
			Password: "test1234",
			Role:     domain.RoleOrganizer,
		})

		require.NoError(t, err)
	})

	t.Run("duplicate email surfaces as conflict", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			createFn: func(_ context.Context, _ domain.User) (domain.User, error) {
				return domain.User{}, repository.ErrUserEmailExists
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Signup(context.Background(), domain.User{
			Email:    "jamie@example.com",
			Password: "test1234",
		})

		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("test1234"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := domain.User{
		ID:       1,
		Email:    "jamie@example.com",
		Password: string(hash),
		Role:     domain.RoleStudent,
	}

	t.Run("returns the user on matching credentials", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			findByEmailFn: func(_ context.Context, email string) (domain.User, error) {
				assert.Equal(t, "jamie@example.com", email)
				return stored, nil
			},
		}
		svc := NewAuthService(repo)

		user, err := svc.Login(context.Background(), "jamie@example.com", "test1234")

		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			findByEmailFn: func(_ context.Context, _ string) (domain.User, error) {
				return stored, nil
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "jamie@example.com", "nope1234")

		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email surfaces as not found", func(t *testing.T) {
		repo := &mockAuthUserRepo{
			findByEmailFn: func(_ context.Context, _ string) (domain.User, error) {
				return domain.User{}, repository.ErrUserNotFound
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "ghost@example.com", "test1234")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
