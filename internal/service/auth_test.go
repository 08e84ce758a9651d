package service_test

import (
	"context"
	"testing"
	"time"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/security"
	"sarpras-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testSecret, time.Hour)

	activeUser := func(t *testing.T) *domain.User {
		return &domain.User{
			ID:           "u-1",
			Username:     "budi",
			PasswordHash: hashOf(t, "rahasia123"),
			Role:         domain.RoleStaff,
			IsActive:     true,
		}
	}

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens, stubActivity{})
		userRepo.On("GetByUsername", ctx, "budi").Return(activeUser(t), nil).Once()

		user, token, err := svc.Login(ctx, "budi", "rahasia123")
		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, domain.RoleStaff, claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens, stubActivity{})
		userRepo.On("GetByUsername", ctx, "budi").Return(activeUser(t), nil).Once()

		_, _, err := svc.Login(ctx, "budi", "salah")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user reports the same error as a bad password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens, stubActivity{})
		userRepo.On("GetByUsername", ctx, "ghost").Return(nil, domain.ErrNotFound).Once()

		_, _, err := svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens, stubActivity{})
		u := activeUser(t)
		u.IsActive = false
		userRepo.On("GetByUsername", ctx, "budi").Return(u, nil).Once()

		_, _, err := svc.Login(ctx, "budi", "rahasia123")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	admin := domain.Actor{ID: "u-admin", Role: domain.RoleAdmin}

	t.Run("stores a bcrypt hash, never the password", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := service.NewAuthService(userRepo, tokens, stubActivity{})

		userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.PasswordHash != "rahasia123" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("rahasia123")) == nil &&
				u.Role == domain.RoleRequester && u.IsActive
		})).Return(nil).Once()

		_, err := svc.Register(ctx, admin, "siti", "rahasia123", "Siti", "siti@test.sch.id", domain.RoleRequester)
		require.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("only admins can register users", func(t *testing.T) {
		svc := service.NewAuthService(nil, tokens, stubActivity{})
		_, err := svc.Register(ctx, staff, "siti", "rahasia123", "Siti", "", domain.RoleRequester)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("short passwords are rejected", func(t *testing.T) {
		svc := service.NewAuthService(nil, tokens, stubActivity{})
		_, err := svc.Register(ctx, admin, "siti", "1234567", "Siti", "", domain.RoleRequester)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
