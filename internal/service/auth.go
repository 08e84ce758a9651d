package service

import (
	"context"
	"errors"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/repository"
	"sarpras-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type authService struct {
	userRepo    repository.UserRepository
	tokens      security.TokenManager
	activitySvc ActivityService
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager, activitySvc ActivityService) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		activitySvc: activitySvc,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		// Same error for unknown user and bad password.
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &user.ID,
		Action:      "LOGIN",
		Module:      "AUTH",
		Description: "User logged in",
	})
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) Register(ctx context.Context, actor domain.Actor, username, password, fullName, email string, role domain.Role) (*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if username == "" {
		return nil, &domain.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &domain.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}
	switch role {
	case domain.RoleAdmin, domain.RoleStaff, domain.RoleRequester:
	default:
		return nil, &domain.ValidationError{Field: "role", Reason: "unknown role"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Email:        email,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activitySvc.Record(ctx, domain.ActivityLogEntry{
		ActorID:     &actor.ID,
		Action:      "REGISTER_USER",
		Module:      "AUTH",
		Description: "User " + username + " registered with role " + string(role),
	})
	return user, nil
}
