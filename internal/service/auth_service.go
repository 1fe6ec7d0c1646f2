package service

import (
	"context"
	"fmt"
	"time"

	"elearning-payments/internal/core/domain"
	"elearning-payments/internal/core/ports"
	"elearning-payments/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(userRepo ports.UserRepository, hashSvc ports.HashService, tokenSvc ports.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
	}
}

// Register creates a new platform account. Accounts default to the
// student role; admin accounts are never self-registered.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	role := req.Role
	if role == "" {
		role = domain.RoleStudent
	}
	if role == domain.RoleAdmin {
		return nil, apperror.ErrForbidden()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	user := &domain.User{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create user: %w", err))
	}

	return user, nil
}

// Login validates credentials and returns a JWT token with the profile.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, expiresAt, err := s.tokenSvc.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}
