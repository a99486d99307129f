package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/repository"
	"github.com/Alok5code/project-task-management-api/internal/token"

	"go.uber.org/zap"
)

// TokenCodec is implemented by token.Codec.
type TokenCodec interface {
	Issue(subjectID int64) (token.Token, error)
	Decode(tokenString string) (int64, error)
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (token.Token, error)
	Login(ctx context.Context, username, password string) (token.Token, error)
}

type authService struct {
	repo          repository.AuthRepository
	authenticator *Authenticator
	hasher        PasswordHasher
	codec         TokenCodec
	logger        *zap.Logger
	now           func() time.Time
}

func NewAuthService(
	repo repository.AuthRepository,
	authenticator *Authenticator,
	hasher PasswordHasher,
	codec TokenCodec,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:          repo,
		authenticator: authenticator,
		hasher:        hasher,
		codec:         codec,
		logger:        logger,
		now:           time.Now,
	}
}

// Register creates an account and returns a token for it.
func (s *authService) Register(ctx context.Context, username, password string) (token.Token, error) {
	if err := (credentials{Username: username, Password: password}).Validate(); err != nil {
		return token.Token{}, asValidationError(err)
	}

	passwordHash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return token.Token{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return token.Token{}, ErrUsernameTaken
		}
		return token.Token{}, fmt.Errorf("failed to create user: %w", err)
	}

	tok, err := s.codec.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))
		return token.Token{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User registered successfully.", zap.Int64("user_id", user.ID))
	return tok, nil
}

// Login returns a token for valid credentials and ErrInvalidCredentials otherwise.
func (s *authService) Login(ctx context.Context, username, password string) (token.Token, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Error("Failed to authenticate user", zap.Error(err))
		return token.Token{}, err
	}
	if user == nil {
		s.logger.Info("Rejected login attempt.")
		return token.Token{}, ErrInvalidCredentials
	}

	tok, err := s.codec.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Int64("user_id", user.ID), zap.Error(err))
		return token.Token{}, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.Int64("user_id", user.ID))
	return tok, nil
}
