package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/repository"
	"github.com/Alok5code/project-task-management-api/internal/token"

	"go.uber.org/zap"
)

// AccessGuard resolves a bearer token to the user it was issued for.
type AccessGuard struct {
	codec  TokenCodec
	repo   repository.AuthRepository
	logger *zap.Logger
}

func NewAccessGuard(codec TokenCodec, repo repository.AuthRepository, logger *zap.Logger) *AccessGuard {
	return &AccessGuard{codec: codec, repo: repo, logger: logger}
}

// Authorize returns ErrNotAuthenticated for an expired, invalid or orphaned
// token. The exact reason is only logged.
func (g *AccessGuard) Authorize(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := g.codec.Decode(tokenString)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, token.ErrExpiredToken) {
			reason = "expired"
		}
		g.logger.Debug("Rejected access token", zap.String("reason", reason), zap.Error(err))
		return nil, ErrNotAuthenticated
	}

	user, err := g.repo.GetUserByID(ctx, userID)
	if err != nil {
		g.logger.Error("Failed to look up token subject", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	if user == nil {
		g.logger.Debug("Rejected access token", zap.String("reason", "unknown subject"), zap.Int64("user_id", userID))
		return nil, ErrNotAuthenticated
	}

	return user, nil
}
