package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Alok5code/project-task-management-api/internal/models"
	"github.com/Alok5code/project-task-management-api/internal/repository"

	"go.uber.org/zap"
)

// PasswordHasher is implemented by crypto.PasswordHasher.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, digest string) bool
}

// Authenticator checks a username and password against the credential store.
type Authenticator struct {
	repo   repository.AuthRepository
	hasher PasswordHasher
	logger *zap.Logger

	// dummyDigest is verified for unknown usernames so that a miss costs
	// the same hash computation as a wrong password.
	dummyDigest string
}

func NewAuthenticator(ctx context.Context, repo repository.AuthRepository, hasher PasswordHasher, logger *zap.Logger) (*Authenticator, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate dummy password: %w", err)
	}

	dummyDigest, err := hasher.Hash(ctx, hex.EncodeToString(buf))
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy password: %w", err)
	}

	return &Authenticator{
		repo:        repo,
		hasher:      hasher,
		logger:      logger,
		dummyDigest: dummyDigest,
	}, nil
}

// Authenticate returns the matching user, or (nil, nil) when the username is
// unknown or the password is wrong. Store failures are returned as errors.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user == nil {
		a.hasher.Verify(ctx, password, a.dummyDigest)
		return nil, nil
	}

	if !a.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, nil
	}

	return user, nil
}
