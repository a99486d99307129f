package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/crypto"
	"github.com/Alok5code/project-task-management-api/internal/repository"
	"github.com/Alok5code/project-task-management-api/internal/repository/repositorytest"
	"github.com/Alok5code/project-task-management-api/internal/service"
	"github.com/Alok5code/project-task-management-api/internal/token"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	db    *sqlx.DB
	repo  repository.AuthRepository
	auth  service.AuthService
	guard *service.AccessGuard
	codec *token.Codec
	tasks service.TaskService
}

func newHasher(t *testing.T) *crypto.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(crypto.HasherConfig{
		MemoryKiB:     8 * 1024,
		Iterations:    1,
		Parallelism:   1,
		SaltLength:    16,
		KeyLength:     32,
		MaxConcurrent: 4,
	})
	require.NoError(t, err)
	return h
}

func newCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{
		Secret:    crypto.Secret("test-secret-key-with-enough-bytes!"),
		Algorithm: "HS256",
		TTL:       30 * time.Minute,
	})
	require.NoError(t, err)
	return codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	db := repositorytest.NewSQLiteDB(t)
	repo := repository.NewAuthRepository(db, logger)
	hasher := newHasher(t)
	codec := newCodec(t)

	authenticator, err := service.NewAuthenticator(context.Background(), repo, hasher, logger)
	require.NoError(t, err)

	return &testEnv{
		db:    db,
		repo:  repo,
		auth:  service.NewAuthService(repo, authenticator, hasher, codec, logger),
		guard: service.NewAccessGuard(codec, repo, logger),
		codec: codec,
		tasks: service.NewTaskService(repository.NewTaskRepository(db, logger), logger),
	}
}

func (e *testEnv) register(t *testing.T, username string) (int64, token.Token) {
	t.Helper()
	tok, err := e.auth.Register(context.Background(), username, "Goodpass1!")
	require.NoError(t, err)
	id, err := e.codec.Decode(tok.AccessToken)
	require.NoError(t, err)
	return id, tok
}
