package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPostgresMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, DriverPostgres), mock
}

func TestAuthRepository_Postgres_UniqueViolation(t *testing.T) {
	t.Parallel()
	db, mock := newPostgresMock(t)
	repo := NewAuthRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`)).
		WithArgs("alice", "hash", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.CreateUser(context.Background(), &models.User{Username: "alice", PasswordHash: "hash", CreatedAt: time.Now()})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAuthRepository_Postgres_OtherErrorsAreWrapped(t *testing.T) {
	t.Parallel()
	db, mock := newPostgresMock(t)
	repo := NewAuthRepository(db, zap.NewNop())

	pgErr := &pq.Error{Code: "23502", Message: "null value in column"}
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(pgErr)

	err := repo.CreateUser(context.Background(), &models.User{Username: "alice", PasswordHash: "hash", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.ErrorIs(t, err, pgErr)
}

func TestAuthRepository_Postgres_CreateReturnsID(t *testing.T) {
	t.Parallel()
	db, mock := newPostgresMock(t)
	repo := NewAuthRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("alice", "hash", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	user := &models.User{Username: "alice", PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	assert.Equal(t, int64(7), user.ID)
}

func TestAuthRepository_Postgres_GetUserByID(t *testing.T) {
	t.Parallel()
	db, mock := newPostgresMock(t)
	repo := NewAuthRepository(db, zap.NewNop())

	query := regexp.QuoteMeta(`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`)
	now := time.Now()
	mock.ExpectQuery(query).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow(int64(7), "alice", "hash", now))
	mock.ExpectQuery(query).WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}))

	user, err := repo.GetUserByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)

	user, err = repo.GetUserByID(context.Background(), 8)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestTaskRepository_Postgres_UpdateBuildsPartialSet(t *testing.T) {
	t.Parallel()
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db, zap.NewNop())

	title := "Write report"
	status := models.StatusDone
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tasks SET updated_at = $1, title = $2, status = $3 WHERE id = $4 AND owner_id = $5`)).
		WithArgs(now, "Write report", "done", int64(3), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	task, err := repo.UpdateTask(context.Background(), 1, 3, models.TaskUpdate{Title: &title, Status: &status}, now)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isUniqueViolation(nil))
}

func TestWithSQLitePragmas(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "file:x.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withSQLitePragmas("file:x.db"))
	assert.Equal(t, "file:x?mode=memory&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withSQLitePragmas("file:x?mode=memory"))
}
