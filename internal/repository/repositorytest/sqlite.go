// Package repositorytest provides a migrated in-memory SQLite database for
// tests in other packages.
package repositorytest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Alok5code/project-task-management-api/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var seq atomic.Int64

// NewSQLiteDB returns a fresh, fully migrated database that is closed when
// the test ends.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := repository.NewSQLiteDB(dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, repository.MigrateDB(db, zap.NewNop()))
	return db
}
