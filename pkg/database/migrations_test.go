//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/drdp-engine/pkg/database"
	"github.com/ekaya-inc/drdp-engine/pkg/testhelpers"
)

// createScratchDatabase creates an empty database owned by a fresh user and
// returns a connection string for that user. grantSchema controls whether the
// user may create tables in the public schema.
func createScratchDatabase(t *testing.T, name, user string, grantSchema bool) string {
	t.Helper()
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()
	password := "test_password"

	_, _ = testDB.Pool.Exec(ctx, "DROP DATABASE IF EXISTS "+name)
	_, _ = testDB.Pool.Exec(ctx, "DROP USER IF EXISTS "+user)

	_, err := testDB.Pool.Exec(ctx, "CREATE DATABASE "+name)
	require.NoError(t, err, "Failed to create scratch database")
	_, err = testDB.Pool.Exec(ctx, "CREATE USER "+user+" WITH PASSWORD '"+password+"'")
	require.NoError(t, err, "Failed to create scratch user")
	_, err = testDB.Pool.Exec(ctx, "GRANT CONNECT ON DATABASE "+name+" TO "+user)
	require.NoError(t, err)

	if grantSchema {
		superDB, err := sql.Open("pgx", testDB.ConnStrFor(name))
		require.NoError(t, err)
		_, err = superDB.Exec("GRANT ALL ON SCHEMA public TO " + user)
		superDB.Close()
		require.NoError(t, err, "Failed to grant schema privileges")
	}

	t.Cleanup(func() {
		_, _ = testDB.Pool.Exec(ctx, `
			SELECT pg_terminate_backend(pg_stat_activity.pid)
			FROM pg_stat_activity
			WHERE pg_stat_activity.datname = $1
			AND pid <> pg_backend_pid()
		`, name)
		time.Sleep(100 * time.Millisecond)
		_, _ = testDB.Pool.Exec(ctx, "DROP DATABASE IF EXISTS "+name)
		_, _ = testDB.Pool.Exec(ctx, "DROP USER IF EXISTS "+user)
	})

	return testDB.ConnStrForUser(name, user, password)
}

func Test_Migrations_ApplyAndIdempotent(t *testing.T) {
	connStr := createScratchDatabase(t, "test_migration_apply", "migrate_user", true)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	defer db.Close()

	path := testhelpers.MigrationsPath()
	logger := zap.NewNop()

	version, _, err := database.MigrationVersion(db, path, logger)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	require.NoError(t, database.RunMigrations(db, path, logger))

	version, dirty, err := database.MigrationVersion(db, path, logger)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Second run is a no-op
	require.NoError(t, database.RunMigrations(db, path, logger))

	var tables int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public'
		AND table_name IN ('domains', 'measures', 'developmental_levels', 'students', 'assessments', 'ratings', 'observations')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 7, tables)
}

func Test_Migrations_InsufficientPermissions(t *testing.T) {
	connStr := createScratchDatabase(t, "test_migration_perms", "restricted_user", false)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping(), "Restricted user should be able to connect")

	done := make(chan error, 1)
	go func() {
		done <- database.RunMigrations(db, testhelpers.MigrationsPath(), zap.NewNop())
	}()

	select {
	case err := <-done:
		require.Error(t, err, "Migrations should fail with insufficient permissions")
		assert.Contains(t, err.Error(), "permission denied")
	case <-time.After(30 * time.Second):
		t.Fatal("TIMEOUT: migrations hung instead of failing with a permission error")
	}
}

func Test_Scope_SetsAndResetsUser(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)
	ctx := context.Background()

	scope, err := engineDB.DB.WithUser(ctx, "teacher-42")
	require.NoError(t, err)

	var current string
	err = scope.Conn.QueryRow(ctx, "SELECT current_setting('app.current_user_id', true)").Scan(&current)
	require.NoError(t, err)
	assert.Equal(t, "teacher-42", current)

	conn := scope.Conn
	_, err = conn.Exec(ctx, "RESET app.current_user_id")
	require.NoError(t, err)
	err = conn.QueryRow(ctx, "SELECT COALESCE(current_setting('app.current_user_id', true), '')").Scan(&current)
	require.NoError(t, err)
	assert.Equal(t, "", current)

	scope.Close()
}

func Test_ScopeProvider_WithScope(t *testing.T) {
	engineDB := testhelpers.GetEngineDB(t)

	provider := database.NewScopeProvider(engineDB.DB)
	ctx, cleanup, err := provider.WithScope(context.Background())
	require.NoError(t, err)
	defer cleanup()

	scope, ok := database.GetScope(ctx)
	require.True(t, ok)
	require.NotNil(t, scope.Conn)

	var one int
	require.NoError(t, scope.Conn.QueryRow(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)
}
