// Package integration runs the PostgreSQL repositories against a real
// database. It uses MEMORYCARE_TEST_DATABASE_URL when set and otherwise starts
// a throwaway container; without either every test is skipped.
package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/domain/identity"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/db"
)

var (
	globalPool *pgxpool.Pool
	skipReason string
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	pool, cleanup, err := setupDatabase(ctx)
	if err != nil {
		skipReason = err.Error()
		fmt.Fprintf(os.Stderr, "integration tests skipped: %v\n", err)
		os.Exit(m.Run())
	}

	globalPool = pool
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func setupDatabase(ctx context.Context) (*pgxpool.Pool, func(), error) {
	connStr := os.Getenv("MEMORYCARE_TEST_DATABASE_URL")
	stop := func() {}
	if connStr == "" {
		var err error
		connStr, stop, err = startPostgresContainer(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{URL: connStr, MaxConns: 5, MinConns: 1})
	if err != nil {
		stop()
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if _, err := db.NewMigrator(pool, db.Migrations()).Up(ctx); err != nil {
		pool.Close()
		stop()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	return pool, func() {
		pool.Close()
		stop()
	}, nil
}

// requireDB skips t when no database could be started.
func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if globalPool == nil {
		t.Skipf("no database: %s", skipReason)
	}
	return globalPool
}

// createTestUser inserts an account with a unique username so tests can share
// one database.
func createTestUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, role string) *identity.User {
	t.Helper()
	name := "user_" + uuid.NewString()[:8]
	u := &identity.User{
		Username:  name,
		Password:  "not-a-real-hash",
		Email:     name + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}
	if err := identity.NewUserRepoPG(pool).Create(ctx, u); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func createTestPatient(t *testing.T, ctx context.Context, pool *pgxpool.Pool) *identity.User {
	t.Helper()
	return createTestUser(t, ctx, pool, auth.RolePatient)
}

func ptrStr(s string) *string { return &s }
