// Package testing holds helpers shared by integration tests.
package testing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fraudlab/txload/internal/db"
	"github.com/fraudlab/txload/internal/testinfra"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TestConnEnv names the variable that points integration tests at an existing server.
const TestConnEnv = "TXLOAD_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartSimplePostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: TXLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// Connect opens a connection that is closed when the test completes.
func Connect(t *testing.T, connString string) *pgx.Conn {
	t.Helper()

	cfg, err := db.ParseConnectionString(connString)
	if err != nil {
		t.Fatalf("Failed to parse connection string: %v", err)
	}

	conn, err := db.NewStandardConnector(cfg, nil).Connect(context.Background())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { conn.Close(context.Background()) })
	return conn
}

// CreateTestSchema creates a uniquely named schema and drops it with
// everything in it when the test completes. Tests write their tables into
// it so they never collide with each other or with real data.
func CreateTestSchema(t *testing.T, conn *pgx.Conn) string {
	t.Helper()

	ctx := context.Background()
	schema := "txload_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", pgx.Identifier{schema}.Sanitize())); err != nil {
		t.Fatalf("Failed to create schema %s: %v", schema, err)
	}

	t.Cleanup(func() {
		_, err := conn.Exec(context.Background(), fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pgx.Identifier{schema}.Sanitize()))
		if err != nil {
			t.Logf("Warning: Failed to drop schema %s: %v", schema, err)
		}
	})
	return schema
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
