// Package testing holds helpers shared by integration tests.
package testing

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/pgcsv/internal/testinfra"
)

// TestConnEnv names the variable that points integration tests at an existing server.
const TestConnEnv = "PGCSV_TEST_CONN"

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test server connection string.
// Priority: PGCSV_TEST_CONN env var > auto-started testcontainer > skip test.
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

// RequireFreshDatabase creates an empty database on the test server and returns
// its connection string. The database is dropped when the test completes.
func RequireFreshDatabase(t *testing.T) string {
	t.Helper()

	serverConn := RequireDatabase(t)
	dbName := "pgcsv_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	ctx := context.Background()

	conn, err := pgx.Connect(ctx, serverConn)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}
	t.Logf("✓ Created test database %s", dbName)

	t.Cleanup(func() { dropDatabase(t, serverConn, dbName) })
	return withDatabase(serverConn, dbName)
}

func dropDatabase(t *testing.T, serverConn, dbName string) {
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, serverConn)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()+" WITH (FORCE)"); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}

// withDatabase points a URI or key=value connection string at dbName.
func withDatabase(connString, dbName string) string {
	if strings.Contains(connString, "://") {
		if u, err := url.Parse(connString); err == nil {
			u.Path = "/" + dbName
			return u.String()
		}
	}
	return fmt.Sprintf("%s dbname=%s", connString, dbName)
}
