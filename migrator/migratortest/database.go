package migratortest

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for pgtestdb
	"github.com/peterldowns/pgtestdb"
	"github.com/stretchr/testify/require"

	"github.com/gojira-holdings/validator-web/migrator"
)

// CreateTestDatabase creates a test database with schema migrations applied.
// Returns the connection pool ready for use.
func CreateTestDatabase(t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	return createTestDatabaseWithMigrator(t, migrator.NewSchemaMigrator(migrationsDir))
}

// CreateSeededTestDatabase creates a test database with migrations applied and
// the default portfolio catalogue installed.
// Returns the connection pool ready for use.
func CreateSeededTestDatabase(t *testing.T, migrationsDir string) *pgxpool.Pool {
	t.Helper()

	return createTestDatabaseWithMigrator(t, migrator.NewSeededMigrator(migrationsDir))
}

// createTestDatabaseWithMigrator creates a test database using the provided migrator
func createTestDatabaseWithMigrator(t *testing.T, migratorInstance pgtestdb.Migrator) *pgxpool.Pool {
	t.Helper()

	config := createTestDatabaseConfig()

	// Create test database and get its config
	dbConfig := pgtestdb.Custom(t, config, migratorInstance)

	// Connect to the test database using test context for proper lifecycle management
	pool, err := pgxpool.New(t.Context(), dbConfig.URL())
	require.NoError(t, err)

	t.Logf("testdbconf: %s", dbConfig.URL())

	return pool
}

// createTestDatabaseConfig creates the standard pgtestdb configuration for these tests
func createTestDatabaseConfig() pgtestdb.Config {
	return pgtestdb.Config{
		DriverName: "pgx",
		User:       "gojira",
		Password:   "gojira",
		Host:       "localhost",
		Port:       "5432",
		Options:    "sslmode=disable",
	}
}
