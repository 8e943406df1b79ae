package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/sqlmigrator"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/gojira-holdings/validator-web/pkg/pgxdb"
	"github.com/gojira-holdings/validator-web/web/portfolio"
	"github.com/gojira-holdings/validator-web/web/store/pgxstore"
)

// Migration constants
const (
	migrationsTableName = "schema_migrations"
	schemaHashPrefix    = "schema_only_"
	seededHashPrefix    = "seeded_catalogue_"
)

// Migration-related errors
var (
	ErrMigrationExecution = errors.New("migration execution failed")
	ErrSeedOperation      = errors.New("seed operation failed")
)

// SchemaMigrator applies only database schema migrations
// Used for production and tests that need schema-only setup
type SchemaMigrator struct {
	migrationsDir string
}

// NewSchemaMigrator creates a migrator that applies schema migrations only
func NewSchemaMigrator(migrationsDir string) *SchemaMigrator {
	return &SchemaMigrator{
		migrationsDir: migrationsDir,
	}
}

func (m *SchemaMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}

	return schemaHashPrefix + baseHash, nil
}

func (m *SchemaMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	return applyMigrations(db, m.migrationsDir)
}

// SeededMigrator applies schema migrations + installs the default portfolio
// catalogue. Used for web API tests that need realistic data to test against.
type SeededMigrator struct {
	migrationsDir string
}

// NewSeededMigrator creates a migrator that applies schema + seeds the catalogue
func NewSeededMigrator(migrationsDir string) *SeededMigrator {
	return &SeededMigrator{
		migrationsDir: migrationsDir,
	}
}

func (m *SeededMigrator) Hash() (string, error) {
	baseHash, err := migrationsHash(m.migrationsDir)
	if err != nil {
		return "", err
	}

	return seededHashPrefix + baseHash, nil
}

func (m *SeededMigrator) Migrate(ctx context.Context, db *sql.DB, conf pgtestdb.Config) error {
	if err := applyMigrations(db, m.migrationsDir); err != nil {
		return err
	}

	return m.seedCatalogue(ctx, conf.URL())
}

// seedCatalogue installs the default portfolio items into the template database
func (m *SeededMigrator) seedCatalogue(ctx context.Context, dbURL string) error {
	slog.InfoContext(ctx, "Seeding database with the default portfolio catalogue")

	pool, err := pgxdb.NewConnection(ctx, dbURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, storeCloser := pgxstore.New(pool)
	defer storeCloser()

	if err := portfolio.EnsureSeeded(ctx, store); err != nil {
		return fmt.Errorf("%w: %w", ErrSeedOperation, err)
	}

	return nil
}

// ApplyMigrations applies database migrations using sql-migrate with the provided pgx pool
func ApplyMigrations(pool *pgxpool.Pool, migrationsDir string) error {
	// Create sql.DB from the pgx pool for sql-migrate
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	return applyMigrations(db, migrationsDir)
}

// SeedPortfolio installs the default catalogue when the table is empty
func SeedPortfolio(ctx context.Context, pool *pgxpool.Pool) error {
	store, _ := pgxstore.New(pool)

	if err := portfolio.EnsureSeeded(ctx, store); err != nil {
		return fmt.Errorf("%w: %w", ErrSeedOperation, err)
	}

	return nil
}

func migrationsHash(migrationsDir string) (string, error) {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}
	sqlMigrator := sqlmigrator.New(source, migrationSet)

	hash, err := sqlMigrator.Hash()
	if err != nil {
		return "", fmt.Errorf("failed to calculate migration hash for %s: %w", migrationsDir, err)
	}

	return hash, nil
}

// applyMigrations applies database migrations using sql-migrate
func applyMigrations(db *sql.DB, migrationsDir string) error {
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	migrationSet := &migrate.MigrationSet{TableName: migrationsTableName}

	_, err := migrationSet.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationExecution, err)
	}
	return nil
}
