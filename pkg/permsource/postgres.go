package permsource

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/permkit/pkg/permissions"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresConfig holds the configuration for a PostgreSQL-backed document
// source.
type PostgresConfig struct {
	ConnectionString string        `env:"PERMISSIONS_PG_CONN_URL,required"`                      // ConnectionString to the database.
	Table            string        `env:"PERMISSIONS_PG_TABLE" envDefault:"permission_configs"`  // Table holding configuration documents.
	RetryAttempts    int           `env:"PERMISSIONS_PG_RETRY_ATTEMPTS" envDefault:"3"`          // RetryAttempts is the number of connection attempts.
	RetryInterval    time.Duration `env:"PERMISSIONS_PG_RETRY_INTERVAL" envDefault:"5s"`         // RetryInterval is the base wait between attempts.
	MigrationsTable  string        `env:"PERMISSIONS_PG_MIGRATIONS_TABLE" envDefault:"permission_schema_migrations"` // MigrationsTable stores the applied migration version.
}

// ConnectPostgres establishes a PostgreSQL connection pool with linear
// backoff between attempts, verifying each attempt with a ping.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}

	for i := range cfg.RetryAttempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return pool, nil
	}

	return nil, ErrConnectionFailed
}

// MigratePostgres applies the embedded schema migrations for the
// configuration table. Goose only speaks database/sql, so the pgx pool is
// bridged through stdlib for the duration of the migration.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, cfg PostgresConfig) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		_ = db.Close()
	}(db)

	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(cfg.MigrationsTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Postgres loads the most recently updated JSON configuration document from
// a table.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates a PostgreSQL-backed configuration source.
func NewPostgres(pool *pgxpool.Pool, cfg PostgresConfig) *Postgres {
	return &Postgres{pool: pool, table: cfg.Table}
}

// Load implements permissions.Source.
func (s *Postgres) Load(ctx context.Context) (permissions.Config, error) {
	query := fmt.Sprintf(
		"SELECT document FROM %s ORDER BY updated_at DESC LIMIT 1",
		pgx.Identifier{s.table}.Sanitize(),
	)

	var data []byte
	if err := s.pool.QueryRow(ctx, query).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return permissions.Config{}, errors.Join(ErrDocumentNotFound, err)
		}
		return permissions.Config{}, err
	}

	return ParseJSON(data)
}
