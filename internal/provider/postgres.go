package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pyqhub/mcp-server/internal/config"
)

// PostgresProvider reads files from a table of (name text primary key, content jsonb).
type PostgresProvider struct {
	db    *pgxpool.Pool
	query string
}

// NewPostgres connects to the database and creates a table-backed Provider.
func NewPostgres(ctx context.Context, cfg config.Postgres) (*PostgresProvider, error) {
	// Parse pool configuration for PostgreSQL connection.
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	return newPostgresProvider(pool, cfg.Table), nil
}

func newPostgresProvider(pool *pgxpool.Pool, table string) *PostgresProvider {
	return &PostgresProvider{
		db:    pool,
		query: selectContentQuery(table),
	}
}

func selectContentQuery(table string) string {
	return "SELECT content::text FROM " + pgx.Identifier{table}.Sanitize() + " WHERE name = $1"
}

// ReadFile returns the content column of the row with the given name.
func (p *PostgresProvider) ReadFile(ctx context.Context, name string) ([]byte, error) {
	var content string
	err := p.db.QueryRow(ctx, p.query, name).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return []byte(content), nil
}

// Close closes the connection pool.
func (p *PostgresProvider) Close() {
	p.db.Close()
}
