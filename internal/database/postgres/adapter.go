package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type Adapter struct {
	pool *pgxpool.Pool
	conn *pgxpool.Conn
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Simple protocol lets untyped literals land in json/jsonb columns.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	config.MaxConns = 1
	config.MinConns = 0
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return fmt.Errorf("failed to acquire connection: %w", err)
	}

	p.pool = pool
	p.conn = conn
	return nil
}

func (p *Adapter) Close() error {
	if p.conn != nil {
		p.conn.Release()
		p.conn = nil
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	if p.conn == nil {
		return errors.New("postgres: not connected")
	}
	return p.conn.Ping(ctx)
}

func (p *Adapter) Truncate(ctx context.Context, table string) error {
	query, err := truncateSQL(table)
	if err != nil {
		return err
	}
	_, err = p.conn.Exec(ctx, query)
	return err
}

func (p *Adapter) BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := common.BuildInsert(p.qb, table, rows, pq.QuoteIdentifier)
	if err != nil {
		return err
	}
	if _, err := p.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// SetForeignKeyConstraints toggles trigger based constraint enforcement for
// the session. Changing session_replication_role requires superuser rights.
func (p *Adapter) SetForeignKeyConstraints(ctx context.Context, enabled bool) error {
	_, err := p.conn.Exec(ctx, foreignKeySQL(enabled))
	return err
}

func (p *Adapter) PrimaryKey(ctx context.Context, table string) (string, error) {
	if !common.IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid table name: %s", table)
	}

	var column string
	err := p.conn.QueryRow(ctx, `
		SELECT a.attname
		FROM pg_index i
		JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		WHERE i.indrelid = to_regclass($1) AND i.indisprimary
		LIMIT 1
	`, table).Scan(&column)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("table %s has no primary key", table)
	}
	if err != nil {
		return "", err
	}
	return column, nil
}

func (p *Adapter) Exec(ctx context.Context, query string) error {
	for i, stmt := range common.ParseSQLStatements(query) {
		if _, err := p.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}

func truncateSQL(table string) (string, error) {
	if !common.IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid table name: %s", table)
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pq.QuoteIdentifier(table)), nil
}

func foreignKeySQL(enabled bool) string {
	if enabled {
		return "SET session_replication_role = DEFAULT"
	}
	return "SET session_replication_role = replica"
}
