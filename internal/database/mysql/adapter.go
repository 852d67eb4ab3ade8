package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/flashseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Masterminds/squirrel"
	_ "github.com/go-sql-driver/mysql"
)

type Adapter struct {
	db   *sql.DB
	conn *sql.Conn
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

// DSN converts a mysql:// URL into the go-sql-driver format. Plain DSNs are
// returned unchanged.
func DSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")

	atIndex := strings.LastIndex(dsn, "@")
	if atIndex <= 0 {
		return dsn
	}
	credentials := dsn[:atIndex]
	remainder := dsn[atIndex+1:]

	slashIndex := strings.Index(remainder, "/")
	if slashIndex <= 0 {
		return dsn
	}
	hostPort := remainder[:slashIndex]
	dbAndParams := remainder[slashIndex+1:]

	dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=REQUIRED", "tls=skip-verify")
	dbAndParams = strings.ReplaceAll(dbAndParams, "ssl-mode=DISABLED", "tls=false")
	dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=require", "tls=skip-verify")
	dbAndParams = strings.ReplaceAll(dbAndParams, "sslmode=disable", "tls=false")

	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, hostPort, dbAndParams)
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("mysql", DSN(url))
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(3 * time.Minute)

	if err := m.Attach(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// Attach pins a connection of db for the lifetime of the adapter.
func (m *Adapter) Attach(ctx context.Context, db *sql.DB) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire MySQL connection: %w", err)
	}
	m.db = db
	m.conn = conn
	return nil
}

func (m *Adapter) Close() error {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Adapter) Ping(ctx context.Context) error {
	if m.conn == nil {
		return errors.New("mysql: not connected")
	}
	return m.conn.PingContext(ctx)
}

func (m *Adapter) Truncate(ctx context.Context, table string) error {
	if !common.IsValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	_, err := m.conn.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", quote(table)))
	return err
}

func (m *Adapter) BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := common.BuildInsert(m.qb, table, rows, quote)
	if err != nil {
		return err
	}
	if _, err := m.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (m *Adapter) SetForeignKeyConstraints(ctx context.Context, enabled bool) error {
	value := 0
	if enabled {
		value = 1
	}
	_, err := m.conn.ExecContext(ctx, fmt.Sprintf("SET FOREIGN_KEY_CHECKS = %d", value))
	return err
}

func (m *Adapter) PrimaryKey(ctx context.Context, table string) (string, error) {
	query, args, err := m.qb.Select("COLUMN_NAME").
		From("information_schema.KEY_COLUMN_USAGE").
		Where("TABLE_SCHEMA = DATABASE()").
		Where(squirrel.Eq{"TABLE_NAME": table, "CONSTRAINT_NAME": "PRIMARY"}).
		OrderBy("ORDINAL_POSITION").
		Limit(1).
		ToSql()
	if err != nil {
		return "", err
	}

	var column string
	err = m.conn.QueryRowContext(ctx, query, args...).Scan(&column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("table %s has no primary key", table)
	}
	if err != nil {
		return "", err
	}
	return column, nil
}

func (m *Adapter) Exec(ctx context.Context, query string) error {
	for i, stmt := range common.ParseSQLStatements(query) {
		if _, err := m.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}

func quote(name string) string {
	return "`" + name + "`"
}
