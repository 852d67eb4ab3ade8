package sqlite

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
	_ "github.com/mattn/go-sqlite3"
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

// Path strips the sqlite:// scheme and adds the default connection options.
func Path(url string) string {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL"
	}
	return dbPath
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("sqlite3", Path(url))
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to acquire SQLite connection: %w", err)
	}

	s.db = db
	s.conn = conn
	return nil
}

func (s *Adapter) Close() error {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	if s.conn == nil {
		return errors.New("sqlite: not connected")
	}
	return s.conn.PingContext(ctx)
}

// Truncate deletes every row and resets the AUTOINCREMENT counter when the
// table has one.
func (s *Adapter) Truncate(ctx context.Context, table string) error {
	if !common.IsValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	if _, err := s.conn.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", quote(table))); err != nil {
		return err
	}

	var hasSequence int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'").Scan(&hasSequence)
	if err != nil {
		return err
	}
	if hasSequence > 0 {
		if _, err := s.conn.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Adapter) BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := common.BuildInsert(s.qb, table, rows, quote)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (s *Adapter) SetForeignKeyConstraints(ctx context.Context, enabled bool) error {
	mode := "OFF"
	if enabled {
		mode = "ON"
	}
	_, err := s.conn.ExecContext(ctx, "PRAGMA foreign_keys = "+mode)
	return err
}

func (s *Adapter) PrimaryKey(ctx context.Context, table string) (string, error) {
	if !common.IsValidIdentifier(table) {
		return "", fmt.Errorf("invalid table name: %s", table)
	}
	var column string
	err := s.conn.QueryRowContext(ctx,
		"SELECT name FROM pragma_table_info(?) WHERE pk = 1", table).Scan(&column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("table %s has no primary key", table)
	}
	if err != nil {
		return "", err
	}
	return column, nil
}

func (s *Adapter) Exec(ctx context.Context, query string) error {
	for i, stmt := range common.ParseSQLStatements(query) {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Adapter) foreignKeysEnabled(ctx context.Context) (bool, error) {
	var on int
	if err := s.conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&on); err != nil {
		return false, err
	}
	return on == 1, nil
}

func quote(name string) string {
	return `"` + name + `"`
}
