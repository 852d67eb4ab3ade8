package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
)

// Store is a seeding target. Session state such as disabled foreign key
// checks must hold for every call, so implementations pin one connection.
type Store interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	Truncate(ctx context.Context, table string) error
	BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error
	SetForeignKeyConstraints(ctx context.Context, enabled bool) error

	PrimaryKey(ctx context.Context, table string) (string, error)
	Exec(ctx context.Context, query string) error
}
