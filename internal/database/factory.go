package database

import (
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/database/mongodb"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/sqlite"
)

var (
	_ Store = (*postgres.Adapter)(nil)
	_ Store = (*mysql.Adapter)(nil)
	_ Store = (*sqlite.Adapter)(nil)
	_ Store = (*mongodb.Adapter)(nil)
)

// NewStore returns an unconnected store for provider, PostgreSQL by default.
func NewStore(provider string) Store {
	switch strings.ToLower(provider) {
	case "postgresql", "postgres":
		return postgres.New()
	case "mysql":
		return mysql.New()
	case "sqlite", "sqlite3":
		return sqlite.New()
	case "mongodb", "mongo":
		return mongodb.New()
	default:
		return postgres.New()
	}
}
