package database

import (
	"testing"

	"github.com/Lumos-Labs-HQ/flashseed/internal/database/mongodb"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/mysql"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/postgres"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database/sqlite"
)

func TestNewStore(t *testing.T) {
	tests := []struct {
		provider string
		check    func(Store) bool
	}{
		{"postgresql", func(s Store) bool { _, ok := s.(*postgres.Adapter); return ok }},
		{"Postgres", func(s Store) bool { _, ok := s.(*postgres.Adapter); return ok }},
		{"mysql", func(s Store) bool { _, ok := s.(*mysql.Adapter); return ok }},
		{"sqlite3", func(s Store) bool { _, ok := s.(*sqlite.Adapter); return ok }},
		{"mongo", func(s Store) bool { _, ok := s.(*mongodb.Adapter); return ok }},
		{"", func(s Store) bool { _, ok := s.(*postgres.Adapter); return ok }},
	}

	for _, tt := range tests {
		if got := NewStore(tt.provider); !tt.check(got) {
			t.Errorf("NewStore(%q) returned %T", tt.provider, got)
		}
	}
}
