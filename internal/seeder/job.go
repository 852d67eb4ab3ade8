package seeder

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"github.com/jinzhu/inflection"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent SQL injection
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type HookStage string

const (
	PreHook  HookStage = "pre"
	PostHook HookStage = "post"
)

// Hook receives the scrubbed records of a job. Ranging over the sequence
// re-reads the seed file from the start.
type Hook func(ctx context.Context, records jsonstream.Records) error

// JobSpec describes one table to truncate and seed.
type JobSpec struct {
	Entity     string
	Table      string
	PrimaryKey string
	Filename   string
	Options    policy.Flags
	PreHook    Hook
	PostHook   Hook
}

// NewJob builds a job for entity, deriving the table name the way an ORM
// would (User -> users, OrderItem -> order_items).
func NewJob(entity string, options policy.Flags, pre, post Hook) JobSpec {
	return JobSpec{
		Entity:   entity,
		Table:    TableName(entity),
		Options:  options,
		PreHook:  pre,
		PostHook: post,
	}
}

func (j JobSpec) withDefaults() (JobSpec, error) {
	if j.Table == "" {
		j.Table = TableName(j.Entity)
	}
	if j.Table == "" {
		return j, &ConfigurationError{Table: j.Entity, Reason: "no table or entity name"}
	}
	if !validIdentifier.MatchString(j.Table) {
		return j, &ConfigurationError{Table: j.Table, Reason: "invalid table name"}
	}
	if j.Entity == "" {
		j.Entity = j.Table
	}
	if j.Filename == "" {
		j.Filename = fmt.Sprintf("%s.json", j.Table)
	}
	return j, nil
}

// TableName converts an entity name to a plural snake_case table name.
// Names that already contain an underscore or are lower case are only
// pluralized on their last word.
func TableName(entity string) string {
	entity = strings.TrimSpace(entity)
	if entity == "" {
		return ""
	}
	if idx := strings.LastIndexAny(entity, `\./`); idx >= 0 {
		entity = entity[idx+1:]
	}

	snake := toSnake(entity)
	parts := strings.Split(snake, "_")
	parts[len(parts)-1] = inflection.Plural(parts[len(parts)-1])
	return strings.Join(parts, "_")
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
