package mongodb

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Adapter seeds MongoDB collections. Collections have no foreign keys, so
// constraint toggling is a no-op and "_id" is always the primary key.
type Adapter struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) Connect(ctx context.Context, url string) error {
	clientOpts := options.Client().ApplyURI(url)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	a.client = client
	a.dbName = databaseName(url, clientOpts)
	a.database = client.Database(a.dbName)
	return nil
}

// databaseName takes the database from the URL path, falling back to the
// auth source and then "test".
func databaseName(url string, opts *options.ClientOptions) string {
	if rest, ok := strings.CutPrefix(url, "mongodb://"); ok {
		url = rest
	} else if rest, ok := strings.CutPrefix(url, "mongodb+srv://"); ok {
		url = rest
	}
	if idx := strings.Index(url, "/"); idx >= 0 {
		dbPart := url[idx+1:]
		if q := strings.Index(dbPart, "?"); q >= 0 {
			dbPart = dbPart[:q]
		}
		if dbPart != "" && dbPart != "admin" {
			return dbPart
		}
	}

	if opts != nil && opts.Auth != nil && opts.Auth.AuthSource != "" && opts.Auth.AuthSource != "admin" {
		return opts.Auth.AuthSource
	}
	return "test"
}

func (a *Adapter) Close() error {
	if a.client != nil {
		return a.client.Disconnect(context.Background())
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return errors.New("mongodb: not connected")
	}
	return a.client.Ping(ctx, nil)
}

func (a *Adapter) Truncate(ctx context.Context, table string) error {
	if _, err := a.database.Collection(table).DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", table, err)
	}
	return nil
}

func (a *Adapter) BulkInsert(ctx context.Context, table string, rows []jsonstream.Record) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]any, len(rows))
	for i, row := range rows {
		docs[i] = toDocument(row)
	}
	_, err := a.database.Collection(table).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (a *Adapter) SetForeignKeyConstraints(ctx context.Context, enabled bool) error {
	return nil
}

func (a *Adapter) PrimaryKey(ctx context.Context, table string) (string, error) {
	return "_id", nil
}

// Exec runs one database command, or an array of them, written as
// Extended JSON, e.g. {"createIndexes": "users", "indexes": [...]}.
func (a *Adapter) Exec(ctx context.Context, query string) error {
	commands, err := parseCommands(query)
	if err != nil {
		return err
	}
	for i, cmd := range commands {
		if err := a.database.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("failed to execute command %d: %w", i+1, err)
		}
	}
	return nil
}

func parseCommands(query string) ([]bson.D, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if strings.HasPrefix(query, "[") {
		var wrapped struct {
			Commands []bson.D `bson:"commands"`
		}
		if err := bson.UnmarshalExtJSON([]byte(`{"commands":`+query+`}`), false, &wrapped); err != nil {
			return nil, fmt.Errorf("invalid command list: %w", err)
		}
		return wrapped.Commands, nil
	}

	var cmd bson.D
	if err := bson.UnmarshalExtJSON([]byte(query), false, &cmd); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	return []bson.D{cmd}, nil
}

// toDocument orders fields by name so inserted documents are deterministic.
func toDocument(rec map[string]any) bson.D {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: toValue(rec[k])})
	}
	return doc
}

func toValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return toDocument(val)
	case []any:
		out := make(bson.A, len(val))
		for i, item := range val {
			out[i] = toValue(item)
		}
		return out
	default:
		return v
	}
}
