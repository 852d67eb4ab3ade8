// Package manifest loads the list of seed jobs from a YAML file.
package manifest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/jsonstream"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"gopkg.in/yaml.v3"
)

type Manifest struct {
	Jobs []Job `yaml:"jobs"`
}

type Job struct {
	Entity     string   `yaml:"entity,omitempty"`
	Table      string   `yaml:"table,omitempty"`
	PrimaryKey string   `yaml:"primary_key,omitempty"`
	File       string   `yaml:"file,omitempty"`
	Options    []string `yaml:"options,flow"`
	PreSQL     string   `yaml:"pre_sql,omitempty"`
	PostSQL    string   `yaml:"post_sql,omitempty"`
}

// Execer runs a raw statement; hooks declared as SQL use it.
type Execer interface {
	Exec(ctx context.Context, query string) error
}

// KeyResolver looks up the primary key column of a table.
type KeyResolver interface {
	PrimaryKey(ctx context.Context, table string) (string, error)
}

func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file: %w", err)
	}
	for i, job := range m.Jobs {
		if job.Entity == "" && job.Table == "" {
			return nil, fmt.Errorf("job %d: entity or table is required", i+1)
		}
		if _, err := policy.ParseFlags(job.Options); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, job.name(), err)
		}
	}
	return &m, nil
}

func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func (j Job) name() string {
	if j.Table != "" {
		return j.Table
	}
	return j.Entity
}

// Specs converts the manifest into engine jobs. SQL hooks run through exec;
// a job that scrubs its primary key without naming it asks keys for the
// column. Either collaborator may be nil when the manifest does not need it.
func (m *Manifest) Specs(ctx context.Context, exec Execer, keys KeyResolver) ([]seeder.JobSpec, error) {
	specs := make([]seeder.JobSpec, 0, len(m.Jobs))
	for _, job := range m.Jobs {
		flags, err := policy.ParseFlags(job.Options)
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", job.name(), err)
		}

		spec := seeder.JobSpec{
			Entity:     job.Entity,
			Table:      job.Table,
			PrimaryKey: job.PrimaryKey,
			Filename:   job.File,
			Options:    flags,
		}
		if spec.Table == "" {
			spec.Table = seeder.TableName(job.Entity)
		}

		if spec.PrimaryKey == "" && flags.Has(policy.SkipPrimaryKey) && keys != nil {
			pk, err := keys.PrimaryKey(ctx, spec.Table)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve primary key of %s: %w", spec.Table, err)
			}
			spec.PrimaryKey = pk
		}

		if job.PreSQL != "" {
			if exec == nil {
				return nil, fmt.Errorf("job %s: pre_sql needs a database connection", job.name())
			}
			spec.PreHook = SQLHook(exec, job.PreSQL)
		}
		if job.PostSQL != "" {
			if exec == nil {
				return nil, fmt.Errorf("job %s: post_sql needs a database connection", job.name())
			}
			spec.PostHook = SQLHook(exec, job.PostSQL)
		}

		specs = append(specs, spec)
	}
	return specs, nil
}

// SQLHook returns a hook that executes statement, ignoring the records.
func SQLHook(exec Execer, statement string) seeder.Hook {
	statement = strings.TrimSpace(statement)
	return func(ctx context.Context, _ jsonstream.Records) error {
		return exec.Exec(ctx, statement)
	}
}
