package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"github.com/spf13/viper"
)

type Config struct {
	Version                 string   `json:"version" mapstructure:"version"`
	StorageFolder           string   `json:"storage_folder" mapstructure:"storage_folder"`
	JobsFile                string   `json:"jobs_file" mapstructure:"jobs_file"`
	Environment             string   `json:"environment" mapstructure:"environment"`
	QuickSeeding            *bool    `json:"quick_seeding,omitempty" mapstructure:"quick_seeding"`
	NumQuickRecords         int      `json:"num_quick_records" mapstructure:"num_quick_records"`
	DisableAllFKConstraints *bool    `json:"disable_all_fk_constraints,omitempty" mapstructure:"disable_all_fk_constraints"`
	ChunkSize               int      `json:"chunk_size" mapstructure:"chunk_size"`
	LogFile                 string   `json:"log_file,omitempty" mapstructure:"log_file"`
	Database                Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

// envBindings lists the environment variables accepted for each key, in
// priority order. The SEEDFROMJSON_* names are accepted as legacy aliases.
var envBindings = map[string][]string{
	"storage_folder":             {"STORAGE_FOLDER_NAME", "SEEDFROMJSON_DISK_NAME"},
	"quick_seeding":              {"ENABLE_QUICK_SEEDING", "SEEDFROMJSON_QUICK_SEEDING"},
	"num_quick_records":          {"NUM_QUICK_RECORDS", "SEEDFROMJSON_NUM_QUICK_RECORDS"},
	"disable_all_fk_constraints": {"DISABLE_ALL_FK_CONSTRAINTS", "SEEDFROMJSON_DISABLE_ALL_FK_CONSTRAINTS"},
	"chunk_size":                 {"SEEDFROMJSON_CHUNK_SIZE"},
	"environment":                {"APP_ENV"},
}

// BindEnv registers the environment variable names of every key on v.
func BindEnv(v *viper.Viper) error {
	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.StorageFolder == "" {
		cfg.StorageFolder = "db/seed_content"
	}
	if cfg.JobsFile == "" {
		cfg.JobsFile = "db/seed.jobs.yaml"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.QuickSeeding == nil {
		quick := cfg.Env() == policy.Development
		cfg.QuickSeeding = &quick
	}
	if !v.IsSet("num_quick_records") {
		cfg.NumQuickRecords = 100
	}
	if cfg.DisableAllFKConstraints == nil {
		disable := true
		cfg.DisableAllFKConstraints = &disable
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 1
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	return &cfg, nil
}

func (c *Config) Env() policy.Environment {
	return policy.ParseEnvironment(c.Environment)
}

func (c *Config) QuickSeedEnabled() bool {
	return c.QuickSeeding != nil && *c.QuickSeeding
}

func (c *Config) DisableAllFK() bool {
	return c.DisableAllFKConstraints != nil && *c.DisableAllFKConstraints
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3", "mongodb", "mongo"}
	supported := false
	for _, provider := range supportedProviders {
		if strings.EqualFold(c.Database.Provider, provider) {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.StorageFolder == "" {
		return fmt.Errorf("storage_folder cannot be empty")
	}
	if c.NumQuickRecords < 0 {
		return fmt.Errorf("num_quick_records cannot be negative")
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1")
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	if c.StorageFolder == "" || c.StorageFolder == "." {
		return nil
	}
	if err := os.MkdirAll(c.StorageFolder, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.StorageFolder, err)
	}
	return nil
}
