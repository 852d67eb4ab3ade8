package cmd

import (
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// addRunFlags registers the flags shared by commands that read the manifest.
func addRunFlags(flags *pflag.FlagSet) {
	flags.StringP("env", "e", "", "Environment to evaluate job options against (overrides APP_ENV)")
	flags.StringP("jobs", "j", "", "Jobs manifest (default from config: db/seed.jobs.yaml)")
	flags.Bool("quick", false, "Import only the first num_quick_records chunks of each file")
	flags.Bool("full", false, "Import every record, ignoring quick seeding")
	flags.Int("chunk-size", 0, "Records per insert statement")
}

// loadConfig reads the configuration and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.Environment, _ = flags.GetString("env")
		if !viper.IsSet("quick_seeding") {
			quick := cfg.Env() == policy.Development
			cfg.QuickSeeding = &quick
		}
	}
	if flags.Changed("jobs") {
		cfg.JobsFile, _ = flags.GetString("jobs")
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize, _ = flags.GetInt("chunk-size")
	}

	quick, _ := flags.GetBool("quick")
	full, _ := flags.GetBool("full")
	if quick && full {
		return nil, errors.New("please specify only one of --quick or --full")
	}
	if quick || full {
		cfg.QuickSeeding = &quick
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func engineOptions(cfg *config.Config) seeder.Options {
	return seeder.Options{
		Environment:             cfg.Env(),
		ChunkSize:               cfg.ChunkSize,
		QuickSeed:               cfg.QuickSeedEnabled(),
		NumQuickRecords:         cfg.NumQuickRecords,
		DisableAllFKConstraints: cfg.DisableAllFK(),
	}
}
