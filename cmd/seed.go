package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Lumos-Labs-HQ/flashseed/internal/console"
	"github.com/Lumos-Labs-HQ/flashseed/internal/database"
	"github.com/Lumos-Labs-HQ/flashseed/internal/logger"
	"github.com/Lumos-Labs-HQ/flashseed/internal/manifest"
	"github.com/Lumos-Labs-HQ/flashseed/internal/policy"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flashseed/internal/storage"
	"github.com/Lumos-Labs-HQ/flashseed/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the seed jobs",
	Long: `Truncate and import every job of the manifest, in order. The first
failure stops the run; tables after it are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log, closeLog, err := logger.New(verbosity, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer closeLog()

		m, err := manifest.Load(cfg.JobsFile)
		if err != nil {
			return err
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx, cfg.Database.Provider, dbURL)
		if err != nil {
			return err
		}
		defer store.Close()

		specs, err := m.Specs(ctx, store, store)
		if err != nil {
			return err
		}

		engine := seeder.New(store, storage.NewDisk(cfg.StorageFolder), console.NewReporter(os.Stdout), log, engineOptions(cfg))
		for _, spec := range specs {
			if err := engine.Register(spec); err != nil {
				return err
			}
		}

		log.Infow("seeding", "jobs", len(specs), "environment", cfg.Env(), "provider", cfg.Database.Provider)

		deferred, _ := cmd.Flags().GetBool("defer")
		force, _ := cmd.Flags().GetBool("force")
		if !deferred && !confirmDestructive(engine, cfg.Env(), force) {
			color.Yellow("Seeding cancelled")
			return nil
		}

		result, err := engine.Run(ctx, deferred)
		if err != nil {
			return describeFailure(err)
		}
		if result.Deferred {
			color.Yellow("Seeding deferred, %d jobs queued", len(specs))
		}
		return nil
	},
}

func init() {
	addRunFlags(seedCmd.Flags())
	seedCmd.Flags().Bool("defer", false, "Register the jobs but do not run them")
}

// openStore connects to the database and checks it answers before any job
// is touched.
func openStore(ctx context.Context, provider, url string) (database.Store, error) {
	store := database.NewStore(provider)
	if err := store.Connect(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}
	return store, nil
}

// confirmDestructive asks before truncating tables in production.
func confirmDestructive(engine *seeder.Engine, env policy.Environment, force bool) bool {
	if env != policy.Production {
		return true
	}
	var tables []string
	for _, p := range engine.Plan() {
		if p.Truncate {
			tables = append(tables, p.Table)
		}
	}
	if len(tables) == 0 {
		return true
	}
	color.Red("⚠️  The following production tables will be truncated: %s", strings.Join(tables, ", "))
	return utils.NewInputUtils().AskConfirmation("Continue?", force)
}

// describeFailure turns an engine error into the message shown on exit.
func describeFailure(err error) error {
	var (
		notFound *seeder.SourceNotFoundError
		decode   *seeder.DecodeError
		invalid  *seeder.ConfigurationError
		hook     *seeder.HookError
		store    *seeder.StorageError
	)

	switch {
	case errors.As(err, &notFound):
		return fmt.Errorf("missing seed file %s for table %s: %w", notFound.Filename, notFound.Table, err)
	case errors.As(err, &decode):
		return fmt.Errorf("malformed seed file at record %d: %w", decode.Index, err)
	case errors.As(err, &invalid):
		return fmt.Errorf("job %s is misconfigured: %w", invalid.Table, err)
	case errors.As(err, &hook):
		return fmt.Errorf("%s hook of %s failed: %w", hook.Stage, hook.Table, hook.Err)
	case errors.As(err, &store):
		return fmt.Errorf("database error: %w", err)
	default:
		return err
	}
}
