package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/internal/manifest"
	"github.com/Lumos-Labs-HQ/flashseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flashseed/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what a seed run would do",
	Long: `Evaluate the options of every job against the configured environment
and print which phases would run. The database is not contacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		m, err := manifest.Load(cfg.JobsFile)
		if err != nil {
			return err
		}

		return printPlan(os.Stdout, cfg, m)
	},
}

func init() {
	addRunFlags(planCmd.Flags())
}

func printPlan(w io.Writer, cfg *config.Config, m *manifest.Manifest) error {
	specs, err := m.Specs(context.Background(), dryRun{}, nil)
	if err != nil {
		return err
	}

	engine := seeder.New(nil, nil, nil, nil, engineOptions(cfg))
	for _, spec := range specs {
		if err := engine.Register(spec); err != nil {
			return err
		}
	}

	disk := storage.NewDisk(cfg.StorageFolder)
	yes := color.New(color.FgGreen).SprintFunc()
	no := color.New(color.FgYellow).SprintFunc()
	missing := color.New(color.FgRed, color.Bold).SprintFunc()

	mark := func(b bool) string {
		if b {
			return yes("yes")
		}
		return no("skip")
	}

	fmt.Fprintf(w, "Environment: %s\n", cfg.Env())
	fmt.Fprintf(w, "Storage:     %s\n\n", disk.Root())

	for i, p := range engine.Plan() {
		fmt.Fprintf(w, "%d. %s\n", i+1, p.Table)
		fmt.Fprintf(w, "   truncate: %s\n", mark(p.Truncate))
		fmt.Fprintf(w, "   seed:     %s\n", mark(p.Seed))
		if !p.Seed {
			continue
		}

		source := p.Filename
		if !disk.Exists(p.Filename) {
			source += " " + missing("(missing)")
		}
		fmt.Fprintf(w, "   file:     %s\n", source)

		limit := "all records"
		if p.ChunkLimit >= 0 {
			limit = fmt.Sprintf("first %d chunks of %d records", p.ChunkLimit, cfg.ChunkSize)
		}
		fmt.Fprintf(w, "   import:   %s\n", limit)
		if p.DisableFK {
			fmt.Fprintf(w, "   foreign keys disabled\n")
		}
	}
	return nil
}

// dryRun stands in for the database when only the job options matter.
type dryRun struct{}

func (dryRun) Exec(context.Context, string) error { return nil }
