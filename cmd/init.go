package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lumos-Labs-HQ/flashseed/internal/config"
	"github.com/Lumos-Labs-HQ/flashseed/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new flashseed project",
	Long:  `Write a default flashseed.config.json, a sample jobs manifest and seed file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		for _, name := range []string{"sqlite", "postgresql", "mysql", "mongodb"} {
			if set, _ := cmd.Flags().GetBool(name); set {
				dbType = template.ValidateDatabaseType(name)
				flagCount++
			}
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, --mysql or --mongodb)")
		}

		return initializeProject(".", dbType)
	},
}

func init() {
	initCmd.Flags().Bool("sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().Bool("postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().Bool("mysql", false, "Initialize project for MySQL database")
	initCmd.Flags().Bool("mongodb", false, "Initialize project for MongoDB")
}

// initializeProject writes the project files under dir. Existing files are
// kept as they are.
func initializeProject(dir string, dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	cfg := &config.Config{StorageFolder: filepath.Join(dir, template.StorageFolder)}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	files := []struct {
		path    string
		content string
	}{
		{"flashseed.config.json", tmpl.GetConfig()},
		{"db/seed.jobs.yaml", tmpl.GetJobsManifest()},
		{"db/seed_content/users.json", tmpl.GetSampleData()},
	}

	var created, skipped []string
	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if _, err := os.Stat(path); err == nil {
			skipped = append(skipped, f.path)
			continue
		}
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}

	if err := handleEnvFile(filepath.Join(dir, ".env"), tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.Green("✅ Initialized flashseed project with %s database support", dbType)
	fmt.Println()
	for _, path := range created {
		fmt.Printf("   created %s\n", path)
	}
	for _, path := range skipped {
		fmt.Printf("   kept    %s (already exists)\n", path)
	}

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   flashseed plan    # Check which jobs would run\n")
	fmt.Printf("   flashseed seed    # Seed the database\n")

	return nil
}

func handleEnvFile(envPath, defaultEnvContent string) error {
	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}

	existingStr += "\n# Added by flashseed\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
