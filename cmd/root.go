package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	verbosity int
	Version   = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════════╗",
		"║                                                              ║",
		"║        F L A S H S E E D                                     ║",
		"║                                                              ║",
		"║        Stream JSON seed files into your database             ║",
		"║        PostgreSQL • MySQL • SQLite • MongoDB                 ║",
		"║                                                              ║",
		"╚══════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "flashseed",
	Short: "Seed database tables from large JSON files",
	Long: `
flashseed truncates tables and bulk loads records streamed from JSON files.
Jobs are listed in a YAML manifest and run in order; each job carries options
deciding whether its table is truncated, imported, scrubbed of its primary key
or left alone in production.

Database Support:
- PostgreSQL
- MySQL
- SQLite
- MongoDB`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("flashseed version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./flashseed.config.json)")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Skip confirmations")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log output (-v info, -vv debug)")
	rootCmd.Flags().Bool("version", false, "Show CLI version")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(initCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("flashseed.config")
	}

	viper.AutomaticEnv()
	viper.ReadInConfig()
}
