// Package cmd implements the command-line interface for brandmon.
// It provides the root command and subcommands for running and scheduling
// crawls of the monitored shop.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/brandmon/cmd/crawl"
	"github.com/jonesrussell/brandmon/cmd/datasets"
	"github.com/jonesrussell/brandmon/cmd/schedule"
	"github.com/jonesrussell/brandmon/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the brandmon CLI.
	rootCmd = &cobra.Command{
		Use:   "brandmon",
		Short: "Brand reputation data collector",
		Long: `brandmon crawls a shop's product listings, testimonials, and embedded
review payloads and writes them as CSV tables for the reputation dashboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("brandmon version %s\n", "1.0.0")
		},
	})

	rootCmd.AddCommand(crawl.Command())
	rootCmd.AddCommand(schedule.Command())
	rootCmd.AddCommand(datasets.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over file values and defaults.
	viper.SetEnvPrefix("brandmon")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	config.SetDefaults()

	// Config file is optional: defaults plus environment cover a full run.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()

	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	if err := viper.BindPFlag("logger.development", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("crawler.secret_token", "BRANDMON_SECRET_TOKEN", "SECRET_TOKEN"); err != nil {
		return fmt.Errorf("failed to bind SECRET_TOKEN: %w", err)
	}
	if err := viper.BindEnv("crawler.base_url", "BRANDMON_BASE_URL"); err != nil {
		return fmt.Errorf("failed to bind BRANDMON_BASE_URL: %w", err)
	}
	if err := viper.BindEnv("output.dir", "BRANDMON_OUTPUT_DIR"); err != nil {
		return fmt.Errorf("failed to bind BRANDMON_OUTPUT_DIR: %w", err)
	}
	if err := viper.BindEnv("output.sqlite_path", "BRANDMON_SQLITE_PATH"); err != nil {
		return fmt.Errorf("failed to bind BRANDMON_SQLITE_PATH: %w", err)
	}
	return nil
}

// setupDevelopmentLogging switches the logger to debug output when the debug
// flag is set.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("logger.development")

	if debugFlag {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
		viper.Set("logger.enable_color", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}
