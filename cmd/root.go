package cmd

import (
	"errors"
	"fmt"
	"os"

	"dbsmoke/internal/config"
	"dbsmoke/internal/databricks"
	"dbsmoke/internal/formatting"
	"dbsmoke/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (a check failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates required configuration or credentials are missing.
	ExitCodeConfig = 2
)

// Persistent flags shared by every subcommand.
var (
	// flagOutput selects the output format: console, json, yaml, or table.
	flagOutput string
	// flagProfile overrides the Databricks CLI profile.
	flagProfile string
	// flagEnvFile points at a dotenv file to load before resolving config.
	flagEnvFile string
	// flagDebug enables verbose diagnostic logging on stderr.
	flagDebug bool
	// flagQuiet suppresses per-step progress output.
	flagQuiet bool
)

// rootCmd represents the base command for the dbsmoke application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dbsmoke",
	Short: "Smoke-test a Databricks workspace's managed MLflow surface",
	Long: `dbsmoke runs live smoke checks against a Databricks workspace:
MLflow experiment tracking, model registration, trace logging, cluster
connectivity, and agent logging. Each check talks to the real APIs with
your configured credentials and reports exactly which operations work.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// setup initializes logging and validates the shared flags before any
// subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if flagDebug {
		level = logging.LevelDebug
	} else if flagQuiet {
		level = logging.LevelWarn
	}
	logging.InitForCLI(level, os.Stderr)

	if _, ok := formatting.ParseOutputFormat(flagOutput); !ok {
		return fmt.Errorf("unknown output format %q (valid: console, json, yaml, table)", flagOutput)
	}
	return nil
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles
// subcommands and flags. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "dbsmoke version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var missing *config.MissingError
	if errors.As(err, &missing) {
		return ExitCodeConfig
	}
	if errors.Is(err, databricks.ErrNoCredentials) {
		return ExitCodeConfig
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "console",
		"Output format: console, json, yaml, or table")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "",
		"Databricks CLI profile to use (overrides DATABRICKS_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "",
		"Dotenv file to load before resolving configuration")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable verbose diagnostic logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false,
		"Suppress per-step progress output")

	rootCmd.AddCommand(newVersionCmd())
}
