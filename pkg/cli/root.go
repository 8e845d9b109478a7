// Package cli implements the mockbox command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockbox/pkg/config"
	"github.com/getmockd/mockbox/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	rootDir    string
	jsonOutput bool
	verbose    bool
	logFormat  string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockbox",
	Short: "mockbox runs frontend projects against generated mock backends",
	Long: `mockbox scans a JavaScript or TypeScript project for API call sites,
synthesizes realistic mock responses for every endpoint it finds, and runs
the project in an isolated sandbox where those calls hit a generated mock
server instead of real backends.

Configuration can be provided via flags or a mockbox.yaml in the project root.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format (text or json)")
}

// projectRoot resolves the --root flag to an absolute path.
func projectRoot() (string, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}
	return abs, nil
}

// newLogger builds the CLI logger honoring --verbose, --log-format, and the
// MOCKBOX_LOG_LEVEL environment variable. --verbose wins over the env var.
func newLogger() *slog.Logger {
	level := logging.ParseLevel(os.Getenv("MOCKBOX_LOG_LEVEL"))
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:  level,
		Format: logging.ParseFormat(logFormat),
	})
}

// loadConfig reads mockbox.yaml from the project root, tolerating absence.
func loadConfig(root string) (*config.File, error) {
	return config.LoadFromRoot(root)
}

// printResult prints v as JSON when --json is set, otherwise runs human.
func printResult(v any, human func()) {
	if jsonOutput {
		data, err := json.MarshalIndent(v, "", "  ")
		if err == nil {
			fmt.Println(string(data))
		}
		return
	}
	human()
}
