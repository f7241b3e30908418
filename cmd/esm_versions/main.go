package main

import (
	"fmt"
	"os"

	"github.com/esm-tools/esm-version-checker/internal/common/config"
	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/common/output"
	"github.com/esm-tools/esm-version-checker/internal/common/version"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:     "esm_versions",
	Short:   "Check versions of esm-tools software",
	Long:    `Report installed versions of the esm-tools components and trigger upgrades through the Go toolchain.`,
	Version: version.Short(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate(version.Info() + "\n")
}

// loadConfig reads the configuration, falling back to defaults when the
// config file is unreadable. Reporting must not fail on config trouble.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("loading config: %v (using defaults)", err)
		return &config.Config{Tools: config.ToolsConfig{Remote: "origin"}}
	}
	return cfg
}

// newScanner builds the inventory scanner from the configuration.
func newScanner(cfg *config.Config) *inventory.Scanner {
	var opts []inventory.ScannerOption

	if binDir, err := cfg.GetBinDir(); err == nil && binDir != "" {
		opts = append(opts, inventory.WithBinDir(binDir))
	}
	if toolsPath, err := cfg.GetToolsPath(); err == nil {
		opts = append(opts, inventory.WithToolsCheckout(toolsPath))
	}
	opts = append(opts, inventory.WithDevPaths(func(tool string) string {
		path, err := cfg.GetDevPath(tool)
		if err != nil {
			return ""
		}
		return path
	}))

	return inventory.NewScanner(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
