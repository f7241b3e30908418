package main

import (
	"fmt"
	"strings"

	"github.com/esm-tools/esm-version-checker/internal/common/config"
	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/common/output"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
	"github.com/esm-tools/esm-version-checker/internal/upstream"
	"github.com/spf13/cobra"
)

var (
	// checkRemote queries GitHub for the latest released versions
	checkRemote bool
	// checkForce ignores the upstream cache
	checkForce bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report installed esm-tools versions",
	Long: `Print one line per known esm-tools component with its installed version.
Components that are not installed report "unknown version!".

Examples:
  esm_versions check            Report installed versions
  esm_versions check --remote   Also query GitHub for available updates
  esm_versions check --remote --force  Ignore the upstream cache`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRemote, "remote", false, "Also check GitHub for newer releases")
	checkCmd.Flags().BoolVar(&checkForce, "force", false, "Ignore cache when checking remotely")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	report := newScanner(cfg).Collect()

	output.Println(output.Header, inventory.ReportHeader)
	fmt.Println(strings.Repeat("-", len(inventory.ReportHeader)))
	for _, entry := range report.Entries {
		printEntry(entry)
	}

	if checkRemote {
		runRemoteCheck(cfg, report)
	}
}

// printEntry prints one report line with the version colored by status.
func printEntry(entry inventory.Entry) {
	c := output.VersionColor(entry.Version != inventory.UnknownVersion, entry.Dev)
	line := fmt.Sprintf("%s : %s", output.FormatTool(entry.Tool), output.Sprint(c, entry.Version))
	if entry.Dev && entry.Branch != "" {
		line += output.Sprintf(output.Dim, " (development install, on branch: %s, describe=%s)",
			entry.Branch, entry.Describe)
	}
	fmt.Println(line)
}

// runRemoteCheck queries GitHub for each installed tool and reports
// available updates.
func runRemoteCheck(cfg *config.Config, report *inventory.Report) {
	client := upstream.NewClient()
	client.Token = cfg.GitHub.Token

	checker, err := upstream.NewChecker(upstream.WithClient(client))
	if err != nil {
		logger.Error("initializing upstream checker: %v", err)
		return
	}

	fmt.Println()
	updates := 0
	for _, result := range checker.CheckAll(report, checkForce) {
		switch {
		case result.Err != nil:
			logger.Warn("could not check %s: %v", result.Tool, result.Err)
		case result.HasUpdate:
			updates++
			output.Printf(output.Update, "↑ %s: %s -> %s", result.Tool, result.Installed, result.Latest)
			if result.FromCache {
				output.Printf(output.Dim, " (cached)")
			}
			fmt.Println()
		default:
			logger.Debug("%s is up to date (latest: %s)", result.Tool, result.Latest)
		}
	}

	if updates == 0 {
		output.PrintSuccess("all installed tools are up to date")
	} else {
		output.PrintInfo("run 'esm_versions upgrade' to install updates")
	}
}
