package main

import (
	"errors"
	"os"
	"os/exec"

	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/common/output"
	"github.com/esm-tools/esm-version-checker/internal/installer"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [tool]",
	Short: "Upgrade esm-tools components",
	Long: `Upgrade one or all installed esm-tools components via 'go install'.

With no argument every installed known tool is upgraded. A specific
version can be requested as <tool>=vX.Y.Z or <tool>==vX.Y.Z. Development
installs are skipped; esm_tools (the data repository) is updated by a
git pull in its configured checkout.

Examples:
  esm_versions upgrade                      Upgrade all installed tools
  esm_versions upgrade esm_master           Upgrade only esm_master
  esm_versions upgrade esm_master==v6.1.0   Install esm_master v6.1.0`,
	Args: cobra.MaximumNArgs(1),
	Run:  runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	tool, version := "all", ""
	if len(args) > 0 {
		tool, version = inventory.SplitSpec(args[0])
		tool = inventory.CanonicalName(tool)
	}

	scanner := newScanner(cfg)
	report := scanner.Collect()

	opts := []installer.UpgraderOption{}
	if toolsPath, err := cfg.GetToolsPath(); err == nil {
		opts = append(opts, installer.WithToolsCheckout(toolsPath, cfg.Tools.Remote))
	}
	upgrader := installer.NewUpgrader(report, opts...)

	var err error
	if tool == "all" {
		err = upgrader.UpgradeAll()
	} else {
		err = upgrader.UpgradeTool(tool, version)
	}

	if err != nil {
		logger.Error("%v", err)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && tool != "all" {
			// Same hints the installer cannot give: the usual causes are a
			// bad version or a tag that does not exist upstream
			output.PrintInfo("valid versions are listed at https://github.com/esm-tools/%s/releases", tool)
			output.PrintInfo("valid branches are listed at https://github.com/esm-tools/%s/branches", tool)
		}
		os.Exit(installer.ExitCode(err))
	}

	if tool == "all" {
		output.PrintSuccess("upgraded all installed esm-tools components")
	} else {
		output.PrintSuccess("upgraded %s", tool)
	}
}
