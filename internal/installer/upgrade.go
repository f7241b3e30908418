package installer

import (
	"errors"
	"fmt"

	"github.com/esm-tools/esm-version-checker/internal/common/git"
	"github.com/esm-tools/esm-version-checker/internal/common/logger"
	"github.com/esm-tools/esm-version-checker/internal/common/output"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
)

var (
	// ErrUnknownTool is returned when the named tool is not tracked
	ErrUnknownTool = errors.New("not a known esm tool")
	// ErrToolsPathNotSet is returned when the esm_tools checkout is not configured
	ErrToolsPathNotSet = errors.New("esm_tools checkout path is not configured")
	// ErrToolsDirty is returned when the esm_tools worktree has local changes
	ErrToolsDirty = errors.New("esm_tools checkout is not clean")
	// ErrToolsBranch is returned when the esm_tools branch does not allow pulls
	ErrToolsBranch = errors.New("esm_tools pulls are only allowed on release or develop")
)

// Upgrader coordinates upgrades of known tools against a probed report.
type Upgrader struct {
	report      *inventory.Report
	installer   Installer
	toolsPath   string
	toolsRemote string
	gitFor      func(dir string) git.Executor
}

// UpgraderOption is a functional option for configuring Upgrader
type UpgraderOption func(*Upgrader)

// WithInstaller sets a custom installer (useful for testing)
func WithInstaller(inst Installer) UpgraderOption {
	return func(u *Upgrader) {
		u.installer = inst
	}
}

// WithToolsCheckout sets the esm_tools data checkout and pull remote
func WithToolsCheckout(path, remote string) UpgraderOption {
	return func(u *Upgrader) {
		u.toolsPath = path
		u.toolsRemote = remote
	}
}

// WithGitFactory sets a custom git executor factory (useful for testing)
func WithGitFactory(fn func(dir string) git.Executor) UpgraderOption {
	return func(u *Upgrader) {
		u.gitFor = fn
	}
}

// NewUpgrader creates an upgrader over the given report.
func NewUpgrader(report *inventory.Report, opts ...UpgraderOption) *Upgrader {
	u := &Upgrader{
		report:      report,
		installer:   NewGoInstaller(),
		toolsRemote: "origin",
		gitFor:      func(dir string) git.Executor { return git.NewRunner(dir) },
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// UpgradeTool upgrades a single known tool to the given version, or to
// the latest release when version is empty.
// Development installs are skipped with a hint instead of upgraded;
// esm_tools is pulled in its configured checkout (a version request does
// not apply there).
func (u *Upgrader) UpgradeTool(tool, version string) error {
	if !inventory.IsKnown(tool) {
		return fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	if tool == "esm_tools" {
		if version != "" {
			logger.Debug("ignoring version %s for esm_tools, pulling the checkout", version)
		}
		return u.pullTools()
	}

	if entry, ok := u.report.Lookup(tool); ok && entry.Dev {
		output.PrintWarning("%s is a development install, no upgrade performed", tool)
		if entry.DevPath != "" {
			output.PrintInfo("you may consider doing a git pull in %s", entry.DevPath)
		}
		return nil
	}

	if version == "" {
		logger.Debug("go install %s@latest", inventory.ModulePath(tool))
	} else {
		logger.Debug("go install %s@%s", inventory.ModulePath(tool), version)
	}
	return u.installer.Upgrade(tool, version)
}

// UpgradeAll upgrades every installed known tool.
// The first installer failure is returned after the remaining tools have
// been attempted.
func (u *Upgrader) UpgradeAll() error {
	var firstErr error
	for _, tool := range u.report.Installed() {
		if err := u.UpgradeTool(tool, ""); err != nil {
			logger.Error("upgrading %s: %v", tool, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// pullTools updates the esm_tools data checkout via git pull.
// The pull is refused on a dirty worktree and on branches other than
// release or develop, matching the upstream workflow for that repository.
func (u *Upgrader) pullTools() error {
	if u.toolsPath == "" {
		return ErrToolsPathNotSet
	}

	repo := u.gitFor(u.toolsPath)

	dirty, err := repo.IsDirty()
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w: commit or stash your changes in %s first", ErrToolsDirty, u.toolsPath)
	}

	branch, err := repo.ActiveBranch()
	if err != nil {
		return err
	}
	if branch != "release" && branch != "develop" {
		return fmt.Errorf("%w: currently on %s", ErrToolsBranch, branch)
	}

	if err := repo.Pull(u.toolsRemote); err != nil {
		return err
	}

	output.PrintSuccess("pulled new version of esm_tools in %s", u.toolsPath)
	return nil
}
