// Package installer upgrades esm-tools components through the Go
// toolchain. It delegates entirely to `go install`; installer output and
// exit codes pass through unmodified.
package installer

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/esm-tools/esm-version-checker/internal/inventory"
)

// Installer invokes the package installer for a single tool.
type Installer interface {
	// Upgrade installs a tool at the given version; an empty version
	// means the latest release
	Upgrade(tool, version string) error
}

// GoInstaller runs `go install <module>@latest` as a subprocess with
// passthrough stdio.
type GoInstaller struct {
	goBinary string
	stdout   io.Writer
	stderr   io.Writer
}

// GoInstallerOption is a functional option for configuring GoInstaller
type GoInstallerOption func(*GoInstaller)

// WithGoBinary sets the go toolchain binary to invoke
func WithGoBinary(path string) GoInstallerOption {
	return func(g *GoInstaller) {
		g.goBinary = path
	}
}

// WithOutput redirects installer stdout and stderr (useful for testing)
func WithOutput(stdout, stderr io.Writer) GoInstallerOption {
	return func(g *GoInstaller) {
		g.stdout = stdout
		g.stderr = stderr
	}
}

// NewGoInstaller creates an installer that invokes the go toolchain.
func NewGoInstaller(opts ...GoInstallerOption) *GoInstaller {
	g := &GoInstaller{
		goBinary: "go",
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Upgrade installs a tool at the given version, or the latest release
// when version is empty.
func (g *GoInstaller) Upgrade(tool, version string) error {
	if version == "" {
		version = "latest"
	}
	target := inventory.ModulePath(tool) + "@" + version

	cmd := exec.Command(g.goBinary, "install", target)
	cmd.Stdout = g.stdout
	cmd.Stderr = g.stderr

	return cmd.Run()
}

// MockInstaller implements Installer for testing.
type MockInstaller struct {
	UpgradeFunc func(tool, version string) error
	// Upgraded records every tool passed to Upgrade, in order
	Upgraded []string
	// Versions records the requested version for each Upgrade call
	Versions []string
}

// Upgrade installs a tool at the given version
func (m *MockInstaller) Upgrade(tool, version string) error {
	m.Upgraded = append(m.Upgraded, tool)
	m.Versions = append(m.Versions, version)
	if m.UpgradeFunc != nil {
		return m.UpgradeFunc(tool, version)
	}
	return nil
}

// ExitCode extracts the process exit code from an Upgrade error.
// nil maps to 0, installer failures keep their own code, anything else
// maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
