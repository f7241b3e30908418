package inventory

import (
	"debug/buildinfo"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"

	"github.com/esm-tools/esm-version-checker/internal/common/git"
	"github.com/esm-tools/esm-version-checker/internal/common/logger"
)

// Scanner locates tool binaries and probes their embedded build info.
// The zero value is not usable; construct with NewScanner.
type Scanner struct {
	// binDir is an explicit directory to search first (config override)
	binDir string
	// toolsPath is the esm_tools data checkout, probed via git describe
	toolsPath string
	// devPathFor returns a configured development checkout for a tool
	devPathFor func(tool string) string
	// lookPath resolves a binary name on PATH
	lookPath func(file string) (string, error)
	// readBuildInfo reads module build info from a binary
	readBuildInfo func(path string) (*debug.BuildInfo, error)
	// gitFor builds a git executor for a directory
	gitFor func(dir string) git.Executor
}

// ScannerOption is a functional option for configuring Scanner
type ScannerOption func(*Scanner)

// WithBinDir sets an explicit directory searched before the defaults
func WithBinDir(dir string) ScannerOption {
	return func(s *Scanner) {
		s.binDir = dir
	}
}

// WithToolsCheckout sets the esm_tools data checkout path
func WithToolsCheckout(path string) ScannerOption {
	return func(s *Scanner) {
		s.toolsPath = path
	}
}

// WithDevPaths sets the lookup for per-tool development checkouts
func WithDevPaths(fn func(tool string) string) ScannerOption {
	return func(s *Scanner) {
		s.devPathFor = fn
	}
}

// WithLookPath sets a custom PATH resolver (useful for testing)
func WithLookPath(fn func(file string) (string, error)) ScannerOption {
	return func(s *Scanner) {
		s.lookPath = fn
	}
}

// WithBuildInfoReader sets a custom build info reader (useful for testing)
func WithBuildInfoReader(fn func(path string) (*debug.BuildInfo, error)) ScannerOption {
	return func(s *Scanner) {
		s.readBuildInfo = fn
	}
}

// WithGitFactory sets a custom git executor factory (useful for testing)
func WithGitFactory(fn func(dir string) git.Executor) ScannerOption {
	return func(s *Scanner) {
		s.gitFor = fn
	}
}

// NewScanner creates a scanner with the default binary discovery chain.
func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{
		devPathFor:    func(string) string { return "" },
		lookPath:      exec.LookPath,
		readBuildInfo: buildinfo.ReadFile,
		gitFor:        func(dir string) git.Executor { return git.NewRunner(dir) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locate finds the installed binary for a tool.
// Search order: explicit bin dir, GOBIN, GOPATH/bin, PATH.
func (s *Scanner) Locate(tool string) (string, bool) {
	name := BinaryName(tool)

	var dirs []string
	if s.binDir != "" {
		dirs = append(dirs, s.binDir)
	}
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		dirs = append(dirs, gobin)
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		dirs = append(dirs, filepath.Join(gopath, "bin"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "go", "bin"))
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	if path, err := s.lookPath(name); err == nil {
		return path, true
	}

	return "", false
}

// ProbeTool builds the report entry for a single tool.
// Absence is a reported value, never an error.
func (s *Scanner) ProbeTool(tool string) Entry {
	entry := Entry{
		Tool:    tool,
		Module:  ModulePath(tool),
		Version: UnknownVersion,
	}

	path, found := s.Locate(tool)
	if !found {
		// esm_tools ships as a data checkout, not a binary
		if tool == "esm_tools" && s.toolsPath != "" {
			s.probeCheckout(&entry, s.toolsPath)
		}
		return entry
	}

	entry.Installed = true
	entry.BinPath = path

	info, err := s.readBuildInfo(path)
	if err != nil {
		logger.Debug("no build info in %s: %v", path, err)
		return entry
	}

	if v := info.Main.Version; v != "" {
		entry.Version = v
	}
	entry.Dev = isDevBuild(info)

	if entry.Dev {
		if dir := s.devPathFor(tool); dir != "" {
			s.annotateDev(&entry, dir)
		}
	}

	return entry
}

// probeCheckout reports a tool tracked as a plain git checkout.
func (s *Scanner) probeCheckout(entry *Entry, dir string) {
	repo := s.gitFor(dir)

	describe, err := repo.Describe()
	if err != nil {
		logger.Debug("describe failed in %s: %v", dir, err)
		return
	}

	entry.Installed = true
	entry.Dev = true
	entry.Version = describe
	entry.DevPath = dir
	entry.Describe = describe
	if branch, err := repo.ActiveBranch(); err == nil {
		entry.Branch = branch
	}
}

// annotateDev adds branch and describe details for a development install.
func (s *Scanner) annotateDev(entry *Entry, dir string) {
	repo := s.gitFor(dir)
	entry.DevPath = dir

	if branch, err := repo.ActiveBranch(); err == nil {
		entry.Branch = branch
	}
	if describe, err := repo.Describe(); err == nil {
		entry.Describe = describe
	} else {
		entry.Describe = "Error"
	}
}

// Collect probes every known tool and returns the full report.
// Every known tool has exactly one entry, in KnownTools order.
func (s *Scanner) Collect() *Report {
	report := &Report{}
	for _, tool := range KnownTools {
		report.Entries = append(report.Entries, s.ProbeTool(tool))
	}
	return report
}

// isDevBuild reports whether build info describes a local development
// build rather than a released module version.
func isDevBuild(info *debug.BuildInfo) bool {
	if info.Main.Version == "" || info.Main.Version == "(devel)" {
		return true
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.modified" && setting.Value == "true" {
			return true
		}
	}
	return false
}
