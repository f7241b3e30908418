package installer

import (
	"errors"
	"testing"

	"github.com/esm-tools/esm-version-checker/internal/common/git"
	"github.com/esm-tools/esm-version-checker/internal/inventory"
)

func testReport() *inventory.Report {
	return &inventory.Report{Entries: []inventory.Entry{
		{Tool: "esm_archiving", Version: "v1.2.3", Installed: true},
		{Tool: "esm_autotests", Version: inventory.UnknownVersion},
		{Tool: "esm_master", Version: "v6.1.2", Installed: true},
		{Tool: "esm_parser", Version: "(devel)", Installed: true, Dev: true, DevPath: "/src/esm_parser"},
	}}
}

func TestUpgradeToolInvokesInstallerForThatToolOnly(t *testing.T) {
	mock := &MockInstaller{}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	if err := upgrader.UpgradeTool("esm_master", ""); err != nil {
		t.Fatalf("UpgradeTool failed: %v", err)
	}

	if len(mock.Upgraded) != 1 || mock.Upgraded[0] != "esm_master" {
		t.Errorf("installer should be invoked once for esm_master, got %v", mock.Upgraded)
	}
}

func TestUpgradeToolVersionRequests(t *testing.T) {
	tests := []struct {
		name        string
		tool        string
		version     string
		wantVersion string
	}{
		{"no version means latest", "esm_master", "", ""},
		{"pinned release", "esm_master", "v6.1.0", "v6.1.0"},
		{"branch name", "esm_archiving", "develop", "develop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockInstaller{}
			upgrader := NewUpgrader(testReport(), WithInstaller(mock))

			if err := upgrader.UpgradeTool(tt.tool, tt.version); err != nil {
				t.Fatalf("UpgradeTool failed: %v", err)
			}
			if len(mock.Upgraded) != 1 || mock.Upgraded[0] != tt.tool {
				t.Fatalf("expected one invocation for %s, got %v", tt.tool, mock.Upgraded)
			}
			if mock.Versions[0] != tt.wantVersion {
				t.Errorf("installer received version %q, expected %q", mock.Versions[0], tt.wantVersion)
			}
		})
	}
}

func TestUpgradeToolRejectsUnknownNames(t *testing.T) {
	mock := &MockInstaller{}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	err := upgrader.UpgradeTool("esm_bogus", "")
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if len(mock.Upgraded) != 0 {
		t.Errorf("installer should not run for unknown tools, got %v", mock.Upgraded)
	}
}

func TestUpgradeToolSkipsDevInstalls(t *testing.T) {
	mock := &MockInstaller{}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	if err := upgrader.UpgradeTool("esm_parser", ""); err != nil {
		t.Fatalf("dev install skip should not be an error: %v", err)
	}
	if len(mock.Upgraded) != 0 {
		t.Errorf("installer should not run for dev installs, got %v", mock.Upgraded)
	}
}

func TestUpgradeToolNotInReport(t *testing.T) {
	// Upgrading a known but uninstalled tool still delegates to the
	// installer; go install works regardless of local state
	mock := &MockInstaller{}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	if err := upgrader.UpgradeTool("esm_calendar", ""); err != nil {
		t.Fatalf("UpgradeTool failed: %v", err)
	}
	if len(mock.Upgraded) != 1 || mock.Upgraded[0] != "esm_calendar" {
		t.Errorf("installer should be invoked for esm_calendar, got %v", mock.Upgraded)
	}
}

func TestUpgradeAllCoversInstalledToolsOnly(t *testing.T) {
	mock := &MockInstaller{}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	if err := upgrader.UpgradeAll(); err != nil {
		t.Fatalf("UpgradeAll failed: %v", err)
	}

	// esm_archiving and esm_master are upgradable; esm_autotests is not
	// installed and esm_parser is a dev install
	if len(mock.Upgraded) != 2 {
		t.Fatalf("expected 2 installer invocations, got %v", mock.Upgraded)
	}
	if mock.Upgraded[0] != "esm_archiving" || mock.Upgraded[1] != "esm_master" {
		t.Errorf("unexpected upgrade order %v", mock.Upgraded)
	}
}

func TestUpgradeAllContinuesAfterFailure(t *testing.T) {
	wantErr := errors.New("install failed")
	mock := &MockInstaller{
		UpgradeFunc: func(tool, version string) error {
			if tool == "esm_archiving" {
				return wantErr
			}
			return nil
		},
	}
	upgrader := NewUpgrader(testReport(), WithInstaller(mock))

	err := upgrader.UpgradeAll()
	if !errors.Is(err, wantErr) {
		t.Fatalf("first failure should be returned, got %v", err)
	}
	if len(mock.Upgraded) != 2 {
		t.Errorf("remaining tools should still be attempted, got %v", mock.Upgraded)
	}
}

func TestUpgradeEsmToolsPullsCheckout(t *testing.T) {
	var pulledRemote string
	mock := git.NewMockRunner("/home/user/esm_tools")
	mock.ActiveBranchFunc = func() (string, error) { return "release", nil }
	mock.PullFunc = func(remote string) error {
		pulledRemote = remote
		return nil
	}

	inst := &MockInstaller{}
	upgrader := NewUpgrader(testReport(),
		WithInstaller(inst),
		WithToolsCheckout("/home/user/esm_tools", "origin"),
		WithGitFactory(func(dir string) git.Executor { return mock }),
	)

	if err := upgrader.UpgradeTool("esm_tools", ""); err != nil {
		t.Fatalf("UpgradeTool(esm_tools) failed: %v", err)
	}
	if pulledRemote != "origin" {
		t.Errorf("expected pull from origin, got %q", pulledRemote)
	}
	if len(inst.Upgraded) != 0 {
		t.Errorf("esm_tools must not go through the installer, got %v", inst.Upgraded)
	}
}

func TestUpgradeEsmToolsRefusesDirtyCheckout(t *testing.T) {
	mock := git.NewMockRunner("/home/user/esm_tools")
	mock.IsDirtyFunc = func() (bool, error) { return true, nil }

	upgrader := NewUpgrader(testReport(),
		WithInstaller(&MockInstaller{}),
		WithToolsCheckout("/home/user/esm_tools", "origin"),
		WithGitFactory(func(dir string) git.Executor { return mock }),
	)

	if err := upgrader.UpgradeTool("esm_tools", ""); !errors.Is(err, ErrToolsDirty) {
		t.Fatalf("expected ErrToolsDirty, got %v", err)
	}
}

func TestUpgradeEsmToolsRefusesFeatureBranch(t *testing.T) {
	mock := git.NewMockRunner("/home/user/esm_tools")
	mock.ActiveBranchFunc = func() (string, error) { return "feature/new-runner", nil }

	upgrader := NewUpgrader(testReport(),
		WithInstaller(&MockInstaller{}),
		WithToolsCheckout("/home/user/esm_tools", "origin"),
		WithGitFactory(func(dir string) git.Executor { return mock }),
	)

	if err := upgrader.UpgradeTool("esm_tools", ""); !errors.Is(err, ErrToolsBranch) {
		t.Fatalf("expected ErrToolsBranch, got %v", err)
	}
}

func TestUpgradeEsmToolsRequiresConfiguredCheckout(t *testing.T) {
	upgrader := NewUpgrader(testReport(), WithInstaller(&MockInstaller{}))

	if err := upgrader.UpgradeTool("esm_tools", ""); !errors.Is(err, ErrToolsPathNotSet) {
		t.Fatalf("expected ErrToolsPathNotSet, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("nil error should map to 0, got %d", got)
	}
	if got := ExitCode(errors.New("plain failure")); got != 1 {
		t.Errorf("generic error should map to 1, got %d", got)
	}
}
