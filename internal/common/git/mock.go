package git

// MockRunner implements Executor for testing.
// Each method can be configured with a custom function to control behavior.
type MockRunner struct {
	DescribeFunc     func() (string, error)
	ActiveBranchFunc func() (string, error)
	IsDirtyFunc      func() (bool, error)
	PullFunc         func(remote string) error
	RemoteURLFunc    func(remote string) (string, error)
	workDir          string
}

// NewMockRunner creates a new MockRunner with the specified working directory
func NewMockRunner(workDir string) *MockRunner {
	return &MockRunner{
		workDir: workDir,
	}
}

// Describe returns `git describe --tags --dirty` output
func (m *MockRunner) Describe() (string, error) {
	if m.DescribeFunc != nil {
		return m.DescribeFunc()
	}
	return "", nil
}

// ActiveBranch returns the name of the currently checked out branch
func (m *MockRunner) ActiveBranch() (string, error) {
	if m.ActiveBranchFunc != nil {
		return m.ActiveBranchFunc()
	}
	return "main", nil
}

// IsDirty reports whether the worktree has uncommitted changes
func (m *MockRunner) IsDirty() (bool, error) {
	if m.IsDirtyFunc != nil {
		return m.IsDirtyFunc()
	}
	return false, nil
}

// Pull pulls the current branch from the named remote
func (m *MockRunner) Pull(remote string) error {
	if m.PullFunc != nil {
		return m.PullFunc(remote)
	}
	return nil
}

// RemoteURL returns the fetch URL of the named remote
func (m *MockRunner) RemoteURL(remote string) (string, error) {
	if m.RemoteURLFunc != nil {
		return m.RemoteURLFunc(remote)
	}
	return "", nil
}

// WorkDir returns the working directory of the git repository
func (m *MockRunner) WorkDir() string {
	return m.workDir
}
