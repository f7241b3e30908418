package git

// Executor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type Executor interface {
	// Describe returns `git describe --tags --dirty` output
	Describe() (string, error)

	// ActiveBranch returns the name of the currently checked out branch
	ActiveBranch() (string, error)

	// IsDirty reports whether the worktree has uncommitted changes
	IsDirty() (bool, error)

	// Pull pulls the current branch from the named remote
	Pull(remote string) error

	// RemoteURL returns the fetch URL of the named remote
	RemoteURL(remote string) (string, error)

	// WorkDir returns the working directory of the git repository
	WorkDir() string
}
