package git

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

var (
	ErrGitCommand = errors.New("git command failed")
	ErrNoBranch   = errors.New("not on a branch (detached HEAD)")
	ErrNoDescribe = errors.New("no tags to describe")
)

// Runner executes git commands in a specific working directory
type Runner struct {
	workDir string
}

// NewRunner creates a new Runner for the specified working directory
func NewRunner(workDir string) *Runner {
	return &Runner{
		workDir: workDir,
	}
}

// WorkDir returns the working directory of the Runner
func (g *Runner) WorkDir() string {
	return g.workDir
}

// runCommand executes a git command and returns stdout, stderr, and any error
func (g *Runner) runCommand(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.workDir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		// Wrap the error with stderr for context
		if stderr != "" {
			err = errors.Join(ErrGitCommand, errors.New(strings.TrimSpace(stderr)))
		}
	}

	return stdout, stderr, err
}

// Describe returns `git describe --tags --dirty` output
func (g *Runner) Describe() (string, error) {
	stdout, _, err := g.runCommand("describe", "--tags", "--dirty")
	if err != nil {
		return "", errors.Join(ErrNoDescribe, err)
	}
	return strings.TrimSpace(stdout), nil
}

// ActiveBranch returns the name of the currently checked out branch
func (g *Runner) ActiveBranch() (string, error) {
	stdout, _, err := g.runCommand("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}

	branch := strings.TrimSpace(stdout)
	if branch == "HEAD" {
		return "", ErrNoBranch
	}
	return branch, nil
}

// IsDirty reports whether the worktree has uncommitted changes
func (g *Runner) IsDirty() (bool, error) {
	stdout, _, err := g.runCommand("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return ParseDirty(stdout), nil
}

// ParseDirty parses git status --porcelain output into a dirty flag.
// Any non-blank line means the worktree has local changes.
func ParseDirty(output string) bool {
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}

// Pull pulls the current branch from the named remote
func (g *Runner) Pull(remote string) error {
	_, _, err := g.runCommand("pull", remote)
	return err
}

// RemoteURL returns the fetch URL of the named remote
func (g *Runner) RemoteURL(remote string) (string, error) {
	stdout, _, err := g.runCommand("remote", "get-url", remote)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}
