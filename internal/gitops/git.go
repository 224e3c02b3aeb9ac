// Package gitops wraps the git CLI for release operations: inspecting the
// worktree, committing and tagging versions, and pushing tags to remotes.
//
// All operations run through a CommandExecutor so tests can substitute a
// mock without touching a real repository.
package gitops

import (
	"os/exec"
	"strings"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/logging"
	"github.com/wrenware/relver/internal/proc"
)

// -----------------------------------------------------------------------------
// Command Executor
// -----------------------------------------------------------------------------

// CommandExecutor abstracts process execution for testability.
type CommandExecutor interface {
	// Run executes a command and returns its combined output.
	Run(dir string, name string, args ...string) ([]byte, error)
	// RunQuiet executes a command, discarding output.
	RunQuiet(dir string, name string, args ...string) error
	// Start launches a command without waiting and returns its handle.
	Start(label string, dir string, name string, args ...string) (*proc.Handle, error)
}

// CLICommandExecutor executes commands using os/exec.
type CLICommandExecutor struct{}

// Run executes a command and returns its combined output.
func (e *CLICommandExecutor) Run(dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// RunQuiet executes a command, discarding output.
func (e *CLICommandExecutor) RunQuiet(dir string, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.Run()
}

// Start launches a command without waiting.
func (e *CLICommandExecutor) Start(label string, dir string, name string, args ...string) (*proc.Handle, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return proc.Start(label, cmd)
}

var _ CommandExecutor = (*CLICommandExecutor)(nil)

// -----------------------------------------------------------------------------
// Git Client
// -----------------------------------------------------------------------------

// FileStatus is one entry of git status --short.
type FileStatus struct {
	// Mode is the two-character status code.
	Mode string
	// Path is the file path relative to the repository root.
	Path string
}

// Git runs git commands against one repository.
type Git struct {
	repoDir  string
	executor CommandExecutor
	logger   *logging.Logger
}

// New creates a Git client using the real CLI executor.
func New(repoDir string, logger *logging.Logger) *Git {
	return NewWithExecutor(repoDir, &CLICommandExecutor{}, logger)
}

// NewWithExecutor creates a Git client with a custom executor. For tests.
func NewWithExecutor(repoDir string, executor CommandExecutor, logger *logging.Logger) *Git {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Git{repoDir: repoDir, executor: executor, logger: logger}
}

// RepoDir returns the repository path the client operates on.
func (g *Git) RepoDir() string {
	return g.repoDir
}

// run invokes git with -C so the working directory never matters.
func (g *Git) run(args ...string) ([]byte, error) {
	full := append([]string{"-C", g.repoDir}, args...)
	return g.executor.Run("", "git", full...)
}

// DirtyFiles returns the uncommitted changes in the worktree.
func (g *Git) DirtyFiles() ([]FileStatus, error) {
	output, err := g.run("status", "--short")
	if err != nil {
		return nil, errors.NewGitError("checking worktree status", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	var files []FileStatus
	for _, line := range strings.Split(string(output), "\n") {
		if len(line) < 4 {
			continue
		}
		files = append(files, FileStatus{
			Mode: strings.TrimSpace(line[:2]),
			Path: strings.TrimSpace(line[3:]),
		})
	}
	return files, nil
}

// IsDirty reports whether the worktree has uncommitted changes.
func (g *Git) IsDirty() (bool, error) {
	files, err := g.DirtyFiles()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch() (string, error) {
	output, err := g.run("branch", "--show-current")
	if err != nil {
		return "", errors.NewGitError("reading current branch", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return "", errors.NewGitError("not on a branch", nil).WithRepository(g.repoDir)
	}
	return branch, nil
}

// Remotes returns the remotes that actually track branches: the output of
// git remote intersected with the prefixes seen in git branch --remotes.
func (g *Git) Remotes() ([]string, error) {
	output, err := g.run("remote")
	if err != nil {
		return nil, errors.NewGitError("listing remotes", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	declared := make(map[string]struct{})
	for _, line := range strings.Split(string(output), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			declared[name] = struct{}{}
		}
	}

	output, err = g.run("branch", "--remotes")
	if err != nil {
		return nil, errors.NewGitError("listing remote branches", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	var remotes []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(string(output), "\n") {
		name, _, ok := strings.Cut(strings.TrimSpace(line), "/")
		if !ok {
			continue
		}
		if _, declaredHere := declared[name]; !declaredHere {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		remotes = append(remotes, name)
	}

	if len(remotes) == 0 {
		return nil, errors.NewGitError("no remotes track any branch", errors.ErrNoRemotes).
			WithRepository(g.repoDir)
	}
	return remotes, nil
}

// Add stages the given paths.
func (g *Git) Add(paths ...string) error {
	output, err := g.run(append([]string{"add"}, paths...)...)
	if err != nil {
		return errors.NewGitError("staging files", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	g.logger.Debug("staged files", "count", len(paths))
	return nil
}

// Commit records a commit with the given message. Dry-run commits pass
// --dry-run through to git.
func (g *Git) Commit(message string, dryRun bool) error {
	args := []string{"commit", "-m", message}
	if dryRun {
		args = append(args, "--dry-run")
	}
	output, err := g.run(args...)
	if err != nil {
		return errors.NewGitError("committing", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	g.logger.Info("committed", "message", message, "dry_run", dryRun)
	return nil
}

// Tag creates a tag at HEAD.
func (g *Git) Tag(tag string) error {
	output, err := g.run("tag", tag)
	if err != nil {
		return errors.NewGitError("creating tag", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	g.logger.Info("tag created", "tag", tag)
	return nil
}

// DeleteTag removes a local tag.
func (g *Git) DeleteTag(tag string) error {
	output, err := g.run("tag", "--delete", tag)
	if err != nil {
		return errors.NewGitError("deleting tag", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	g.logger.Info("tag deleted", "tag", tag)
	return nil
}

// PushTag starts pushing a tag to one remote and returns the running
// handle. The caller joins it later.
func (g *Git) PushTag(remote, tag string, dryRun bool) (*proc.Handle, error) {
	args := []string{"-C", g.repoDir, "push", remote, "tags/" + tag, "--porcelain"}
	if dryRun {
		args = append(args, "--dry-run")
	}
	label := "git push " + remote + " tags/" + tag
	handle, err := g.executor.Start(label, "", "git", args...)
	if err != nil {
		return nil, errors.NewGitError("starting push", err).
			WithRepository(g.repoDir)
	}
	g.logger.Info("push started", "remote", remote, "tag", tag, "dry_run", dryRun)
	return handle, nil
}

// SwitchBranch checks out another branch.
func (g *Git) SwitchBranch(branch string) error {
	output, err := g.run("checkout", branch)
	if err != nil {
		return errors.NewGitError("switching branch", err).
			WithRepository(g.repoDir).
			WithBranch(branch).
			WithGitOutput(string(output))
	}
	g.logger.Info("switched branch", "branch", branch)
	return nil
}

// StashPush stashes uncommitted changes.
func (g *Git) StashPush() error {
	output, err := g.run("stash", "push")
	if err != nil {
		return errors.NewGitError("stashing changes", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	return nil
}

// StashPop restores the most recent stash.
func (g *Git) StashPop() error {
	output, err := g.run("stash", "pop")
	if err != nil {
		return errors.NewGitError("restoring stash", err).
			WithRepository(g.repoDir).
			WithGitOutput(string(output))
	}
	return nil
}
