// Package release turns a requested version change into an ordered list of
// tasks (version writes, git operations, publishing) and executes them,
// joining spawned processes and running cleanup strictly last.
package release

import (
	"fmt"
	"strings"

	"github.com/wrenware/relver/internal/semver"
)

// TaskKind enumerates the closed set of release tasks.
type TaskKind int

const (
	// TaskDisplayVersion prints a package's current version.
	TaskDisplayVersion TaskKind = iota
	// TaskDisplayTree prints the workspace tree.
	TaskDisplayTree
	// TaskSetVersion sets a member's version to an explicit value.
	TaskSetVersion
	// TaskSetWorkspaceVersion sets the workspace-declared version.
	TaskSetWorkspaceVersion
	// TaskBumpVersion bumps a member's version.
	TaskBumpVersion
	// TaskBumpWorkspaceVersion bumps the workspace-declared version.
	TaskBumpWorkspaceVersion
	// TaskWriteManifest flushes a package's manifest to disk.
	TaskWriteManifest
	// TaskGitStash stashes or restores worktree changes.
	TaskGitStash
	// TaskGitSwitchBranch checks out another branch.
	TaskGitSwitchBranch
	// TaskGitAdd stages files.
	TaskGitAdd
	// TaskGitCommit records the release commit.
	TaskGitCommit
	// TaskGitTag tags the release commit.
	TaskGitTag
	// TaskGitDeleteTag removes the local tag again. Cleanup only.
	TaskGitDeleteTag
	// TaskGitPush pushes the tag to one remote. Spawned.
	TaskGitPush
	// TaskRegenerateLockfile regenerates the workspace lockfile.
	TaskRegenerateLockfile
	// TaskPublish publishes via the build tool. Spawned.
	TaskPublish
)

// StashDirection says which way a stash task moves changes.
type StashDirection int

const (
	// StashSave stashes the dirty worktree.
	StashSave StashDirection = iota
	// StashRestore pops the stash back.
	StashRestore
)

// Task is one immutable step of a release. Its String form doubles as its
// identity in the task table.
type Task struct {
	Kind TaskKind

	// Package names the member a version or manifest task applies to.
	Package string
	// Bump is the bump kind for bump tasks.
	Bump semver.Bump
	// NewVersion is the version a version task writes.
	NewVersion semver.Version

	// Paths are the files a git add stages.
	Paths []string
	// Remote is the push destination.
	Remote string
	// Tag is the git tag name.
	Tag string
	// Message is the commit message.
	Message string
	// FromBranch and ToBranch describe a branch switch.
	FromBranch string
	ToBranch   string
	// Stash is the stash direction for stash tasks.
	Stash StashDirection

	// DryRun propagates --dry-run to commands that support it.
	DryRun bool
	// AllowDirty permits publishing from a dirty worktree.
	AllowDirty bool
}

// String renders the task label shown to users and used as its identity.
func (t Task) String() string {
	switch t.Kind {
	case TaskDisplayVersion:
		return fmt.Sprintf("Print Version: %s", t.Package)
	case TaskDisplayTree:
		return "Display Workspace Tree"
	case TaskSetVersion:
		return fmt.Sprintf("Set Version: %s -> %s", t.Package, t.NewVersion)
	case TaskSetWorkspaceVersion:
		return fmt.Sprintf("Set Workspace Version: %s", t.NewVersion)
	case TaskBumpVersion:
		return fmt.Sprintf("Bump %s: %s -> %s", t.Bump, t.Package, t.NewVersion)
	case TaskBumpWorkspaceVersion:
		return fmt.Sprintf("Bump Workspace %s: %s", t.Bump, t.NewVersion)
	case TaskWriteManifest:
		return fmt.Sprintf("Write Manifest: %s", t.Package)
	case TaskGitStash:
		if t.Stash == StashRestore {
			return "Git Stash Pop"
		}
		return "Git Stash"
	case TaskGitSwitchBranch:
		return fmt.Sprintf("Git Switch Branch: %s -> %s", t.FromBranch, t.ToBranch)
	case TaskGitAdd:
		return fmt.Sprintf("Git Add: [%s]", strings.Join(t.Paths, ", "))
	case TaskGitCommit:
		return fmt.Sprintf("Git Commit: %s", t.Message)
	case TaskGitTag:
		return fmt.Sprintf("Git Tag: %s", t.Tag)
	case TaskGitDeleteTag:
		return fmt.Sprintf("Git Delete Tag: %s", t.Tag)
	case TaskGitPush:
		return fmt.Sprintf("Git Push: %s to %s", t.Tag, t.Remote)
	case TaskRegenerateLockfile:
		return "Regenerate Lockfile"
	case TaskPublish:
		return "Publish"
	default:
		return "Unknown Task"
	}
}

// RunAfterCompleted reports whether the task is a cleanup task, which
// RunAll skips and RunCleanupTasks executes after everything else joined.
func (t Task) RunAfterCompleted() bool {
	return t.Kind == TaskGitDeleteTag
}

// IsVersionChange reports whether the task writes a new version value.
func (t Task) IsVersionChange() bool {
	switch t.Kind {
	case TaskSetVersion, TaskSetWorkspaceVersion, TaskBumpVersion, TaskBumpWorkspaceVersion:
		return true
	default:
		return false
	}
}

// Spawns reports whether running the task yields a process handle instead
// of completing synchronously.
func (t Task) Spawns() bool {
	return t.Kind == TaskGitPush || t.Kind == TaskPublish
}
