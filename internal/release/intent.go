package release

import (
	"github.com/wrenware/relver/internal/buildtool"
	"github.com/wrenware/relver/internal/gitops"
	"github.com/wrenware/relver/internal/proc"
	"github.com/wrenware/relver/internal/semver"
	"github.com/wrenware/relver/internal/workspace"
)

// Action is the top-level operation a command requests.
type Action int

const (
	// ActionBump derives new versions with a bump kind.
	ActionBump Action = iota
	// ActionSet writes an explicit version.
	ActionSet
	// ActionPrint displays current versions and changes nothing.
	ActionPrint
	// ActionTree displays the workspace tree and changes nothing.
	ActionTree
)

// Suppress disables classes of side effects regardless of other flags.
type Suppress int

const (
	// SuppressNone runs everything requested.
	SuppressNone Suppress = iota
	// SuppressGit skips git tasks.
	SuppressGit
	// SuppressTool skips build-tool tasks.
	SuppressTool
	// SuppressAll skips both.
	SuppressAll
)

// Git reports whether git tasks are suppressed.
func (s Suppress) Git() bool {
	return s == SuppressGit || s == SuppressAll
}

// Tool reports whether build-tool tasks are suppressed.
func (s Suppress) Tool() bool {
	return s == SuppressTool || s == SuppressAll
}

// ParseSuppress maps a flag value to a Suppress mode.
func ParseSuppress(s string) Suppress {
	switch s {
	case "git":
		return SuppressGit
	case "tool", "cargo":
		return SuppressTool
	case "all":
		return SuppressAll
	default:
		return SuppressNone
	}
}

// Intent is everything the CLI resolved about the requested release.
type Intent struct {
	Action Action
	// Bump is the bump kind for ActionBump.
	Bump semver.Bump
	// SetVersion is the explicit version for ActionSet.
	SetVersion semver.Version

	// Pre and Build override the respective segments of derived versions.
	Pre   *semver.Prerelease
	Build *string
	// Force bypasses bump guards and the must-increase check.
	Force bool

	DryRun     bool
	GitTag     bool
	GitPush    bool
	Publish    bool
	AllowDirty bool
	Suppress   Suppress

	// Message overrides the commit message. Empty means the new version.
	Message string
	// TagPrefix is prepended to the version to form the tag name.
	TagPrefix string
	// Remote restricts pushes to one remote. Empty means every discovered
	// remote.
	Remote string
	// Branch is the branch to release from. Empty means the current one.
	Branch string

	// WorkspaceDeclaration targets workspace.package.version even when no
	// inherited member is selected.
	WorkspaceDeclaration bool

	Selection workspace.Selection
}

// GitClient is the git surface the release engine depends on.
type GitClient interface {
	DirtyFiles() ([]gitops.FileStatus, error)
	CurrentBranch() (string, error)
	Remotes() ([]string, error)
	Add(paths ...string) error
	Commit(message string, dryRun bool) error
	Tag(tag string) error
	DeleteTag(tag string) error
	PushTag(remote, tag string, dryRun bool) (*proc.Handle, error)
	SwitchBranch(branch string) error
	StashPush() error
	StashPop() error
}

var _ GitClient = (*gitops.Git)(nil)

// Builder is the build-tool surface the release engine depends on.
type Builder interface {
	GenerateLockfile(manifestPath string) error
	Publish(opts buildtool.PublishOptions) (*proc.Handle, error)
}

var _ Builder = (*buildtool.Tool)(nil)
