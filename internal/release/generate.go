package release

import (
	"io"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/logging"
	"github.com/wrenware/relver/internal/semver"
	"github.com/wrenware/relver/internal/workspace"
)

// Generate translates an intent into an ordered task plan. Version bumps
// are computed here so a bad bump fails before any side effect runs.
func Generate(intent Intent, ps *workspace.Packages, git GitClient, tool Builder, logger *logging.Logger, out io.Writer) (*Tasks, error) {
	tasks := NewTasks(ps, git, tool, logger, out)

	included, _, err := intent.Selection.Partition(ps)
	if err != nil {
		return nil, err
	}

	// Display actions have no side effects and skip everything else.
	switch intent.Action {
	case ActionPrint:
		for _, p := range included {
			tasks.Append(Task{Kind: TaskDisplayVersion, Package: p.Name})
		}
		return tasks, nil
	case ActionTree:
		tasks.Append(Task{Kind: TaskDisplayTree})
		return tasks, nil
	}

	gitTag := intent.GitTag && !intent.Suppress.Git()
	gitPush := intent.GitPush && gitTag
	publish := intent.Publish && !intent.Suppress.Tool()

	if gitTag && !intent.AllowDirty {
		dirty, err := git.DirtyFiles()
		if err != nil {
			return nil, err
		}
		if len(dirty) > 0 {
			return nil, errors.NewGitError("refusing to tag", errors.ErrDirtyWorktree).
				WithRepository(ps.RootDir)
		}
	}

	// Branch bracketing: switch over now, switch back at the very end.
	var revertBranch string
	var popStash bool
	if intent.Branch != "" {
		current, err := git.CurrentBranch()
		if err != nil {
			return nil, err
		}
		if current != intent.Branch {
			dirty, err := git.DirtyFiles()
			if err != nil {
				return nil, err
			}
			if len(dirty) > 0 {
				tasks.Append(Task{Kind: TaskGitStash, Stash: StashSave})
				popStash = true
			}
			tasks.Append(Task{Kind: TaskGitSwitchBranch, FromBranch: current, ToBranch: intent.Branch})
			revertBranch = current
		}
	}

	needWorkspace := intent.WorkspaceDeclaration
	for _, p := range included {
		if p.Source == workspace.SourceInherited {
			needWorkspace = true
			continue
		}
		newVersion, err := deriveVersion(intent, p.Version)
		if err != nil {
			return nil, err
		}
		tasks.Append(versionTask(intent, p.Name, newVersion, false))
		if !intent.DryRun {
			tasks.Append(Task{Kind: TaskWriteManifest, Package: p.Name})
		}
	}

	if needWorkspace {
		decl := ps.WorkspaceDeclaration()
		if decl == nil {
			return nil, errors.Wrap(errors.ErrNoWorkspaceVersion,
				"selection requires the workspace version")
		}
		newVersion, err := deriveVersion(intent, decl.Version)
		if err != nil {
			return nil, err
		}
		tasks.Append(versionTask(intent, "", newVersion, true))
		if !intent.DryRun {
			tasks.Append(Task{Kind: TaskWriteManifest, Package: workspace.WorkspacePackageName})
		}
	}

	if !gitTag && !publish {
		return tasks, nil
	}

	rootVersion, err := tasks.RootVersion()
	if err != nil {
		return nil, errors.Wrap(err, "deriving the release version")
	}
	tag := intent.TagPrefix + rootVersion.String()

	if gitTag {
		tasks.Append(Task{Kind: TaskRegenerateLockfile})
		paths := append(ps.ManifestPaths(), ps.LockfilePath)
		tasks.Append(Task{Kind: TaskGitAdd, Paths: paths})
		message := intent.Message
		if message == "" {
			message = rootVersion.String()
		}
		tasks.Append(Task{Kind: TaskGitCommit, Message: message, DryRun: intent.DryRun})
		tasks.Append(Task{Kind: TaskGitTag, Tag: tag})

		if gitPush {
			remotes := []string{intent.Remote}
			if intent.Remote == "" {
				remotes, err = git.Remotes()
				if err != nil {
					return nil, err
				}
			}
			for _, remote := range remotes {
				tasks.Append(Task{Kind: TaskGitPush, Remote: remote, Tag: tag, DryRun: intent.DryRun})
			}
		}
	}

	if publish {
		tasks.Append(Task{Kind: TaskPublish, DryRun: intent.DryRun, AllowDirty: intent.AllowDirty})
	}

	// Dry-run tagging leaves a real local tag behind; delete it after every
	// push has joined.
	if intent.DryRun && gitTag {
		tasks.Append(Task{Kind: TaskGitDeleteTag, Tag: tag})
	}

	if revertBranch != "" {
		tasks.Append(Task{Kind: TaskGitSwitchBranch, FromBranch: intent.Branch, ToBranch: revertBranch})
	}
	if popStash {
		tasks.Append(Task{Kind: TaskGitStash, Stash: StashRestore})
	}

	return tasks, nil
}

// deriveVersion computes the new version for one package.
func deriveVersion(intent Intent, current semver.Version) (semver.Version, error) {
	if intent.Action == ActionSet {
		next := intent.SetVersion
		if !intent.Force && next.Compare(current) <= 0 {
			return semver.Version{}, errors.NewVersionError(
				"set version does not increase the current version",
				errors.ErrVersionNotIncreased).
				WithVersion(current.String()).
				WithHelp("use --force-version to set it anyway")
		}
		return next, nil
	}
	return current.BumpVersion(intent.Bump, semver.BumpOptions{
		Pre:   intent.Pre,
		Build: intent.Build,
		Force: intent.Force,
	})
}

// versionTask builds the version-change task for a member or the workspace
// declaration.
func versionTask(intent Intent, pkg string, v semver.Version, forWorkspace bool) Task {
	switch {
	case intent.Action == ActionSet && forWorkspace:
		return Task{Kind: TaskSetWorkspaceVersion, NewVersion: v}
	case intent.Action == ActionSet:
		return Task{Kind: TaskSetVersion, Package: pkg, NewVersion: v}
	case forWorkspace:
		return Task{Kind: TaskBumpWorkspaceVersion, Bump: intent.Bump, NewVersion: v}
	default:
		return Task{Kind: TaskBumpVersion, Bump: intent.Bump, Package: pkg, NewVersion: v}
	}
}
