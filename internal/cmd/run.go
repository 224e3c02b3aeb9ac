package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wrenware/relver/internal/buildtool"
	"github.com/wrenware/relver/internal/config"
	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/gitops"
	"github.com/wrenware/relver/internal/logging"
	"github.com/wrenware/relver/internal/release"
	"github.com/wrenware/relver/internal/semver"
	"github.com/wrenware/relver/internal/workspace"
)

// runBump is the shared entry point for the bump subcommands and the root
// default.
func runBump(cmd *cobra.Command, bump semver.Bump) error {
	intent, err := intentFromFlags(cmd)
	if err != nil {
		return err
	}
	intent.Action = release.ActionBump
	intent.Bump = bump
	return runIntent(cmd, intent)
}

// runIntent drives the full pipeline: discover, generate, run, join,
// cleanup.
func runIntent(cmd *cobra.Command, intent release.Intent) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	applyConfig(&intent, cfg)

	manifestPath, err := cmd.Flags().GetString("manifest-path")
	if err != nil {
		return err
	}
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return errors.Wrap(err, "resolving manifest path")
	}

	fs := afero.NewOsFs()
	ps, err := workspace.Discover(fs, absManifest)
	if err != nil {
		return err
	}
	logger.WithWorkspace(ps.RootDir).Debug("workspace discovered", "members", ps.Len())

	git := gitops.New(ps.RootDir, logger)
	tool := buildtool.New(cfg.Tool, logger)
	out := cmd.OutOrStdout()

	tasks, err := release.Generate(intent, ps, git, tool, logger, out)
	if err != nil {
		return err
	}

	if intent.DryRun {
		fmt.Fprint(out, tasks.Render())
	}

	if err := tasks.RunAll(); err != nil {
		return reportFailure(cmd, tasks, err)
	}
	if err := tasks.JoinAll(); err != nil {
		return reportFailure(cmd, tasks, err)
	}
	if err := tasks.RunCleanupTasks(); err != nil {
		return reportFailure(cmd, tasks, err)
	}

	if intent.Action == release.ActionBump || intent.Action == release.ActionSet {
		if v, err := tasks.RootVersion(); err == nil {
			fmt.Fprintln(out, v)
		}
	}
	return nil
}

// reportFailure shows the partial plan state before propagating the error.
func reportFailure(cmd *cobra.Command, tasks *release.Tasks, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), tasks.Render())
	return err
}

// intentFromFlags resolves the shared flag set into a release intent.
func intentFromFlags(cmd *cobra.Command) (release.Intent, error) {
	flags := cmd.Flags()
	var intent release.Intent

	var err error
	if intent.DryRun, err = flags.GetBool("dry-run"); err != nil {
		return intent, err
	}
	intent.Force, _ = flags.GetBool("force-version")
	intent.AllowDirty, _ = flags.GetBool("allow-dirty")
	intent.GitTag, _ = flags.GetBool("git-tag")
	intent.GitPush, _ = flags.GetBool("git-push")
	intent.Publish, _ = flags.GetBool("publish")
	intent.Message, _ = flags.GetString("message")
	intent.Branch, _ = flags.GetString("branch")
	intent.Remote, _ = flags.GetString("remote")
	intent.WorkspaceDeclaration, _ = flags.GetBool("workspace-version")

	suppress, _ := flags.GetString("suppress")
	intent.Suppress = release.ParseSuppress(suppress)

	if pre, _ := flags.GetString("pre"); pre != "" {
		parsed, err := semver.ParsePrerelease(pre)
		if err != nil {
			return intent, err
		}
		intent.Pre = &parsed
	}
	if build, _ := flags.GetString("build"); build != "" {
		intent.Build = &build
	}

	all, _ := flags.GetBool("workspace")
	defaults, _ := flags.GetBool("default-members")
	mode := workspace.ModeRoot
	if all {
		mode = workspace.ModeAll
	} else if defaults {
		mode = workspace.ModeDefault
	}
	include, _ := flags.GetStringArray("package")
	exclude, _ := flags.GetStringArray("exclude")
	intent.Selection = workspace.Selection{Mode: mode, Include: include, Exclude: exclude}

	return intent, nil
}

// applyConfig fills intent fields the flags left empty.
func applyConfig(intent *release.Intent, cfg *config.Config) {
	if intent.Message == "" {
		intent.Message = cfg.Git.Message
	}
	if intent.Remote == "" {
		intent.Remote = cfg.Git.Remote
	}
	intent.TagPrefix = cfg.Git.TagPrefix
}

// newLogger builds the logger from config and the verbosity flags.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose, err := cmd.Flags().GetCount("verbose"); err == nil {
		switch {
		case verbose >= 2:
			level = slog.LevelDebug
		case verbose == 1 && level > slog.LevelInfo:
			level = slog.LevelInfo
		}
	}
	return logging.NewLogger(cfg.Logging.File, level)
}
