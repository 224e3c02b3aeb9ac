// Package buildtool wraps the workspace's build tool (cargo by default) for
// the two release operations relver needs: regenerating the lockfile and
// publishing packages.
package buildtool

import (
	"github.com/wrenware/relver/internal/config"
	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/gitops"
	"github.com/wrenware/relver/internal/logging"
	"github.com/wrenware/relver/internal/proc"
)

// PublishOptions control how a publish command is formed.
type PublishOptions struct {
	// DryRun passes --dry-run to the tool.
	DryRun bool
	// AllowDirty permits publishing from a dirty worktree.
	AllowDirty bool
	// ManifestPath points the tool at a specific manifest.
	ManifestPath string
}

// Tool invokes the configured build tool binary.
type Tool struct {
	bin      string
	noVerify bool
	extra    []string
	executor gitops.CommandExecutor
	logger   *logging.Logger
}

// New creates a Tool from config using the real CLI executor.
func New(cfg config.ToolConfig, logger *logging.Logger) *Tool {
	return NewWithExecutor(cfg, &gitops.CLICommandExecutor{}, logger)
}

// NewWithExecutor creates a Tool with a custom executor. For tests.
func NewWithExecutor(cfg config.ToolConfig, executor gitops.CommandExecutor, logger *logging.Logger) *Tool {
	if logger == nil {
		logger = logging.NopLogger()
	}
	bin := cfg.Bin
	if bin == "" {
		bin = "cargo"
	}
	return &Tool{
		bin:      bin,
		noVerify: cfg.NoVerify,
		extra:    cfg.PublishArgs,
		executor: executor,
		logger:   logger,
	}
}

// GenerateLockfile regenerates the workspace lockfile synchronously. A
// non-zero exit is an error carrying the tool's output.
func (t *Tool) GenerateLockfile(manifestPath string) error {
	args := []string{"generate-lockfile"}
	if manifestPath != "" {
		args = append(args, "--manifest-path", manifestPath)
	}
	output, err := t.executor.Run("", t.bin, args...)
	if err != nil {
		return errors.Wrapf(err, "regenerating lockfile: %s", string(output))
	}
	t.logger.Info("lockfile regenerated", "manifest", manifestPath)
	return nil
}

// Publish starts the publish command and returns its handle. The release
// engine joins it alongside the pushes.
func (t *Tool) Publish(opts PublishOptions) (*proc.Handle, error) {
	args := []string{"publish"}
	if opts.DryRun {
		args = append(args, "--dry-run")
	}
	if opts.ManifestPath != "" {
		args = append(args, "--manifest-path", opts.ManifestPath)
	}
	if t.noVerify {
		args = append(args, "--no-verify")
	}
	if opts.AllowDirty {
		args = append(args, "--allow-dirty")
	}
	args = append(args, t.extra...)

	handle, err := t.executor.Start(t.bin+" publish", "", t.bin, args...)
	if err != nil {
		return nil, errors.Wrap(err, "starting publish")
	}
	t.logger.Info("publish started", "bin", t.bin, "dry_run", opts.DryRun)
	return handle, nil
}
