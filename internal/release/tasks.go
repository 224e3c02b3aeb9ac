package release

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wrenware/relver/internal/buildtool"
	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/logging"
	"github.com/wrenware/relver/internal/proc"
	"github.com/wrenware/relver/internal/semver"
	"github.com/wrenware/relver/internal/workspace"
)

// pollInterval is how long JoinAll sleeps when no process made progress.
const pollInterval = 10 * time.Millisecond

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pendingStyle = lipgloss.NewStyle().Faint(true)
	planStyle    = lipgloss.NewStyle().Bold(true)
)

// Tasks is the ordered release plan and its execution state. Tasks are
// keyed by their label, inserted once, and never removed; the incomplete
// set is the insertion order minus the completed set.
type Tasks struct {
	order          []string
	byLabel        map[string]Task
	handles        map[string]*proc.Handle
	completed      map[string]struct{}
	completedOrder []string

	packages *workspace.Packages
	git      GitClient
	tool     Builder
	logger   *logging.Logger
	out      io.Writer
}

// NewTasks creates an empty plan bound to its collaborators.
func NewTasks(ps *workspace.Packages, git GitClient, tool Builder, logger *logging.Logger, out io.Writer) *Tasks {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if out == nil {
		out = io.Discard
	}
	return &Tasks{
		byLabel:   make(map[string]Task),
		handles:   make(map[string]*proc.Handle),
		completed: make(map[string]struct{}),
		packages:  ps,
		git:       git,
		tool:      tool,
		logger:    logger,
		out:       out,
	}
}

// Append adds a task at the end of the plan. Appending a task with a label
// already present keeps the original position.
func (t *Tasks) Append(task Task) {
	label := task.String()
	if _, exists := t.byLabel[label]; exists {
		return
	}
	t.byLabel[label] = task
	t.order = append(t.order, label)
}

// All returns the tasks in insertion order.
func (t *Tasks) All() []Task {
	out := make([]Task, 0, len(t.order))
	for _, label := range t.order {
		out = append(out, t.byLabel[label])
	}
	return out
}

// Completed returns the completed tasks in completion order.
func (t *Tasks) Completed() []Task {
	out := make([]Task, 0, len(t.completedOrder))
	for _, label := range t.completedOrder {
		out = append(out, t.byLabel[label])
	}
	return out
}

// Incomplete returns the tasks not yet completed, in insertion order.
func (t *Tasks) Incomplete() []Task {
	out := make([]Task, 0)
	for _, label := range t.order {
		if _, done := t.completed[label]; !done {
			out = append(out, t.byLabel[label])
		}
	}
	return out
}

// Len returns the number of planned tasks.
func (t *Tasks) Len() int {
	return len(t.order)
}

// Packages exposes the workspace the plan operates on.
func (t *Tasks) Packages() *workspace.Packages {
	return t.packages
}

func (t *Tasks) markCompleted(label string) {
	if _, done := t.completed[label]; done {
		return
	}
	t.completed[label] = struct{}{}
	t.completedOrder = append(t.completedOrder, label)
}

// RootVersion derives the version that names the release: the root
// package's version task wins, then a workspace version task, then the
// single version the member tasks agree on, then the workspace model's own
// root version.
func (t *Tasks) RootVersion() (semver.Version, error) {
	var wsVersion *semver.Version
	var memberVersions []semver.Version
	for _, label := range t.order {
		task := t.byLabel[label]
		if !task.IsVersionChange() {
			continue
		}
		switch task.Kind {
		case TaskSetVersion, TaskBumpVersion:
			if t.packages.RootName != "" && task.Package == t.packages.RootName {
				return task.NewVersion, nil
			}
			memberVersions = append(memberVersions, task.NewVersion)
		case TaskSetWorkspaceVersion, TaskBumpWorkspaceVersion:
			v := task.NewVersion
			wsVersion = &v
		}
	}
	if wsVersion != nil {
		return *wsVersion, nil
	}
	if len(memberVersions) > 0 {
		first := memberVersions[0]
		for _, v := range memberVersions[1:] {
			if !v.Equal(first) {
				return t.packages.RootVersion()
			}
		}
		return first, nil
	}
	return t.packages.RootVersion()
}

// RunAll executes the plan in insertion order, skipping cleanup tasks.
// Local tasks complete immediately; spawned tasks record their handle for
// JoinAll. The first failure aborts with an ExecutionError.
func (t *Tasks) RunAll() error {
	for _, label := range t.order {
		if _, done := t.completed[label]; done {
			continue
		}
		task := t.byLabel[label]
		if task.RunAfterCompleted() {
			continue
		}
		handle, err := t.runTask(task)
		if err != nil {
			return t.failure(task, err, "")
		}
		if handle != nil {
			t.handles[label] = handle
			t.logger.WithTask(label).Debug("task spawned")
			continue
		}
		t.markCompleted(label)
		t.logger.WithTask(label).Debug("task completed")
	}
	return nil
}

// JoinAll waits for every spawned task, accepting completions in whatever
// order the processes finish. A non-zero exit aborts immediately with the
// failing task's stderr and the completed/incomplete partition at that
// moment. Afterwards only cleanup tasks remain incomplete.
func (t *Tasks) JoinAll() error {
	for {
		pending := 0
		progress := false
		for _, label := range t.order {
			if _, done := t.completed[label]; done {
				continue
			}
			task := t.byLabel[label]
			if task.RunAfterCompleted() {
				continue
			}
			handle, ok := t.handles[label]
			if !ok {
				// Never spawned; nothing to join.
				continue
			}
			finished, err := handle.Poll()
			if !finished {
				pending++
				continue
			}
			if err != nil {
				return t.failure(task, errors.Wrap(err, "process exited with failure"), handle.Stderr())
			}
			t.markCompleted(label)
			t.logger.WithTask(label).Debug("task joined")
			progress = true
		}
		if pending == 0 {
			return nil
		}
		if !progress {
			time.Sleep(pollInterval)
		}
	}
}

// RunCleanupTasks executes cleanup tasks in insertion order. Call only
// after JoinAll so a dry-run tag is never deleted before its push joined.
func (t *Tasks) RunCleanupTasks() error {
	for _, label := range t.order {
		if _, done := t.completed[label]; done {
			continue
		}
		task := t.byLabel[label]
		if !task.RunAfterCompleted() {
			continue
		}
		if _, err := t.runTask(task); err != nil {
			return t.failure(task, err, "")
		}
		t.markCompleted(label)
		t.logger.WithTask(label).Debug("cleanup task completed")
	}
	return nil
}

// runTask executes one task. A non-nil handle means the task spawned a
// process and completes in JoinAll.
func (t *Tasks) runTask(task Task) (*proc.Handle, error) {
	switch task.Kind {
	case TaskDisplayVersion:
		p, err := t.packages.Member(task.Package)
		if err != nil {
			return nil, err
		}
		if task.Package == t.packages.RootName {
			fmt.Fprintln(t.out, p.Version)
		} else {
			fmt.Fprintf(t.out, "%s %s\n", p.Name, p.Version)
		}
		return nil, nil
	case TaskDisplayTree:
		fmt.Fprint(t.out, t.packages.Tree())
		return nil, nil
	case TaskSetVersion, TaskBumpVersion:
		return nil, t.packages.SetMemberVersion(task.Package, task.NewVersion)
	case TaskSetWorkspaceVersion, TaskBumpWorkspaceVersion:
		return nil, t.packages.SetWorkspaceVersion(task.NewVersion)
	case TaskWriteManifest:
		return nil, t.packages.WriteManifest(task.Package)
	case TaskGitStash:
		if task.Stash == StashRestore {
			return nil, t.git.StashPop()
		}
		return nil, t.git.StashPush()
	case TaskGitSwitchBranch:
		return nil, t.git.SwitchBranch(task.ToBranch)
	case TaskGitAdd:
		return nil, t.git.Add(task.Paths...)
	case TaskGitCommit:
		return nil, t.git.Commit(task.Message, task.DryRun)
	case TaskGitTag:
		return nil, t.git.Tag(task.Tag)
	case TaskGitDeleteTag:
		return nil, t.git.DeleteTag(task.Tag)
	case TaskGitPush:
		return t.git.PushTag(task.Remote, task.Tag, task.DryRun)
	case TaskRegenerateLockfile:
		return nil, t.tool.GenerateLockfile(t.packages.RootManifestPath)
	case TaskPublish:
		return t.tool.Publish(buildtool.PublishOptions{
			DryRun:       task.DryRun,
			AllowDirty:   task.AllowDirty,
			ManifestPath: t.packages.RootManifestPath,
		})
	default:
		return nil, errors.NewValidation("task", task.Kind, "unknown task kind")
	}
}

// failure builds the typed error carrying the partition at failure time.
func (t *Tasks) failure(task Task, cause error, output string) error {
	err := &ExecutionError{
		TaskLabel:  task.String(),
		Output:     output,
		Completed:  t.Completed(),
		Incomplete: t.Incomplete(),
		cause:      cause,
	}
	t.logger.WithTask(err.TaskLabel).Error("task failed",
		"completed", len(err.Completed), "incomplete", len(err.Incomplete))
	return err
}

// Render returns the plan with completion markers for display.
func (t *Tasks) Render() string {
	var b strings.Builder
	b.WriteString(planStyle.Render("Tasks:"))
	b.WriteString("\n")
	for _, label := range t.order {
		if _, done := t.completed[label]; done {
			fmt.Fprintf(&b, "  %s %s\n", doneStyle.Render("✓"), label)
		} else {
			fmt.Fprintf(&b, "  %s %s\n", pendingStyle.Render("•"), label)
		}
	}
	return b.String()
}

// ExecutionError reports a failed task together with the plan partition at
// the moment of failure.
type ExecutionError struct {
	// TaskLabel identifies the failed task.
	TaskLabel string
	// Output is the captured stderr of a spawned task, if any.
	Output string
	// Completed are the tasks that finished before the failure.
	Completed []Task
	// Incomplete are the tasks that had not finished.
	Incomplete []Task

	cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("task %q failed", e.TaskLabel)
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.Output != "" {
		msg = fmt.Sprintf("%s\noutput: %s", msg, strings.TrimSpace(e.Output))
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return errors.ErrTaskFailed
}
