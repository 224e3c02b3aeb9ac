// Package proc wraps spawned commands in pollable handles. The release
// engine starts pushes and publishes concurrently and joins them later
// without blocking on any particular one.
package proc

import (
	"bytes"
	"os/exec"

	"github.com/wrenware/relver/internal/errors"
)

// Handle is a running command plus its captured stderr. Completion is
// posted once by a waiter goroutine; Poll and Wait may be called any number
// of times afterwards.
type Handle struct {
	label    string
	cmd      *exec.Cmd
	stderr   bytes.Buffer
	done     chan error
	finished bool
	result   error
}

// Start launches the command and begins waiting for it in the background.
// Stderr is captured on the handle unless the command already set one.
func Start(label string, cmd *exec.Cmd) (*Handle, error) {
	h := &Handle{
		label: label,
		cmd:   cmd,
		done:  make(chan error, 1),
	}
	if cmd.Stderr == nil {
		cmd.Stderr = &h.stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", label)
	}
	go func() {
		h.done <- cmd.Wait()
	}()
	return h, nil
}

// Completed builds an already-finished handle with a fixed result. For
// test doubles standing in for real spawned commands.
func Completed(label string, result error, stderr string) *Handle {
	h := &Handle{
		label:    label,
		done:     make(chan error, 1),
		finished: true,
		result:   result,
	}
	h.stderr.WriteString(stderr)
	return h
}

// Label returns the display label the handle was started with.
func (h *Handle) Label() string {
	return h.label
}

// Poll checks for completion without blocking. The second return is the
// command's exit error once finished. Not safe for concurrent use; the
// engine polls from a single goroutine.
func (h *Handle) Poll() (bool, error) {
	if h.finished {
		return true, h.result
	}
	select {
	case err := <-h.done:
		h.finished = true
		h.result = err
		return true, err
	default:
		return false, nil
	}
}

// Wait blocks until the command finishes and returns its exit error.
func (h *Handle) Wait() error {
	if h.finished {
		return h.result
	}
	err := <-h.done
	h.finished = true
	h.result = err
	return err
}

// Stderr returns the captured stderr so far.
func (h *Handle) Stderr() string {
	return h.stderr.String()
}

// ExitCode returns the process exit code, or -1 before completion.
func (h *Handle) ExitCode() int {
	if !h.finished || h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}
