// Package errors provides centralized error definitions and custom error types
// for relver.
//
// # Overview
//
// This package serves as the single source of truth for error handling across
// the codebase. It provides:
//
//   - Sentinel errors for common failure conditions
//   - Custom error types with structured context (version, git, manifest,
//     selection)
//   - Error classification (severity, user-facing)
//   - Re-exports of standard library helpers so callers only import this
//     package
//
// # Usage
//
// Wrap errors with context as they propagate up:
//
//	if err := file.Load(); err != nil {
//	    return errors.Wrap(err, "loading root manifest")
//	}
//
// Check for sentinel conditions with Is:
//
//	if errors.Is(err, errors.ErrSetByWorkspace) {
//	    // the version belongs to the workspace declaration
//	}
//
// Attach structured context with the With* builders:
//
//	return errors.NewGitError("push failed", err).
//	    WithRepository(root).
//	    WithGitOutput(string(output))
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only need this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Severity Levels
// -----------------------------------------------------------------------------

// Severity indicates how serious an error is.
type Severity int

const (
	// SeverityInfo is for informational errors that don't affect operation.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors that may affect operation but are recoverable.
	SeverityWarning
	// SeverityError is for errors that prevent an operation from completing.
	SeverityError
	// SeverityCritical is for errors that leave the workspace in a bad state.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Version errors.
var (
	// ErrPrereleaseNotEmpty indicates a minor or major bump was requested on a
	// version that still carries a prerelease segment.
	ErrPrereleaseNotEmpty = errors.New("prerelease is not empty")

	// ErrPrereleaseNotSet indicates a prerelease bump was requested on a
	// version without a prerelease segment.
	ErrPrereleaseNotSet = errors.New("prerelease not set")

	// ErrVersionNotIncreased indicates an unforced bump produced a version
	// that does not compare greater than the input.
	ErrVersionNotIncreased = errors.New("new version is not greater than the current version")

	// ErrEmptyIdentifier indicates an empty dot-separated identifier.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")

	// ErrInvalidIdentifier indicates an identifier containing a character
	// outside [0-9A-Za-z-].
	ErrInvalidIdentifier = errors.New("invalid character in identifier")
)

// Workspace and selection errors.
var (
	// ErrNoRootVersion indicates no root version could be derived for the
	// workspace.
	ErrNoRootVersion = errors.New("workspace has no root version")

	// ErrPackageNotFound indicates a named package is not a workspace member.
	ErrPackageNotFound = errors.New("package not found in workspace")

	// ErrNothingSelected indicates the selection filters excluded every
	// package.
	ErrNothingSelected = errors.New("no packages selected")

	// ErrNoWorkspaceVersion indicates the root manifest declares no
	// workspace.package.version to modify.
	ErrNoWorkspaceVersion = errors.New("expected 'workspace.package.version' to exist")
)

// Manifest errors.
var (
	// ErrManifestNotLoaded indicates a read or write against an unloaded
	// manifest handle.
	ErrManifestNotLoaded = errors.New("manifest file has not been loaded")

	// ErrVersionNotFound indicates the manifest has no version at the
	// requested location.
	ErrVersionNotFound = errors.New("no version found in manifest")

	// ErrSetByWorkspace indicates the package inherits its version from the
	// workspace declaration and cannot be written directly.
	ErrSetByWorkspace = errors.New("version is set by the workspace")
)

// Git and execution errors.
var (
	// ErrDirtyWorktree indicates uncommitted changes block a git operation.
	ErrDirtyWorktree = errors.New("worktree has uncommitted changes")

	// ErrNoRemotes indicates no usable git remote was discovered.
	ErrNoRemotes = errors.New("no git remotes found")

	// ErrTaskFailed indicates a release task returned a failure.
	ErrTaskFailed = errors.New("task failed")
)

// -----------------------------------------------------------------------------
// Base Error Type
// -----------------------------------------------------------------------------

// baseError provides common fields for custom error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error implements the error interface.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying cause.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error's severity level.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether this error should be shown to users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Version Errors
// -----------------------------------------------------------------------------

// VersionError represents an error in version parsing or bumping.
type VersionError struct {
	baseError
	// Version is the version string the operation started from.
	Version string
	// Bump is the bump kind that was requested, if any.
	Bump string
	// Help is a short hint shown to the user alongside the message.
	Help string
}

// NewVersionError creates a new VersionError.
func NewVersionError(message string, cause error) *VersionError {
	return &VersionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithVersion adds the source version to the error.
func (e *VersionError) WithVersion(version string) *VersionError {
	e.Version = version
	return e
}

// WithBump adds the requested bump kind to the error.
func (e *VersionError) WithBump(bump string) *VersionError {
	e.Bump = bump
	return e
}

// WithHelp adds a user hint to the error.
func (e *VersionError) WithHelp(help string) *VersionError {
	e.Help = help
	return e
}

// Error implements the error interface with version context.
func (e *VersionError) Error() string {
	msg := e.baseError.Error()
	var context []string
	if e.Version != "" {
		context = append(context, fmt.Sprintf("version=%s", e.Version))
	}
	if e.Bump != "" {
		context = append(context, fmt.Sprintf("bump=%s", e.Bump))
	}
	if len(context) > 0 {
		msg = fmt.Sprintf("[%s] %s", joinContext(context), msg)
	}
	if e.Help != "" {
		msg = fmt.Sprintf("%s (help: %s)", msg, e.Help)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Git Errors
// -----------------------------------------------------------------------------

// GitError represents a git operation failure.
type GitError struct {
	baseError
	// Branch is the branch involved, if any.
	Branch string
	// Repository is the repository path.
	Repository string
	// GitOutput is the captured output from the git command.
	GitOutput string
}

// NewGitError creates a new GitError.
func NewGitError(message string, cause error) *GitError {
	return &GitError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithBranch adds branch context to the error.
func (e *GitError) WithBranch(branch string) *GitError {
	e.Branch = branch
	return e
}

// WithRepository adds repository context to the error.
func (e *GitError) WithRepository(repo string) *GitError {
	e.Repository = repo
	return e
}

// WithGitOutput adds git command output to the error.
func (e *GitError) WithGitOutput(output string) *GitError {
	e.GitOutput = output
	return e
}

// Error implements the error interface with git context.
func (e *GitError) Error() string {
	msg := e.baseError.Error()
	var context []string
	if e.Branch != "" {
		context = append(context, fmt.Sprintf("branch=%s", e.Branch))
	}
	if e.Repository != "" {
		context = append(context, fmt.Sprintf("repo=%s", e.Repository))
	}
	if len(context) > 0 {
		msg = fmt.Sprintf("[%s] %s", joinContext(context), msg)
	}
	if e.GitOutput != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, e.GitOutput)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Manifest Errors
// -----------------------------------------------------------------------------

// ManifestError represents a manifest read, parse, or write failure.
type ManifestError struct {
	baseError
	// Path is the manifest file path.
	Path string
	// Location is the version location involved, if any.
	Location string
}

// NewManifestError creates a new ManifestError.
func NewManifestError(message string, cause error) *ManifestError {
	return &ManifestError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the manifest path to the error.
func (e *ManifestError) WithPath(path string) *ManifestError {
	e.Path = path
	return e
}

// WithLocation adds the version location to the error.
func (e *ManifestError) WithLocation(location string) *ManifestError {
	e.Location = location
	return e
}

// Error implements the error interface with manifest context.
func (e *ManifestError) Error() string {
	msg := e.baseError.Error()
	var context []string
	if e.Path != "" {
		context = append(context, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Location != "" {
		context = append(context, fmt.Sprintf("location=%s", e.Location))
	}
	if len(context) > 0 {
		msg = fmt.Sprintf("[%s] %s", joinContext(context), msg)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Selection Errors
// -----------------------------------------------------------------------------

// SelectionError represents an invalid package selection.
type SelectionError struct {
	baseError
	// Mode is the selection mode in effect.
	Mode string
	// Patterns are the filter patterns involved, if any.
	Patterns []string
}

// NewSelectionError creates a new SelectionError.
func NewSelectionError(message string, cause error) *SelectionError {
	return &SelectionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithMode adds the selection mode to the error.
func (e *SelectionError) WithMode(mode string) *SelectionError {
	e.Mode = mode
	return e
}

// WithPatterns adds the filter patterns to the error.
func (e *SelectionError) WithPatterns(patterns []string) *SelectionError {
	e.Patterns = patterns
	return e
}

// Error implements the error interface with selection context.
func (e *SelectionError) Error() string {
	msg := e.baseError.Error()
	if e.Mode != "" {
		msg = fmt.Sprintf("[mode=%s] %s", e.Mode, msg)
	}
	return msg
}

// -----------------------------------------------------------------------------
// Semantic Error Types
// -----------------------------------------------------------------------------

// NotFoundError indicates a requested resource doesn't exist.
type NotFoundError struct {
	ResourceType string
	ResourceID   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// NewNotFound creates a NotFoundError.
func NewNotFound(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceID: resourceID}
}

// ValidationError indicates invalid input or state.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidation creates a ValidationError.
func NewValidation(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// severityProvider is implemented by errors that carry a severity.
type severityProvider interface {
	Severity() Severity
}

// userFacingProvider is implemented by errors that know their audience.
type userFacingProvider interface {
	IsUserFacing() bool
}

// GetSeverity returns the severity of an error, defaulting to SeverityError.
func GetSeverity(err error) Severity {
	var sp severityProvider
	if As(err, &sp) {
		return sp.Severity()
	}
	return SeverityError
}

// IsUserFacing checks if an error should be shown to users.
func IsUserFacing(err error) bool {
	var up userFacingProvider
	if As(err, &up) {
		return up.IsUserFacing()
	}
	return false
}

// -----------------------------------------------------------------------------
// Utility Functions
// -----------------------------------------------------------------------------

// Wrap wraps an error with a message, preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// joinContext joins context parts with commas.
func joinContext(parts []string) string {
	result := ""
	for i, p := range parts {
		if i > 0 {
			result += ", "
		}
		result += p
	}
	return result
}
