package semver

import (
	"fmt"

	"github.com/wrenware/relver/internal/errors"
)

// Bump identifies a version bump operation.
type Bump int

const (
	// BumpPatch increments the patch level, or finalizes a prerelease.
	BumpPatch Bump = iota
	// BumpMinor increments the minor level and zeroes patch.
	BumpMinor
	// BumpMajor increments the major level and zeroes minor and patch.
	BumpMajor
	// BumpPre increments the trailing numeric prerelease identifier.
	BumpPre
)

// String returns the lowercase bump name.
func (b Bump) String() string {
	switch b {
	case BumpPatch:
		return "patch"
	case BumpMinor:
		return "minor"
	case BumpMajor:
		return "major"
	case BumpPre:
		return "pre"
	default:
		return "unknown"
	}
}

// ParseBump maps a bump name to its Bump value.
func ParseBump(s string) (Bump, error) {
	switch s {
	case "patch":
		return BumpPatch, nil
	case "minor":
		return BumpMinor, nil
	case "major":
		return BumpMajor, nil
	case "pre":
		return BumpPre, nil
	default:
		return 0, errors.NewValidation("bump", s, fmt.Sprintf("unknown bump kind %q", s))
	}
}

// BumpOptions adjust how a bump derives the new version.
type BumpOptions struct {
	// Pre replaces the prerelease segment after the bump step. Ignored for
	// BumpPre, which derives its own segment.
	Pre *Prerelease
	// Build replaces the build metadata after the bump step.
	Build *string
	// Force bypasses the prerelease guard on minor/major bumps and the
	// final must-increase check.
	Force bool
}

// BumpVersion derives the next version from v.
//
// Patch bumps on a prerelease only clear the prerelease, finalizing the
// release. Minor and major bumps refuse a non-empty prerelease unless
// forced. Pre bumps require an existing prerelease whose last identifier is
// numeric. Unless forced, the result must compare strictly greater than v.
func (v Version) BumpVersion(kind Bump, opts BumpOptions) (Version, error) {
	next := v
	next.Pre = append(Prerelease(nil), v.Pre...)

	switch kind {
	case BumpPatch:
		if next.Pre.IsEmpty() {
			next.Patch++
		} else {
			next.Pre = nil
		}
	case BumpMinor:
		if !next.Pre.IsEmpty() && !opts.Force {
			return Version{}, errors.NewVersionError("prerelease is not empty", errors.ErrPrereleaseNotEmpty).
				WithVersion(v.String()).
				WithBump(kind.String()).
				WithHelp("use --force-version to bump anyway")
		}
		next.Pre = nil
		next.Minor++
		next.Patch = 0
	case BumpMajor:
		if !next.Pre.IsEmpty() && !opts.Force {
			return Version{}, errors.NewVersionError("prerelease is not empty", errors.ErrPrereleaseNotEmpty).
				WithVersion(v.String()).
				WithBump(kind.String()).
				WithHelp("use --force-version to bump anyway")
		}
		next.Pre = nil
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case BumpPre:
		bumped, err := incrementPrerelease(next.Pre)
		if err != nil {
			return Version{}, errors.Wrapf(err, "bumping prerelease of %q", v.String())
		}
		next.Pre = bumped
	default:
		return Version{}, errors.NewValidation("bump", kind, "unknown bump kind")
	}

	if opts.Pre != nil && kind != BumpPre {
		next.Pre = append(Prerelease(nil), (*opts.Pre)...)
	}
	if opts.Build != nil {
		next.Build = *opts.Build
	}

	if !opts.Force && next.Compare(v) <= 0 {
		return Version{}, errors.NewVersionError(
			fmt.Sprintf("%s does not increase %s", next, v), errors.ErrVersionNotIncreased).
			WithVersion(v.String()).
			WithBump(kind.String()).
			WithHelp("use --force-version to set it anyway")
	}
	return next, nil
}

// incrementPrerelease increments the trailing numeric identifier of a
// non-empty prerelease sequence.
func incrementPrerelease(pre Prerelease) (Prerelease, error) {
	if pre.IsEmpty() {
		return nil, errors.NewVersionError("prerelease not set", errors.ErrPrereleaseNotSet).
			WithHelp("set a prerelease with --pre or the set command")
	}
	last := pre[len(pre)-1]
	if last.Kind() != Numeric {
		return nil, errors.NewVersionError(
			fmt.Sprintf("last prerelease identifier %q is not numeric", last), nil).
			WithHelp("only a trailing numeric identifier can be incremented")
	}
	bumped, err := ParseIdentifier(fmt.Sprintf("%d", last.Num()+1))
	if err != nil {
		return nil, err
	}
	out := append(Prerelease(nil), pre[:len(pre)-1]...)
	return append(out, bumped), nil
}
