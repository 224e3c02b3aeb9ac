// Package semver implements the semantic version algebra used by relver:
// parsing, total ordering, and the bump operations that derive release
// versions.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wrenware/relver/internal/errors"
)

// Version is an immutable semantic version value. Operations return new
// values rather than mutating in place.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	Pre   Prerelease
	Build string
}

// New creates a release version with no prerelease or build metadata.
func New(major, minor, patch uint64) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Parse parses a full semantic version string, including optional
// prerelease and build metadata segments.
func Parse(s string) (Version, error) {
	rest := s
	var build string
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		build = rest[i+1:]
		rest = rest[:i]
		if err := validateBuild(build); err != nil {
			return Version{}, errors.Wrapf(err, "version %q", s)
		}
	}

	var preRaw string
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		preRaw = rest[i+1:]
		rest = rest[:i]
		if preRaw == "" {
			return Version{}, errors.Wrapf(errors.ErrEmptyIdentifier, "version %q", s)
		}
	}

	fields := strings.Split(rest, ".")
	if len(fields) != 3 {
		return Version{}, errors.NewVersionError(
			fmt.Sprintf("expected major.minor.patch, got %q", rest), nil).WithVersion(s)
	}
	nums := make([]uint64, 3)
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return Version{}, errors.NewVersionError(
				fmt.Sprintf("invalid version field %q", f), err).WithVersion(s)
		}
		nums[i] = n
	}

	pre, err := ParsePrerelease(preRaw)
	if err != nil {
		return Version{}, errors.Wrapf(err, "version %q", s)
	}

	return Version{
		Major: nums[0],
		Minor: nums[1],
		Patch: nums[2],
		Pre:   pre,
		Build: build,
	}, nil
}

// MustParse parses a version string and panics on error. For tests and
// compile-time constants only.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version in canonical form.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if !v.Pre.IsEmpty() {
		b.WriteByte('-')
		b.WriteString(v.Pre.String())
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// IsPrerelease reports whether the version carries a prerelease segment.
func (v Version) IsPrerelease() bool {
	return !v.Pre.IsEmpty()
}

// Compare provides the SemVer total order. Build metadata never
// participates. A version with a prerelease sorts below the same core
// version without one. Returns -1, 0, or 1.
func (v Version) Compare(other Version) int {
	if c := compareUint(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareUint(v.Patch, other.Patch); c != 0 {
		return c
	}
	switch {
	case v.Pre.IsEmpty() && other.Pre.IsEmpty():
		return 0
	case v.Pre.IsEmpty():
		return 1
	case other.Pre.IsEmpty():
		return -1
	default:
		return v.Pre.Compare(other.Pre)
	}
}

// Equal reports whether two versions compare equal. Build metadata is
// ignored, matching the ordering rules.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func validateBuild(s string) error {
	if s == "" {
		return errors.ErrEmptyIdentifier
	}
	for _, field := range strings.Split(s, ".") {
		if field == "" {
			return errors.Wrap(errors.ErrEmptyIdentifier, "build metadata")
		}
		for i, r := range field {
			switch {
			case r >= '0' && r <= '9':
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			default:
				return errors.Wrapf(errors.ErrInvalidIdentifier,
					"build metadata %q: character %q at position %d", field, r, i)
			}
		}
	}
	return nil
}
