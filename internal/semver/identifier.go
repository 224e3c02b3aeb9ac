package semver

import (
	"strconv"
	"strings"

	"github.com/wrenware/relver/internal/errors"
)

// IdentifierKind distinguishes the two identifier forms of a prerelease
// segment.
type IdentifierKind int

const (
	// Numeric identifiers contain only digits and compare numerically.
	Numeric IdentifierKind = iota
	// Alphanumeric identifiers contain at least one letter or hyphen and
	// compare by ASCII bytes.
	Alphanumeric
)

// String returns the identifier kind name.
func (k IdentifierKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Alphanumeric:
		return "alphanumeric"
	default:
		return "unknown"
	}
}

// Identifier is a single dot-separated field of a prerelease segment. The
// zero value is not valid; construct identifiers through ParseIdentifier.
type Identifier struct {
	kind IdentifierKind
	raw  string
	num  uint64
}

// ParseIdentifier parses a single prerelease identifier. Empty input and
// characters outside [0-9A-Za-z-] are errors; the invalid-character error
// reports the rune and its 0-based position.
func ParseIdentifier(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, errors.ErrEmptyIdentifier
	}
	allDigits := true
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			allDigits = false
		default:
			return Identifier{}, errors.Wrapf(errors.ErrInvalidIdentifier,
				"identifier %q: character %q at position %d", s, r, i)
		}
	}
	if allDigits {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Identifier{}, errors.Wrapf(err, "numeric identifier %q", s)
		}
		return Identifier{kind: Numeric, raw: s, num: n}, nil
	}
	return Identifier{kind: Alphanumeric, raw: s}, nil
}

// Kind returns whether the identifier is Numeric or Alphanumeric.
func (id Identifier) Kind() IdentifierKind {
	return id.kind
}

// Num returns the numeric value. Only meaningful for Numeric identifiers.
func (id Identifier) Num() uint64 {
	return id.num
}

// String returns the identifier text.
func (id Identifier) String() string {
	return id.raw
}

// Compare orders identifiers per SemVer: numeric identifiers compare by
// value and sort below every alphanumeric identifier; alphanumeric
// identifiers compare by ASCII bytes. Returns -1, 0, or 1.
func (id Identifier) Compare(other Identifier) int {
	switch {
	case id.kind == Numeric && other.kind == Numeric:
		return compareUint(id.num, other.num)
	case id.kind == Numeric:
		return -1
	case other.kind == Numeric:
		return 1
	default:
		return strings.Compare(id.raw, other.raw)
	}
}

// Prerelease is an ordered sequence of identifiers. Empty means no
// prerelease segment.
type Prerelease []Identifier

// ParsePrerelease parses a dot-separated prerelease segment. An empty string
// yields an empty Prerelease.
func ParsePrerelease(s string) (Prerelease, error) {
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ".")
	pre := make(Prerelease, 0, len(fields))
	for _, f := range fields {
		id, err := ParseIdentifier(f)
		if err != nil {
			return nil, errors.Wrapf(err, "prerelease %q", s)
		}
		pre = append(pre, id)
	}
	return pre, nil
}

// IsEmpty reports whether the prerelease has no identifiers.
func (p Prerelease) IsEmpty() bool {
	return len(p) == 0
}

// String joins the identifiers with dots.
func (p Prerelease) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = id.raw
	}
	return strings.Join(parts, ".")
}

// Compare orders prerelease sequences element-wise. When one sequence is a
// strict prefix of the other, the longer sequence is greater. Emptiness
// handling against a release version lives in Version.Compare.
func (p Prerelease) Compare(other Prerelease) int {
	for i := 0; i < len(p) && i < len(other); i++ {
		if c := p[i].Compare(other[i]); c != 0 {
			return c
		}
	}
	return compareUint(uint64(len(p)), uint64(len(other)))
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
