package workspace

import (
	"sort"

	"github.com/gobwas/glob"

	"github.com/wrenware/relver/internal/errors"
)

// Mode is the base set a selection starts from.
type Mode int

const (
	// ModeRoot selects only the root package.
	ModeRoot Mode = iota
	// ModeAll selects every member.
	ModeAll
	// ModeDefault selects the declared default members, falling back to
	// every member when none are declared.
	ModeDefault
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeRoot:
		return "root"
	case ModeAll:
		return "all"
	case ModeDefault:
		return "default-members"
	default:
		return "unknown"
	}
}

// Selection describes which packages a release operates on. Include
// patterns add packages beyond the base set; exclude patterns always win.
type Selection struct {
	Mode    Mode
	Include []string
	Exclude []string
}

// Partition splits the workspace members into included and excluded sets.
// Every member lands in exactly one set. An empty included set is an
// error.
func (s Selection) Partition(ps *Packages) (included, excluded []*Package, err error) {
	includeGlobs, err := compilePatterns(s.Include)
	if err != nil {
		return nil, nil, errors.NewSelectionError("invalid include pattern", err).
			WithMode(s.Mode.String()).WithPatterns(s.Include)
	}
	excludeGlobs, err := compilePatterns(s.Exclude)
	if err != nil {
		return nil, nil, errors.NewSelectionError("invalid exclude pattern", err).
			WithMode(s.Mode.String()).WithPatterns(s.Exclude)
	}

	base := s.baseSet(ps)
	for _, p := range ps.Members() {
		inBase := base[p.Name]
		isIncluded := matchAny(includeGlobs, p.Name)
		isExcluded := matchAny(excludeGlobs, p.Name)
		if (inBase || isIncluded) && !isExcluded {
			included = append(included, p)
		} else {
			excluded = append(excluded, p)
		}
	}
	sortByName(included)
	sortByName(excluded)

	if len(included) == 0 {
		return nil, nil, errors.NewSelectionError("selection matches no packages", errors.ErrNothingSelected).
			WithMode(s.Mode.String())
	}
	return included, excluded, nil
}

// baseSet returns the names selected before include/exclude modifiers.
func (s Selection) baseSet(ps *Packages) map[string]bool {
	base := make(map[string]bool)
	switch s.Mode {
	case ModeAll:
		for _, p := range ps.Members() {
			base[p.Name] = true
		}
	case ModeDefault:
		defaults := ps.DefaultMembers()
		if len(defaults) == 0 {
			for _, p := range ps.Members() {
				base[p.Name] = true
			}
			break
		}
		for _, name := range defaults {
			base[name] = true
		}
	default:
		if ps.RootName != "" {
			base[ps.RootName] = true
		}
	}
	return base
}

func compilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func sortByName(pkgs []*Package) {
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
}
