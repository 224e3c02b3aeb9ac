package workspace

import (
	"testing"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/semver"
)

func selectionWorkspace() *Packages {
	ps := NewPackages("/ws", "/ws/Cargo.toml", "/ws/Cargo.lock")
	for _, name := range []string{"core", "client", "server", "tools"} {
		ps.AddMember(&Package{Name: name, Version: semver.MustParse("0.1.0"), Source: SourceOwn})
	}
	ps.AddMember(&Package{Name: "root", Version: semver.MustParse("1.0.0"), Source: SourceOwn})
	ps.RootName = "root"
	ps.AddDefaultMember("core")
	ps.AddDefaultMember("tools")
	return ps
}

func names(pkgs []*Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func equalNames(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPartitionModes(t *testing.T) {
	ps := selectionWorkspace()

	tests := []struct {
		name         string
		sel          Selection
		wantIncluded []string
	}{
		{"root only", Selection{Mode: ModeRoot}, []string{"root"}},
		{"all members", Selection{Mode: ModeAll}, []string{"client", "core", "root", "server", "tools"}},
		{"default members", Selection{Mode: ModeDefault}, []string{"core", "tools"}},
		{"include adds outside base", Selection{Mode: ModeRoot, Include: []string{"client"}}, []string{"client", "root"}},
		{"exclude wins over include", Selection{Mode: ModeAll, Include: []string{"core"}, Exclude: []string{"core"}}, []string{"client", "root", "server", "tools"}},
		{"glob include", Selection{Mode: ModeRoot, Include: []string{"c*"}}, []string{"client", "core", "root"}},
		{"glob exclude", Selection{Mode: ModeAll, Exclude: []string{"s*"}}, []string{"client", "core", "root", "tools"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			included, excluded, err := tt.sel.Partition(ps)
			if err != nil {
				t.Fatalf("Partition: %v", err)
			}
			if got := names(included); !equalNames(got, tt.wantIncluded...) {
				t.Errorf("included = %v, want %v", got, tt.wantIncluded)
			}
			// Totality: every member appears in exactly one partition.
			if len(included)+len(excluded) != ps.Len() {
				t.Errorf("partition not total: %d + %d != %d", len(included), len(excluded), ps.Len())
			}
			seen := map[string]bool{}
			for _, p := range append(append([]*Package{}, included...), excluded...) {
				if seen[p.Name] {
					t.Errorf("package %s appears twice", p.Name)
				}
				seen[p.Name] = true
			}
		})
	}
}

func TestPartitionDefaultFallsBackToAll(t *testing.T) {
	ps := NewPackages("/ws", "/ws/Cargo.toml", "/ws/Cargo.lock")
	ps.AddMember(&Package{Name: "a", Version: semver.MustParse("0.1.0"), Source: SourceOwn})
	ps.AddMember(&Package{Name: "b", Version: semver.MustParse("0.1.0"), Source: SourceOwn})

	included, _, err := Selection{Mode: ModeDefault}.Partition(ps)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if !equalNames(names(included), "a", "b") {
		t.Errorf("included = %v, want all members", names(included))
	}
}

func TestPartitionEmptySelection(t *testing.T) {
	ps := selectionWorkspace()

	_, _, err := Selection{Mode: ModeAll, Exclude: []string{"*"}}.Partition(ps)
	if !errors.Is(err, errors.ErrNothingSelected) {
		t.Errorf("got %v, want ErrNothingSelected", err)
	}

	// Virtual workspace with no root package and no filters.
	virtual := NewPackages("/ws", "/ws/Cargo.toml", "/ws/Cargo.lock")
	virtual.AddMember(&Package{Name: "a", Version: semver.MustParse("0.1.0"), Source: SourceOwn})
	_, _, err = Selection{Mode: ModeRoot}.Partition(virtual)
	if !errors.Is(err, errors.ErrNothingSelected) {
		t.Errorf("virtual workspace: got %v, want ErrNothingSelected", err)
	}
}

func TestPartitionInvalidPattern(t *testing.T) {
	ps := selectionWorkspace()
	_, _, err := Selection{Mode: ModeAll, Include: []string{"["}}.Partition(ps)
	if err == nil {
		t.Fatal("expected error for invalid glob pattern")
	}
	var se *errors.SelectionError
	if !errors.As(err, &se) {
		t.Errorf("expected SelectionError, got %T", err)
	}
}
