// Package manifest reads and writes TOML package manifests. A File handle
// has an explicit unloaded/loaded state so callers get an error, never a
// panic, when touching a manifest that was never read.
package manifest

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/semver"
)

// File is a handle over one TOML manifest on an afero filesystem.
type File struct {
	fs     afero.Fs
	path   string
	doc    map[string]any
	loaded bool
}

// NewFile creates an unloaded handle. Call Load before reading or writing.
func NewFile(fs afero.Fs, path string) *File {
	return &File{fs: fs, path: path}
}

// Path returns the manifest path.
func (f *File) Path() string {
	return f.path
}

// Loaded reports whether the manifest contents have been read.
func (f *File) Loaded() bool {
	return f.loaded
}

// Load reads and parses the manifest. Loading twice re-reads from disk.
func (f *File) Load() error {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return errors.NewManifestError("reading manifest", err).WithPath(f.path)
	}
	doc := make(map[string]any)
	if err := toml.Unmarshal(data, &doc); err != nil {
		return errors.NewManifestError("parsing manifest", err).WithPath(f.path)
	}
	f.doc = doc
	f.loaded = true
	return nil
}

// Write serializes the document back to the manifest path.
func (f *File) Write() error {
	if !f.loaded {
		return errors.NewManifestError("writing manifest", errors.ErrManifestNotLoaded).WithPath(f.path)
	}
	data, err := toml.Marshal(f.doc)
	if err != nil {
		return errors.NewManifestError("serializing manifest", err).WithPath(f.path)
	}
	if err := afero.WriteFile(f.fs, f.path, data, 0o644); err != nil {
		return errors.NewManifestError("writing manifest", err).WithPath(f.path)
	}
	return nil
}

// Version reads the version at the given location.
//
// A package.version of the form { workspace = true } is reported as
// errors.ErrSetByWorkspace so callers can classify the package instead of
// failing outright.
func (f *File) Version(loc Location) (semver.Version, error) {
	if !f.loaded {
		return semver.Version{}, errors.NewManifestError("reading version", errors.ErrManifestNotLoaded).
			WithPath(f.path).WithLocation(loc.String())
	}
	table, ok := f.table(loc.keys()...)
	if !ok {
		return semver.Version{}, errors.NewManifestError("reading version", errors.ErrVersionNotFound).
			WithPath(f.path).WithLocation(loc.String())
	}
	raw, ok := table["version"]
	if !ok {
		return semver.Version{}, errors.NewManifestError("reading version", errors.ErrVersionNotFound).
			WithPath(f.path).WithLocation(loc.String())
	}
	switch val := raw.(type) {
	case string:
		v, err := semver.Parse(val)
		if err != nil {
			return semver.Version{}, errors.NewManifestError("parsing version", err).
				WithPath(f.path).WithLocation(loc.String())
		}
		return v, nil
	case map[string]any:
		if ws, ok := val["workspace"].(bool); ok && ws {
			return semver.Version{}, errors.NewManifestError("reading version", errors.ErrSetByWorkspace).
				WithPath(f.path).WithLocation(loc.String())
		}
		return semver.Version{}, errors.NewManifestError("version is not a string", errors.ErrVersionNotFound).
			WithPath(f.path).WithLocation(loc.String())
	default:
		return semver.Version{}, errors.NewManifestError("version is not a string", errors.ErrVersionNotFound).
			WithPath(f.path).WithLocation(loc.String())
	}
}

// SetVersion replaces the version at the given location in the loaded
// document. It does not write to disk; call Write for that.
func (f *File) SetVersion(loc Location, v semver.Version) error {
	if !f.loaded {
		return errors.NewManifestError("setting version", errors.ErrManifestNotLoaded).
			WithPath(f.path).WithLocation(loc.String())
	}
	table, ok := f.table(loc.keys()...)
	if !ok {
		if loc == LocationWorkspace {
			return errors.NewManifestError("setting version", errors.ErrNoWorkspaceVersion).
				WithPath(f.path).WithLocation(loc.String())
		}
		return errors.NewManifestError("setting version", errors.ErrVersionNotFound).
			WithPath(f.path).WithLocation(loc.String())
	}
	if cur, ok := table["version"].(map[string]any); ok {
		if ws, ok := cur["workspace"].(bool); ok && ws {
			return errors.NewManifestError("setting version", errors.ErrSetByWorkspace).
				WithPath(f.path).WithLocation(loc.String())
		}
	}
	table["version"] = v.String()
	return nil
}

// PackageName returns package.name, or "" when the manifest declares no
// package table.
func (f *File) PackageName() (string, error) {
	if !f.loaded {
		return "", errors.NewManifestError("reading package name", errors.ErrManifestNotLoaded).WithPath(f.path)
	}
	table, ok := f.table("package")
	if !ok {
		return "", nil
	}
	name, _ := table["name"].(string)
	return name, nil
}

// HasPackage reports whether the manifest declares a package table.
func (f *File) HasPackage() bool {
	_, ok := f.table("package")
	return ok
}

// HasWorkspace reports whether the manifest declares a workspace table.
func (f *File) HasWorkspace() bool {
	_, ok := f.table("workspace")
	return ok
}

// WorkspaceMembers returns the workspace.members entries, which may be
// literal paths or glob patterns.
func (f *File) WorkspaceMembers() []string {
	return f.workspaceList("members")
}

// WorkspaceDefaultMembers returns the workspace.default-members entries.
func (f *File) WorkspaceDefaultMembers() []string {
	return f.workspaceList("default-members")
}

func (f *File) workspaceList(key string) []string {
	table, ok := f.table("workspace")
	if !ok {
		return nil
	}
	raw, ok := table[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// table walks nested tables by key path.
func (f *File) table(keys ...string) (map[string]any, bool) {
	if !f.loaded {
		return nil, false
	}
	cur := f.doc
	for _, key := range keys {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
