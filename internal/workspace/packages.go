package workspace

import (
	"sort"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/manifest"
	"github.com/wrenware/relver/internal/semver"
)

// Packages is the discovered workspace: the member set plus the root-level
// facts needed to derive a release version.
type Packages struct {
	// RootDir is the workspace root directory.
	RootDir string
	// RootManifestPath is the path of the root manifest.
	RootManifestPath string
	// LockfilePath is the path of the workspace lockfile.
	LockfilePath string
	// RootName is the root package name, or "" for a virtual workspace.
	RootName string

	members        map[string]*Package
	workspacePkg   *Package
	defaultMembers map[string]struct{}
}

// NewPackages creates an empty workspace model rooted at rootDir.
func NewPackages(rootDir, rootManifestPath, lockfilePath string) *Packages {
	return &Packages{
		RootDir:          rootDir,
		RootManifestPath: rootManifestPath,
		LockfilePath:     lockfilePath,
		members:          make(map[string]*Package),
		defaultMembers:   make(map[string]struct{}),
	}
}

// AddMember registers a member package.
func (ps *Packages) AddMember(p *Package) {
	ps.members[p.Name] = p
}

// SetWorkspaceDeclaration registers the synthetic workspace.package entry.
func (ps *Packages) SetWorkspaceDeclaration(p *Package) {
	ps.workspacePkg = p
}

// AddDefaultMember marks a member as a default member.
func (ps *Packages) AddDefaultMember(name string) {
	ps.defaultMembers[name] = struct{}{}
}

// Member returns the named member package.
func (ps *Packages) Member(name string) (*Package, error) {
	p, ok := ps.members[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "package %q", name)
	}
	return p, nil
}

// Members returns all member packages sorted by name.
func (ps *Packages) Members() []*Package {
	out := make([]*Package, 0, len(ps.members))
	for _, p := range ps.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WorkspaceDeclaration returns the synthetic workspace.package entry, or
// nil when the root manifest declares no workspace version.
func (ps *Packages) WorkspaceDeclaration() *Package {
	return ps.workspacePkg
}

// DefaultMembers returns the declared default member names, sorted.
func (ps *Packages) DefaultMembers() []string {
	out := make([]string, 0, len(ps.defaultMembers))
	for name := range ps.defaultMembers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsDefaultMember reports whether the named package is a default member.
func (ps *Packages) IsDefaultMember(name string) bool {
	_, ok := ps.defaultMembers[name]
	return ok
}

// RootPackage returns the root package, or nil for a virtual workspace.
func (ps *Packages) RootPackage() *Package {
	if ps.RootName == "" {
		return nil
	}
	return ps.members[ps.RootName]
}

// RootVersion derives the version that represents the workspace as a whole.
//
// Precedence: the root package's version, then the workspace-declared
// version, then the single version shared by every member. When members
// disagree and nothing above applies, the workspace has no root version.
func (ps *Packages) RootVersion() (semver.Version, error) {
	if root := ps.RootPackage(); root != nil {
		return root.Version, nil
	}
	if ps.workspacePkg != nil {
		return ps.workspacePkg.Version, nil
	}
	var common *semver.Version
	for _, p := range ps.members {
		if common == nil {
			v := p.Version
			common = &v
			continue
		}
		if !common.Equal(p.Version) {
			return semver.Version{}, errors.Wrap(errors.ErrNoRootVersion,
				"members have differing versions")
		}
	}
	if common == nil {
		return semver.Version{}, errors.Wrap(errors.ErrNoRootVersion, "workspace has no members")
	}
	return *common, nil
}

// SetMemberVersion updates a member's version in memory and in its loaded
// manifest document. Inherited versions must be changed through
// SetWorkspaceVersion.
func (ps *Packages) SetMemberVersion(name string, v semver.Version) error {
	p, err := ps.Member(name)
	if err != nil {
		return err
	}
	if p.Source == SourceInherited {
		return errors.NewManifestError("cannot set an inherited version", errors.ErrSetByWorkspace).
			WithPath(p.ManifestPath).WithLocation(manifest.LocationPackage.String())
	}
	if p.File != nil {
		if err := p.File.SetVersion(manifest.LocationPackage, v); err != nil {
			return err
		}
	}
	p.Version = v
	return nil
}

// SetWorkspaceVersion updates workspace.package.version and the in-memory
// version of every member that inherits it.
func (ps *Packages) SetWorkspaceVersion(v semver.Version) error {
	if ps.workspacePkg == nil {
		return errors.Wrap(errors.ErrNoWorkspaceVersion, "workspace declares no version")
	}
	if ps.workspacePkg.File != nil {
		if err := ps.workspacePkg.File.SetVersion(manifest.LocationWorkspace, v); err != nil {
			return err
		}
	}
	ps.workspacePkg.Version = v
	for _, p := range ps.members {
		if p.Source == SourceInherited {
			p.Version = v
		}
	}
	return nil
}

// WriteManifest flushes the named package's manifest to disk. The synthetic
// workspace name flushes the root manifest. Inherited-version members have
// nothing of their own to write.
func (ps *Packages) WriteManifest(name string) error {
	if name == WorkspacePackageName {
		if ps.workspacePkg == nil || ps.workspacePkg.File == nil {
			return errors.Wrap(errors.ErrNoWorkspaceVersion, "workspace declares no version")
		}
		return ps.workspacePkg.File.Write()
	}
	p, err := ps.Member(name)
	if err != nil {
		return err
	}
	if p.Source == SourceInherited {
		return errors.NewManifestError("cannot write an inherited version", errors.ErrSetByWorkspace).
			WithPath(p.ManifestPath)
	}
	if p.File == nil {
		return errors.NewManifestError("manifest not loaded", errors.ErrManifestNotLoaded).
			WithPath(p.ManifestPath)
	}
	return p.File.Write()
}

// ManifestPaths returns every manifest path the workspace touches, root
// manifest first, members sorted by name.
func (ps *Packages) ManifestPaths() []string {
	paths := []string{ps.RootManifestPath}
	seen := map[string]struct{}{ps.RootManifestPath: {}}
	for _, p := range ps.Members() {
		if _, dup := seen[p.ManifestPath]; dup {
			continue
		}
		seen[p.ManifestPath] = struct{}{}
		paths = append(paths, p.ManifestPath)
	}
	return paths
}

// Len returns the number of member packages.
func (ps *Packages) Len() int {
	return len(ps.members)
}
