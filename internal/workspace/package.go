// Package workspace models a multi-package build workspace: its members,
// where each member's version lives, and which members a release operates
// on.
package workspace

import (
	"fmt"

	"github.com/wrenware/relver/internal/manifest"
	"github.com/wrenware/relver/internal/semver"
)

// WorkspacePackageName is the synthetic name of the workspace.package
// declaration when it is treated as a package-like entry.
const WorkspacePackageName = "workspace.package"

// Manifest and lockfile names recognized at the workspace root.
const (
	ManifestFileName = "Cargo.toml"
	LockfileName     = "Cargo.lock"
)

// VersionSource says where a package's version is authored.
type VersionSource int

const (
	// SourceOwn means the package declares its own package.version.
	SourceOwn VersionSource = iota
	// SourceInherited means package.version = { workspace = true }; the
	// real version lives in the root manifest.
	SourceInherited
	// SourceWorkspaceDeclaration marks the synthetic entry for
	// workspace.package.version itself.
	SourceWorkspaceDeclaration
)

// String returns a short label for the version source.
func (s VersionSource) String() string {
	switch s {
	case SourceOwn:
		return "own"
	case SourceInherited:
		return "inherited"
	case SourceWorkspaceDeclaration:
		return "workspace-declaration"
	default:
		return "unknown"
	}
}

// Package is one versioned entry of the workspace. Identity is the pair of
// name and manifest path.
type Package struct {
	Name         string
	Version      semver.Version
	ManifestPath string
	Source       VersionSource
	File         *manifest.File
}

// String renders "name version".
func (p *Package) String() string {
	return fmt.Sprintf("%s %s", p.Name, p.Version)
}

// OwnsVersion reports whether writing this package's manifest changes its
// version. Inherited versions are written through the workspace declaration
// instead.
func (p *Package) OwnsVersion() bool {
	return p.Source == SourceOwn
}
