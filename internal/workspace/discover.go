package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"

	"github.com/wrenware/relver/internal/errors"
	"github.com/wrenware/relver/internal/manifest"
)

// Discover reads the root manifest and builds the workspace model: member
// packages (workspace.members entries may be glob patterns), the root
// package, the workspace version declaration, and default members.
func Discover(fs afero.Fs, manifestPath string) (*Packages, error) {
	rootFile := manifest.NewFile(fs, manifestPath)
	if err := rootFile.Load(); err != nil {
		return nil, err
	}

	rootDir := filepath.Dir(manifestPath)
	ps := NewPackages(rootDir, manifestPath, filepath.Join(rootDir, LockfileName))

	if rootFile.HasWorkspace() {
		if v, err := rootFile.Version(manifest.LocationWorkspace); err == nil {
			ps.SetWorkspaceDeclaration(&Package{
				Name:         WorkspacePackageName,
				Version:      v,
				ManifestPath: manifestPath,
				Source:       SourceWorkspaceDeclaration,
				File:         rootFile,
			})
		} else if !errors.Is(err, errors.ErrVersionNotFound) {
			return nil, err
		}

		memberDirs, err := expandMembers(fs, rootDir, rootFile.WorkspaceMembers())
		if err != nil {
			return nil, err
		}
		dirToName := make(map[string]string, len(memberDirs))
		for _, dir := range memberDirs {
			p, err := loadMember(fs, filepath.Join(rootDir, dir, ManifestFileName), ps)
			if err != nil {
				return nil, err
			}
			ps.AddMember(p)
			dirToName[dir] = p.Name
		}

		for _, dir := range rootFile.WorkspaceDefaultMembers() {
			name, ok := dirToName[filepath.Clean(dir)]
			if !ok {
				return nil, errors.Wrapf(errors.ErrPackageNotFound,
					"default member %q is not a workspace member", dir)
			}
			ps.AddDefaultMember(name)
		}
	}

	if rootFile.HasPackage() {
		root, err := memberFromFile(rootFile, ps)
		if err != nil {
			return nil, err
		}
		ps.AddMember(root)
		ps.RootName = root.Name
	}

	if ps.Len() == 0 {
		return nil, errors.NewManifestError(
			"manifest declares neither a package nor workspace members", nil).
			WithPath(manifestPath)
	}
	return ps, nil
}

// expandMembers resolves workspace.members entries into relative member
// directories. Entries containing glob metacharacters are matched against
// every directory under the root that holds a manifest.
func expandMembers(fs afero.Fs, rootDir string, entries []string) ([]string, error) {
	var literals []string
	var patterns []glob.Glob
	for _, entry := range entries {
		if !strings.ContainsAny(entry, "*?[{") {
			literals = append(literals, filepath.Clean(entry))
			continue
		}
		g, err := glob.Compile(entry, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid members pattern %q", entry)
		}
		patterns = append(patterns, g)
	}

	dirs := append([]string(nil), literals...)
	if len(patterns) > 0 {
		candidates, err := manifestDirs(fs, rootDir)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]struct{}, len(dirs))
		for _, d := range dirs {
			seen[d] = struct{}{}
		}
		for _, candidate := range candidates {
			for _, g := range patterns {
				if g.Match(candidate) {
					if _, dup := seen[candidate]; !dup {
						seen[candidate] = struct{}{}
						dirs = append(dirs, candidate)
					}
					break
				}
			}
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// manifestDirs walks the tree under rootDir and returns the relative paths
// of directories containing a manifest, excluding the root itself.
func manifestDirs(fs afero.Fs, rootDir string) ([]string, error) {
	var out []string
	walkErr := afero.Walk(fs, rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || info.Name() != ManifestFileName {
			return nil
		}
		rel, err := filepath.Rel(rootDir, filepath.Dir(path))
		if err != nil || rel == "." {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrap(walkErr, "scanning workspace members")
	}
	return out, nil
}

// loadMember loads a member manifest and classifies its version source.
func loadMember(fs afero.Fs, manifestPath string, ps *Packages) (*Package, error) {
	file := manifest.NewFile(fs, manifestPath)
	if err := file.Load(); err != nil {
		return nil, err
	}
	return memberFromFile(file, ps)
}

// memberFromFile builds a Package from a loaded manifest.
func memberFromFile(file *manifest.File, ps *Packages) (*Package, error) {
	name, err := file.PackageName()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.NewManifestError("package has no name", nil).WithPath(file.Path())
	}

	p := &Package{
		Name:         name,
		ManifestPath: file.Path(),
		Source:       SourceOwn,
		File:         file,
	}

	v, err := file.Version(manifest.LocationPackage)
	switch {
	case err == nil:
		p.Version = v
	case errors.Is(err, errors.ErrSetByWorkspace):
		decl := ps.WorkspaceDeclaration()
		if decl == nil {
			return nil, errors.NewManifestError(
				"version inherits from a workspace that declares none",
				errors.ErrNoWorkspaceVersion).WithPath(file.Path())
		}
		p.Source = SourceInherited
		p.Version = decl.Version
	default:
		return nil, err
	}
	return p, nil
}
