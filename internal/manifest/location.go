package manifest

// Location identifies where a version lives inside a manifest.
type Location int

const (
	// LocationPackage is the package.version key of a member manifest.
	LocationPackage Location = iota
	// LocationWorkspace is the workspace.package.version key of the root
	// manifest.
	LocationWorkspace
)

// String returns the dotted key path for the location.
func (l Location) String() string {
	switch l {
	case LocationPackage:
		return "package.version"
	case LocationWorkspace:
		return "workspace.package.version"
	default:
		return "unknown"
	}
}

// keys returns the table path leading to the version key.
func (l Location) keys() []string {
	switch l {
	case LocationWorkspace:
		return []string{"workspace", "package"}
	default:
		return []string{"package"}
	}
}
