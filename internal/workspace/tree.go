package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	treeHeaderStyle = lipgloss.NewStyle().Bold(true)
	treeNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	treePathStyle   = lipgloss.NewStyle().Faint(true)
)

// Tree renders the workspace as a text tree: root facts first, then the
// members sorted by name with their manifest paths relative to the root.
func (ps *Packages) Tree() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", treeHeaderStyle.Render("Workspace root:"), ps.RootDir)
	if root := ps.RootPackage(); root != nil {
		fmt.Fprintf(&b, "%s %s %s\n",
			treeHeaderStyle.Render("Root package:"),
			treeNameStyle.Render(root.Name), root.Version)
	}
	if defaults := ps.DefaultMembers(); len(defaults) > 0 {
		fmt.Fprintf(&b, "%s [%s]\n",
			treeHeaderStyle.Render("Default members:"), strings.Join(defaults, ", "))
	}
	if decl := ps.WorkspaceDeclaration(); decl != nil {
		fmt.Fprintf(&b, "%s %s\n",
			treeHeaderStyle.Render("Workspace version:"), decl.Version)
	}
	b.WriteString("\n")
	b.WriteString(treeHeaderStyle.Render("Members:"))
	b.WriteString("\n")

	members := ps.Members()
	for i, p := range members {
		guide := "├─"
		if i == len(members)-1 {
			guide = "└─"
		}
		rel, err := filepath.Rel(ps.RootDir, p.ManifestPath)
		if err != nil {
			rel = p.ManifestPath
		}
		fmt.Fprintf(&b, "%s %s %s: %s\n",
			guide, treeNameStyle.Render(p.Name), p.Version,
			treePathStyle.Render("./"+filepath.ToSlash(rel)))
	}
	return b.String()
}
