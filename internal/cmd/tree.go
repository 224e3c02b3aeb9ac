package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wrenware/relver/internal/release"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Display the workspace tree",
	Long:  `Display the workspace root, default members, and every member package with its version and manifest path.`,
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	intent, err := intentFromFlags(cmd)
	if err != nil {
		return err
	}
	intent.Action = release.ActionTree
	return runIntent(cmd, intent)
}
