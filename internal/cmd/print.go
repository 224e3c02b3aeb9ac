package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wrenware/relver/internal/release"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the current version of the selected packages",
	RunE:  runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func runPrint(cmd *cobra.Command, args []string) error {
	intent, err := intentFromFlags(cmd)
	if err != nil {
		return err
	}
	intent.Action = release.ActionPrint
	return runIntent(cmd, intent)
}
