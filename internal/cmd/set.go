package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wrenware/relver/internal/release"
	"github.com/wrenware/relver/internal/semver"
)

var setCmd = &cobra.Command{
	Use:   "set <version>",
	Short: "Set the version to an explicit value",
	Long: `Set the version to an explicit semantic version. Unless forced, the
new version must be greater than the current one.`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	version, err := semver.Parse(args[0])
	if err != nil {
		return err
	}
	intent, err := intentFromFlags(cmd)
	if err != nil {
		return err
	}
	intent.Action = release.ActionSet
	intent.SetVersion = version
	return runIntent(cmd, intent)
}
