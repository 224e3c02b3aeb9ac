package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wrenware/relver/internal/semver"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Bump the version one patch level",
	Long: `Bump the version one patch level. On a prerelease version this only
clears the prerelease segment, finalizing the release.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, semver.BumpPatch)
	},
}

var minorCmd = &cobra.Command{
	Use:   "minor",
	Short: "Bump the version one minor level",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, semver.BumpMinor)
	},
}

var majorCmd = &cobra.Command{
	Use:   "major",
	Short: "Bump the version one major level",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, semver.BumpMajor)
	},
}

var preCmd = &cobra.Command{
	Use:   "pre",
	Short: "Increment the trailing numeric prerelease identifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, semver.BumpPre)
	},
}

func init() {
	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(minorCmd)
	rootCmd.AddCommand(majorCmd)
	rootCmd.AddCommand(preCmd)
}
