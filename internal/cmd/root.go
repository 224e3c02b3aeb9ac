// Package cmd defines the relver command-line interface.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wrenware/relver/internal/config"
	"github.com/wrenware/relver/internal/semver"
)

var rootCmd = &cobra.Command{
	Use:   "relver",
	Short: "Workspace version manager and release runner",
	Long: `Relver bumps semantic versions across a multi-package workspace and
runs the release side effects: manifest writes, lockfile regeneration,
git commit/tag/push, and publishing. Running relver with no subcommand
bumps the patch level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBump(cmd, semver.BumpPatch)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.config/relver/config.yaml)")
	pf.String("manifest-path", "Cargo.toml", "path to the root manifest")
	pf.Bool("dry-run", false, "plan and rehearse the release without keeping its effects")
	pf.BoolP("force-version", "f", false, "bypass version bump checks")
	pf.BoolP("allow-dirty", "n", false, "allow git tagging in a dirty worktree")
	pf.String("pre", "", "set the prerelease segment of the new version")
	pf.String("build", "", "set the build metadata of the new version")
	pf.BoolP("git-tag", "t", false, "commit the changed files and create a git tag")
	pf.Bool("git-push", false, "push the tag to each discovered remote")
	pf.BoolP("publish", "c", false, "publish with the build tool")
	pf.StringP("message", "m", "", "commit message (defaults to the new version)")
	pf.String("branch", "", "release from this branch instead of the current one")
	pf.String("remote", "", "push only to this remote")
	pf.BoolP("workspace", "w", false, "operate on every workspace member")
	pf.Bool("default-members", false, "operate on the workspace default members")
	pf.StringArrayP("package", "p", nil, "include packages matching this glob (repeatable)")
	pf.StringArrayP("exclude", "x", nil, "exclude packages matching this glob (repeatable)")
	pf.Bool("workspace-version", false, "also change workspace.package.version")
	pf.String("suppress", "none", "suppress side effects: none, git, tool, or all")
	pf.CountP("verbose", "v", "increase log verbosity")

	rootCmd.MarkFlagsMutuallyExclusive("workspace", "default-members")

	_ = viper.BindPFlag("config", pf.Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("RELVER")
	// Replace dots with underscores for nested keys in env vars
	// e.g., RELVER_GIT_REMOTE for git.remote
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
