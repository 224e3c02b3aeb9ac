// Package config defines relver's configuration, loaded through viper from
// a config file, environment variables (RELVER_ prefix), and flag bindings.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Git     GitConfig     `mapstructure:"git"`
	Tool    ToolConfig    `mapstructure:"tool"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitConfig controls git behavior during a release.
type GitConfig struct {
	// Remote restricts pushes to one remote instead of every discovered
	// remote. Empty means push to all of them.
	Remote string `mapstructure:"remote"`
	// TagPrefix is prepended to the version when forming the tag name.
	TagPrefix string `mapstructure:"tag_prefix"`
	// Message is the default commit message. Empty means use the new
	// version string.
	Message string `mapstructure:"message"`
}

// ToolConfig controls the build tool used for lockfiles and publishing.
type ToolConfig struct {
	// Bin is the build tool binary.
	Bin string `mapstructure:"bin"`
	// NoVerify skips the tool's pre-publish verification build.
	NoVerify bool `mapstructure:"no_verify"`
	// PublishArgs are extra arguments appended to the publish command.
	PublishArgs []string `mapstructure:"publish_args"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// File is the log file path. Empty means stderr.
	File string `mapstructure:"file"`
}

// SetDefaults registers defaults with viper. Call before reading config.
func SetDefaults() {
	viper.SetDefault("git.remote", "")
	viper.SetDefault("git.tag_prefix", "")
	viper.SetDefault("git.message", "")
	viper.SetDefault("tool.bin", "cargo")
	viper.SetDefault("tool.no_verify", false)
	viper.SetDefault("tool.publish_args", []string{})
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}

// Load unmarshals the effective viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the directory searched for the config file.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "relver")
}
