package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Tool.Bin != "cargo" {
		t.Errorf("Tool.Bin = %q, want cargo", cfg.Tool.Bin)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Git.Remote != "" {
		t.Errorf("Git.Remote = %q, want empty", cfg.Git.Remote)
	}
	if cfg.Tool.NoVerify {
		t.Error("Tool.NoVerify should default to false")
	}
}

func TestOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	viper.Set("git.remote", "origin")
	viper.Set("git.tag_prefix", "v")
	viper.Set("tool.bin", "cargo-nightly")
	viper.Set("tool.publish_args", []string{"--registry", "internal"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Git.Remote != "origin" {
		t.Errorf("Git.Remote = %q, want origin", cfg.Git.Remote)
	}
	if cfg.Git.TagPrefix != "v" {
		t.Errorf("Git.TagPrefix = %q, want v", cfg.Git.TagPrefix)
	}
	if cfg.Tool.Bin != "cargo-nightly" {
		t.Errorf("Tool.Bin = %q", cfg.Tool.Bin)
	}
	if len(cfg.Tool.PublishArgs) != 2 || cfg.Tool.PublishArgs[0] != "--registry" {
		t.Errorf("Tool.PublishArgs = %v", cfg.Tool.PublishArgs)
	}
}
