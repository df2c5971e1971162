package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-buildkit/internal/filesystem"
	"github.com/spf13/viper"
)

// SettingsFileName is the optional per-repository settings file.
const SettingsFileName = ".buildkit.yaml"

// EnvPrefix prefixes environment variables that override settings.
const EnvPrefix = "BUILDKIT"

// Settings configures the buildkit tool itself, as opposed to the project.
type Settings struct {
	Override string `mapstructure:"override"`
	EnvFile  string `mapstructure:"env_file"`
	LogLevel string `mapstructure:"log_level"`
}

// LoadSettings reads SettingsFileName from dir when present and applies
// BUILDKIT_* environment variables on top.
func LoadSettings(fs filesystem.FileSystem, dir string) (Settings, error) {
	reader := viper.New()
	reader.SetDefault("override", "")
	reader.SetDefault("env_file", "")
	reader.SetDefault("log_level", "info")
	reader.SetEnvPrefix(EnvPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	reader.AutomaticEnv()

	path := filepath.Join(dir, SettingsFileName)
	if fs.Exists(path) {
		data, err := fs.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read settings from %s: %w", path, err)
		}
		reader.SetConfigType("yaml")
		if err := reader.ReadConfig(bytes.NewReader(data)); err != nil {
			return Settings{}, fmt.Errorf("read settings from %s: %w", path, err)
		}
	}

	var settings Settings
	if err := reader.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}
