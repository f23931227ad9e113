// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SHEETKIT_LOG_LEVEL.
const EnvPrefix = "SHEETKIT"

// Config holds the application configuration.
type Config struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
	Preview    struct {
		MaxRows int `mapstructure:"max_rows"`
	} `mapstructure:"preview"`
	Chart struct {
		Kind   string `mapstructure:"kind"`
		Width  uint   `mapstructure:"width"`
		Height uint   `mapstructure:"height"`
	} `mapstructure:"chart"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"log"`
	Audit struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"audit"`
	Output struct {
		Color bool `mapstructure:"color"`
	} `mapstructure:"output"`
}

// Load reads the configuration from ~/.sheetkit/config.yaml and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("dir", ".")
	viper.SetDefault("extensions", []string{".xls", ".xlsx", ".xlsm"})
	viper.SetDefault("preview.max_rows", 0)
	viper.SetDefault("chart.kind", "Doughnut")
	viper.SetDefault("chart.width", 0)
	viper.SetDefault("chart.height", 0)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.file", "")
	viper.SetDefault("audit.enabled", true)
	viper.SetDefault("audit.path", filepath.Join(configDir(), "edits.log"))
	viper.SetDefault("output.color", true)
}

// Dir returns the directory holding config.yaml and the default log files.
func Dir() string {
	return configDir()
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetkit"
	}
	return filepath.Join(home, ".sheetkit")
}
