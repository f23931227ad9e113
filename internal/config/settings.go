package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Keys lists the settings users may change with Set.
var Keys = []string{
	"dir", "extensions", "preview.max_rows",
	"chart.kind", "chart.width", "chart.height",
	"log.level", "log.format", "log.file",
	"audit.enabled", "audit.path", "output.color",
}

// IsKnownKey reports whether key is a recognized setting.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set stores a value and persists the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q; known keys: %s", key, strings.Join(Keys, ", "))
	}
	if key == "extensions" {
		viper.Set(key, splitList(value))
	} else {
		viper.Set(key, value)
	}
	return SaveConfig()
}

// Get returns a value as a string.
func Get(key string) string {
	if key == "extensions" {
		return strings.Join(viper.GetStringSlice(key), ",")
	}
	return viper.GetString(key)
}

// SaveConfig writes the current settings to ConfigPath.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := ConfigPath()
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ResetConfig removes the config file and restores defaults.
func ResetConfig() error {
	if err := os.Remove(ConfigPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove config: %w", err)
	}
	viper.Reset()
	_, err := Load()
	return err
}

// ConfigPath returns the config file location.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig renders the effective settings as YAML.
func ShowConfig() string {
	data, err := yaml.Marshal(Settings())
	if err != nil {
		return fmt.Sprintf("Config: %s\n\n(could not render: %v)\n", ConfigPath(), err)
	}
	return fmt.Sprintf("Config: %s\n\n%s", ConfigPath(), data)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Settings returns the effective value of every known key.
func Settings() map[string]interface{} {
	settings := make(map[string]interface{}, len(Keys))
	for _, k := range Keys {
		settings[k] = viper.Get(k)
	}
	return settings
}
