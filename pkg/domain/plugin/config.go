package plugin

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config locates a tracker plugin and the settings handed to its Init.
type Config struct {
	// Path is the plugin binary
	Path string `yaml:"path" json:"path"`
	// Settings holds the plugin-specific key-value pairs
	Settings map[string]string `yaml:"settings" json:"settings"`
}

// Validate checks that a binary is configured.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Path, validation.Required.Error("plugin path is required")),
	)
}

// Setting returns one setting, or fallback when it is unset.
func (c Config) Setting(key, fallback string) string {
	if v, ok := c.Settings[key]; ok && v != "" {
		return v
	}
	return fallback
}
