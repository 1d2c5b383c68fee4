package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	defaultExtension = "yaml"
	defaultTagName   = "yaml"

	// FileName is the config file looked up in the working directory.
	FileName = "storyreview"
	// EnvPrefix prefixes every environment override, e.g. STORYREVIEW_DATA_SOURCE.
	EnvPrefix = "storyreview"
)

type Binder interface {
	Bind(v *viper.Viper) error
}

// Load reads the configuration. An empty path looks for storyreview.yaml in
// dir and falls back to the defaults when there is none; an explicit path
// must exist. Environment variables override both.
func Load(path, dir string, b Binder) (Config, error) {
	v := viper.New()
	v.SetConfigType(defaultExtension)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // So that env vars are translated properly
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)

	if b != nil {
		if err := b.Bind(v); err != nil {
			return Config{}, err
		}
	}

	// The defaults are read as a config so that every key is known to viper
	// and can be overridden from the environment.
	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return Config{}, fmt.Errorf("marshal defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		if filepath.Ext(path) == "" {
			return Config{}, fmt.Errorf("config file must have extension %s, got: %s", defaultExtension, path)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
		v.SetConfigName(FileName)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	err = v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = defaultTagName // We use yaml tags in the config structs so we can marshal to yaml
	})
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as yaml. An existing file is only replaced when overwrite is set.
func Save(path string, cfg Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

type EnvBinder struct {
	binders map[string]string
}

func (e *EnvBinder) Bind(v *viper.Viper) error {
	for envVar, key := range e.binders {
		err := v.BindEnv(key, envVar)
		if err != nil {
			return fmt.Errorf("bind env var %s to key %s: %w", envVar, key, err)
		}
	}

	return nil
}

func NewEnvBinder(binders map[string]string) *EnvBinder {
	return &EnvBinder{
		binders: binders,
	}
}

// NewDefaultEnvBinder maps the conventional variables of the trackers.
func NewDefaultEnvBinder() *EnvBinder {
	return NewEnvBinder(map[string]string{
		"GITHUB_TOKEN": "tracker.github.token",
	})
}
