package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: QUICKVIEW_COMMERCE__AJAX_ADD_TO_CART -> commerce.ajax_add_to_cart.
const EnvPrefix = "QUICKVIEW_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (QUICKVIEW_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: QUICKVIEW_PORT -> port, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validEnvironments is the set of recognized environment values.
var validEnvironments = map[Environment]bool{
	EnvDevelopment: true,
	EnvProduction:  true,
}

// validLogLevels is the set of recognized log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validTriggers is the set of recognized quick view trigger values.
var validTriggers = map[string]bool{
	"button":   true,
	"non_ajax": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	if !validEnvironments[c.Environment] {
		return fmt.Errorf("invalid environment %q: must be one of development, production", c.Environment)
	}

	if c.LogLevel != "" && !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.HomeURL == "" {
		return fmt.Errorf("home_url is required")
	}
	if u, err := url.Parse(c.HomeURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid home_url %q: must be an absolute URL", c.HomeURL)
	}

	if c.QuickView.TriggerDefault != "" && !validTriggers[c.QuickView.TriggerDefault] {
		return fmt.Errorf("invalid quick_view.trigger_default %q: must be one of button, non_ajax", c.QuickView.TriggerDefault)
	}

	return nil
}
