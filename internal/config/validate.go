package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSort(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSort() error {
	if strings.TrimSpace(c.Sort.Template) == "" {
		return errors.New("sort.template must be set")
	}
	switch c.Sort.DatePolicy {
	case DatePolicyEpoch, DatePolicyExclude, DatePolicyFilename:
	default:
		return fmt.Errorf("sort.date_policy: unsupported value %q (want %s, %s, or %s)",
			c.Sort.DatePolicy, DatePolicyEpoch, DatePolicyExclude, DatePolicyFilename)
	}
	if c.Sort.Workers > 64 {
		return errors.New("sort.workers must be between 1 and 64")
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateManifest() error {
	if c.Manifest.Enabled && strings.TrimSpace(c.Manifest.Path) == "" {
		return errors.New("manifest.path must be set when manifest.enabled is true")
	}
	return nil
}
