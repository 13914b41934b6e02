package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Normalize expands paths and canonicalizes enumerated values. Load calls it;
// the CLI calls it again after applying flag overrides.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSort()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Sort.InputDir) == "" {
		c.Sort.InputDir = defaultInputDir
	}
	if c.Sort.InputDir, err = expandPath(c.Sort.InputDir); err != nil {
		return fmt.Errorf("sort.input_dir: %w", err)
	}
	if c.Sort.Template, err = expandHome(strings.TrimSpace(c.Sort.Template)); err != nil {
		return fmt.Errorf("sort.template: %w", err)
	}
	if c.Watch.Dir, err = expandPath(strings.TrimSpace(c.Watch.Dir)); err != nil {
		return fmt.Errorf("watch.dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	if strings.TrimSpace(c.Manifest.Path) == "" {
		c.Manifest.Path = defaultManifestPath()
	}
	if c.Manifest.Path, err = expandPath(c.Manifest.Path); err != nil {
		return fmt.Errorf("manifest.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSort() {
	c.Sort.DatePolicy = strings.ToLower(strings.TrimSpace(c.Sort.DatePolicy))
	if c.Sort.DatePolicy == "" {
		c.Sort.DatePolicy = defaultDatePolicy
	}
	if c.Sort.Workers <= 0 {
		c.Sort.Workers = defaultWorkers
	}
	exts := make([]string, 0, len(c.Sort.Extensions))
	seen := make(map[string]struct{}, len(c.Sort.Extensions))
	for _, ext := range c.Sort.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Sort.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// expandHome replaces a leading ~/ in a template without making it absolute,
// so relative templates keep resolving against the working directory.
func expandHome(value string) (string, error) {
	if value != "~" && !strings.HasPrefix(value, "~/") {
		return value, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if value == "~" {
		return home, nil
	}
	return filepath.Join(home, value[2:]), nil
}
