package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDedupe(); err != nil {
		return err
	}
	if err := c.validateAlignment(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/stacks/config.toml"
		}
		return fmt.Errorf("paths.catalog_path is required. Set STACKS_CATALOG env var or edit %s (create with 'stacks config init')", defaultPath)
	}
	if strings.TrimSpace(c.Paths.ThumbsDir) == "" {
		return errors.New("paths.thumbs_dir is required. Set STACKS_THUMBS env var or configure it")
	}
	return nil
}

func (c *Config) validateDedupe() error {
	return ensurePositiveMap(map[string]int{
		"dedupe.folder_tokens":  c.Dedupe.FolderTokens,
		"dedupe.catalog_tokens": c.Dedupe.CatalogTokens,
	})
}

func (c *Config) validateAlignment() error {
	if c.Alignment.WarnGap <= 0 || c.Alignment.WarnGap > 100 {
		return errors.New("alignment.warn_gap must be between 0 and 100 percentage points")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
