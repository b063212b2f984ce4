package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDedupe()
	c.normalizePartition()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		if value, ok := os.LookupEnv("STACKS_CATALOG"); ok {
			c.Paths.CatalogPath = strings.TrimSpace(value)
		}
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.ThumbsDir) == "" {
		if value, ok := os.LookupEnv("STACKS_THUMBS"); ok {
			c.Paths.ThumbsDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.ThumbsDir, err = expandPath(c.Paths.ThumbsDir); err != nil {
		return fmt.Errorf("paths.thumbs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDedupe() {
	c.Dedupe.OutputSuffix = strings.TrimSpace(c.Dedupe.OutputSuffix)
	if c.Dedupe.OutputSuffix == "" {
		c.Dedupe.OutputSuffix = defaultDedupeSuffix
	}
}

func (c *Config) normalizePartition() {
	c.Partition.OutputSuffix = strings.TrimSpace(c.Partition.OutputSuffix)
	if c.Partition.OutputSuffix == "" {
		c.Partition.OutputSuffix = defaultPartitionSuffix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
