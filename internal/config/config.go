package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	CatalogPath string `toml:"catalog_path"`
	ThumbsDir   string `toml:"thumbs_dir"`
	LogDir      string `toml:"log_dir"`
}

// Dedupe contains configuration for duplicate grouping.
type Dedupe struct {
	// FolderTokens is the identifier token count used when grouping
	// thumbnail folder names.
	FolderTokens int `toml:"folder_tokens"`
	// CatalogTokens is the identifier token count used when grouping
	// catalog entries.
	CatalogTokens int `toml:"catalog_tokens"`
	// OutputSuffix is appended to the catalog file name (before the
	// extension) when a deduplicated catalog is written.
	OutputSuffix string `toml:"output_suffix"`
}

// Partition contains configuration for year partitioning.
type Partition struct {
	OutputSuffix string `toml:"output_suffix"`
}

// Alignment contains configuration for the folder/catalog alignment check.
type Alignment struct {
	// WarnGap is the reduction-percentage gap, in percentage points, above
	// which the check reports the two sides as misaligned.
	WarnGap float64 `toml:"warn_gap"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for stacks.
//
// Configuration sections by subsystem:
//   - Paths: catalog file, thumbnail root, log directory
//   - Dedupe: token counts and output naming for duplicate removal
//   - Partition: output naming for year partitioning
//   - Alignment: warning threshold for the alignment check
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths     `toml:"paths"`
	Dedupe    Dedupe    `toml:"dedupe"`
	Partition Partition `toml:"partition"`
	Alignment Alignment `toml:"alignment"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stacks/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stacks.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directories. The thumbnail root is
// deliberately not created here: a missing root means the operator pointed
// at the wrong place, and preflight should surface that instead of
// silently working against an empty tree.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.RunLogDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DedupedCatalogPath returns the output path for a deduplicated catalog.
func (c *Config) DedupedCatalogPath() string {
	return withSuffix(c.Paths.CatalogPath, c.Dedupe.OutputSuffix)
}

// PartitionedCatalogPath returns the output path for a catalog rewritten
// with year partitioned thumbnail paths.
func (c *Config) PartitionedCatalogPath() string {
	return withSuffix(c.Paths.CatalogPath, c.Partition.OutputSuffix)
}

// JournalPath returns the run journal database location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.LogDir, "journal.db")
}

// RunLogDir returns the directory holding per-run audit logs.
func (c *Config) RunLogDir() string {
	return filepath.Join(c.Paths.LogDir, "runs")
}

// LockPath returns the lock file taken by execute-mode runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "stacks.lock")
}

// LogFilePath returns the main application log location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "stacks.log")
}

// withSuffix inserts suffix between the file name and its extension.
func withSuffix(path, suffix string) string {
	if path == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
