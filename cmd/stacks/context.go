package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"stacks/internal/audit"
	"stacks/internal/config"
	"stacks/internal/logging"
	"stacks/internal/workflow"
)

type commandContext struct {
	configFlag  *string
	jsonFlag    *bool
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, jsonFlag, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		jsonFlag:    jsonFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) configPathFlag() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPathFlag())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// ensureLogger builds the shared application logger. Log output goes to the
// log file; stdout stays reserved for tables and summaries. The first call
// also prunes run logs past the retention window.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		opts := logging.Options{
			Level:            cfg.Logging.Level,
			Format:           cfg.Logging.Format,
			OutputPaths:      []string{cfg.LogFilePath()},
			ErrorOutputPaths: []string{cfg.LogFilePath()},
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			opts.OutputPaths = append(opts.OutputPaths, "stderr")
			opts.ErrorOutputPaths = append(opts.ErrorOutputPaths, "stderr")
		}
		logger, err := logging.New(opts)
		if err != nil {
			c.loggerErr = err
			return
		}
		logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
			logging.RetentionTarget{Dir: cfg.RunLogDir(), Pattern: "*.log"},
			logging.RetentionTarget{Dir: cfg.RunLogDir(), Pattern: "*.jsonl"},
		)
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// withController builds a fully wired workflow controller for one command
// invocation: config, logger, journal, and a confirmer reading from the
// command's stdin.
func (c *commandContext) withController(cmd *cobra.Command, fn func(*workflow.Controller) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	journal, err := audit.OpenJournal(cfg)
	if err != nil {
		return err
	}
	defer journal.Close()

	confirmer := &workflow.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	ctrl, err := workflow.NewController(cfg, logger, journal, confirmer)
	if err != nil {
		return err
	}
	return fn(ctrl)
}

func (c *commandContext) withJournal(fn func(*audit.Journal) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	journal, err := audit.OpenJournal(cfg)
	if err != nil {
		return err
	}
	defer journal.Close()
	return fn(journal)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
