package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"bisub/internal/config"
	"bisub/internal/fileutil"
	"bisub/internal/history"
	"bisub/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	// console receives human-readable logs; the root command points it at
	// the command's stderr.
	console    io.Writer
	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, c.console)
	})
	return c.logger, c.loggerErr
}

// openHistory opens the run ledger. Callers close the store.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// readInput reads a path argument, "-" meaning stdin.
func readInput(cmd *cobra.Command, path string) (string, error) {
	var stdin io.Reader = cmd.InOrStdin()
	text, err := fileutil.ReadInput(path, stdin)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", displaySource(path), err)
	}
	return text, nil
}

func displaySource(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
