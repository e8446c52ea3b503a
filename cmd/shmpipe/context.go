package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shmpipe/internal/config"
	"shmpipe/internal/logging"
	"shmpipe/internal/node"
)

// commandContext carries the state shared by every subcommand: the
// parsed configuration file (when one was given) and the logger built
// from the persistent flags.
type commandContext struct {
	configFile string
	configKey  string
	logLevel   string
	logFormat  string

	cfg    *config.File
	logger *slog.Logger
}

// setup loads the configuration file and builds the logger. Flag values
// override the file's top-level options.
func (c *commandContext) setup() error {
	if c.configFile != "" {
		cfg, err := config.Load(c.configFile)
		if err != nil {
			return err
		}
		c.cfg = cfg
	}

	level := c.logLevel
	format := c.logFormat
	if c.cfg != nil {
		common := c.cfg.Common()
		if level == "" {
			level = common.LogLevel
		}
		if format == "" {
			format = common.LogFormat
		}
	}

	logger, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// section decodes the node's configuration table into out. The table is
// selected by --config-key, defaulting to the command name; a defaulted
// key that matches no table leaves out untouched, an explicit one must
// exist.
func (c *commandContext) section(commandName string, out any) error {
	if c.cfg == nil {
		if c.configKey != "" {
			return errors.New("--config-key given without --config-file")
		}
		return nil
	}
	key := c.configKey
	if key == "" {
		if !c.cfg.HasSection(commandName) {
			return nil
		}
		key = commandName
	}
	return c.cfg.Section(key, out)
}

// runNode drives a constructed node until end-of-stream or SIGINT or
// SIGTERM.
func (c *commandContext) runNode(name string, s node.Stepper) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return node.Run(ctx, logging.WithNode(c.logger, name), s)
}

// signalContext returns a context ended by SIGINT or SIGTERM, for
// commands that block outside the node loop.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

type nodeCloser interface {
	Close(ctx context.Context) error
}

// closeNode releases a node's channel ends after the run loop exits. The
// fresh bounded context matters on interrupt: the run context is already
// cancelled then, and closing may publish a final token.
func closeNode(n nodeCloser) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = n.Close(ctx)
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isattyTerminal(fd)
}
