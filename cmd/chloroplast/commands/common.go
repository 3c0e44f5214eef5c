// Package commands implements the chloroplast subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/chloroplast/internal/build"
	"git.home.luguber.info/inful/chloroplast/internal/config"
	"git.home.luguber.info/inful/chloroplast/internal/foundation"
)

// LogLevelEnv overrides the log level when -v is not given.
const LogLevelEnv = "CHLOROPLAST_LOG_LEVEL"

// CLI is the root command and its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file" default:"${config_file}" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" default:"1" help:"Render the site into the output folder"`
	Watch    WatchCmd    `cmd:"" help:"Build, then rebuild whenever sources or templates change"`
	Serve    ServeCmd    `cmd:"" help:"Build, watch and serve the site locally"`
	Validate ValidateCmd `cmd:"" help:"Check the built site for missing pages and assets"`
	Init     InitCmd     `cmd:"" help:"Create a starter site"`
}

// AfterApply configures the default logger once flags are parsed.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

var logLevels = foundation.NewNormalizer(map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}, slog.LevelInfo)

// parseLogLevel gives -v precedence over CHLOROPLAST_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return logLevels.Normalize(os.Getenv(LogLevelEnv))
}

// buildContext loads the configuration and derives a build context from it.
func (c *CLI) buildContext(opts build.Options) (*build.Context, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	return build.NewContext(cfg, opts), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
