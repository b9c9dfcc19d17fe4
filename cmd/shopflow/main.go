package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/adyen/shopflow/internal/config"
)

var version = "0.1.0"

// newLogger builds the process logger: development output with --verbose,
// production JSON otherwise
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads the --config file. A missing default file falls back to
// the process environment.
func loadConfig(c *cli.Context, logger *zap.Logger) (*config.Values, error) {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == config.DefaultPath && errors.Is(err, fs.ErrNotExist) {
		logger.Warn("configuration file not found, using environment variables", zap.String("path", path))
		return config.FromEnviron(), nil
	}
	return nil, err
}

// withLogger wraps an action with logger construction and teardown
func withLogger(action func(c *cli.Context, logger *zap.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger, err := newLogger(c.Bool("verbose"))
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
		return action(c, logger)
	}
}

func main() {
	app := &cli.App{
		Name:    "shopflow",
		Usage:   "Browser flows against the Automation Exercise storefront",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "key/value configuration file",
				Value:   config.DefaultPath,
				EnvVars: []string{"SHOPFLOW_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "human readable debug logging",
			},
		},
		Commands: []*cli.Command{
			ListCommand(),
			RunCommand(),
			ServeCommand(),
			InstallCommand(),
			HistoryCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
