package main

import (
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	internalcli "github.com/adyen/shopflow/internal/cli"
	"github.com/adyen/shopflow/internal/config"
	"github.com/adyen/shopflow/internal/database"
	"github.com/adyen/shopflow/internal/driver"
	"github.com/adyen/shopflow/internal/flows"
	"github.com/adyen/shopflow/internal/harness"
	"github.com/adyen/shopflow/internal/repository"
	"github.com/adyen/shopflow/internal/services"
	"github.com/adyen/shopflow/internal/storefront"
)

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the registered flows",
		Action: func(c *cli.Context) error {
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			for _, f := range flows.All() {
				requires := "-"
				if len(f.Requires) > 0 {
					requires = strings.Join(f.Requires, ",")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", f.Name, requires, f.Description)
			}
			return w.Flush()
		},
	}
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run flows in a fresh browser session each",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "flow",
				Aliases: []string{"f"},
				Usage:   "flow to run; repeat for several (default: all)",
			},
			&cli.DurationFlag{
				Name:  "download-timeout",
				Usage: "how long to wait for downloaded files",
				Value: 30 * time.Second,
			},
		},
		Action: withLogger(func(c *cli.Context, logger *zap.Logger) error {
			cfg, err := loadConfig(c, logger)
			if err != nil {
				return err
			}

			selected, err := selectFlows(c.StringSlice("flow"))
			if err != nil {
				return err
			}

			opts := []harness.Option{harness.WithDownloadTimeout(c.Duration("download-timeout"))}
			runs, closeJournal, err := openJournal(cfg, logger)
			if err != nil {
				return err
			}
			defer closeJournal()
			if runs != nil {
				opts = append(opts, harness.WithRecorder(harness.NewJournalRecorder(runs)))
			}

			h, err := harness.New(cfg, logger, opts...)
			if err != nil {
				return err
			}

			results := h.RunAll("shopflow", selected)
			printResults(c, results)

			if failed := harness.Summary(results)[harness.StatusFailed]; failed > 0 {
				return cli.Exit(fmt.Sprintf("%d flow(s) failed", failed), 1)
			}
			return nil
		}),
	}
}

func selectFlows(names []string) ([]flows.Flow, error) {
	if len(names) == 0 {
		return flows.All(), nil
	}
	selected := make([]flows.Flow, 0, len(names))
	for _, name := range names {
		f, err := flows.Lookup(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, f)
	}
	return selected, nil
}

func printResults(c *cli.Context, results []harness.Result) {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Status, r.Flow, r.Duration.Round(time.Millisecond))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "\t  - %s\t\n", f)
		}
	}
	w.Flush()

	summary := harness.Summary(results)
	fmt.Fprintf(c.App.Writer, "\n%d passed, %d failed, %d skipped\n",
		summary[harness.StatusPassed], summary[harness.StatusFailed], summary[harness.StatusSkipped])
}

// openJournal connects to the run journal when Postgres is configured. A nil
// service means no journal.
func openJournal(cfg *config.Values, logger *zap.Logger) (services.RunService, func(), error) {
	if !config.PostgresConfigured(cfg.Getenv) {
		return nil, func() {}, nil
	}
	db, err := connectJournal(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to run journal")
	return services.NewRunService(repository.NewRunRepository(db)), func() { db.Close() }, nil
}

func connectJournal(cfg *config.Values) (*sql.DB, error) {
	pgConfig, err := config.LoadPostgresConfig(cfg.Getenv)
	if err != nil {
		return nil, fmt.Errorf("missing required Postgres configuration: %w", err)
	}
	db, err := database.Connect(pgConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return db, nil
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the fixture storefront",
		Action: withLogger(func(c *cli.Context, logger *zap.Logger) error {
			cfg, err := loadConfig(c, logger)
			if err != nil {
				return err
			}

			handler, err := storefront.NewHandler(newStore(cfg), storefront.DefaultTestCases, logger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(internalcli.ServerDependencies{
				ServerConfig: config.LoadServerConfig(cfg.Getenv),
				Handler:      handler,
				Logger:       logger,
			})
		}),
	}
}

// newStore seeds the storefront with the configured shopper account
func newStore(cfg *config.Values) *storefront.Store {
	accounts := map[string]storefront.Account{}
	if email, err := cfg.Get("EMAIL"); err == nil {
		accounts[email] = storefront.Account{
			Name:     cfg.GetOr("ACCOUNT_NAME", "Tester"),
			Password: cfg.GetOr("PASSWORD", ""),
		}
	}
	return storefront.NewStore(storefront.DefaultCatalog, accounts)
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and browsers",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "browser",
				Usage: "browser to install: " + strings.Join(config.SupportedBrowsers(), ", "),
				Value: cli.NewStringSlice(config.BrowserChrome),
			},
		},
		Action: withLogger(func(c *cli.Context, logger *zap.Logger) error {
			browsers := c.StringSlice("browser")
			logger.Info("installing playwright", zap.Strings("browsers", browsers))
			return driver.InstallPlaywright(browsers...)
		}),
	}
}

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent runs from the journal",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   services.DefaultRecentLimit,
			},
		},
		Action: withLogger(func(c *cli.Context, logger *zap.Logger) error {
			cfg, err := loadConfig(c, logger)
			if err != nil {
				return err
			}
			runs, closeJournal, err := openJournal(cfg, logger)
			if err != nil {
				return err
			}
			defer closeJournal()
			if runs == nil {
				return cli.Exit("no run journal configured (set POSTGRES_HOSTNAME)", 1)
			}

			recent, err := runs.Recent(c.Int("limit"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tFLOW\tBROWSER\tSTATUS\tDURATION\tFAILURES")
			for _, r := range recent {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
					r.StartedAt.Format(time.DateTime), r.Flow, r.Browser, r.Status,
					r.Duration().Round(time.Millisecond), len(r.Failures))
			}
			return w.Flush()
		}),
	}
}
