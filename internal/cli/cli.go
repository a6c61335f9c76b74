package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pfrederiksen/ticket-monitor/internal/config"
	"github.com/pfrederiksen/ticket-monitor/internal/logger"
	"github.com/pfrederiksen/ticket-monitor/internal/notifier"
	"github.com/pfrederiksen/ticket-monitor/internal/scraper"
	"github.com/pfrederiksen/ticket-monitor/internal/storage"
	"github.com/pfrederiksen/ticket-monitor/internal/ticket"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitAlertSent = 2
)

const (
	bannerStart   = "------------ STARTING IPL TICKET MONITOR ------------"
	bannerSuccess = "------------ MONITORING COMPLETED SUCCESSFULLY ------------"
	bannerFailed  = "------------ MONITORING FAILED ------------"
)

// app carries flag values and output streams for one invocation
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	envFile    string
	logFile    string
	logLevel   string
	format     string
	verbose    bool
	dryRun     bool
	exitCode   bool
	limit      int

	// fetcher overrides the HTTP fetcher in tests
	fetcher scraper.Fetcher
	code    int
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket-monitor",
		Short: "Check whether tickets for a match are on sale",
		Long: `A CLI tool that checks a ticketing page for one match, records the
observed booking status and sends alerts when it reaches a notify status.
Run it on a schedule; each invocation performs a single check.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.Context())
		},
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "config.json", "Path to configuration file (JSON, JSON5 or YAML)")
	pf.StringVar(&a.envFile, "env-file", ".env", "Environment file with secrets, ignored when missing")
	pf.StringVar(&a.logFile, "log-file", "ticket_monitor.log", "Append logs to this file as well (empty disables)")
	pf.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.verbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	cmd.Flags().StringVar(&a.format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Print alerts instead of sending them")
	cmd.Flags().BoolVar(&a.exitCode, "exit-code", false, "Exit with status 2 when an alert was sent")

	cmd.AddCommand(newHistoryCmd(a), newValidateCmd(a))

	return cmd
}

// setupLogging builds the process logger: JSON lines to stderr and, when
// configured, appended to the log file. The returned func closes the file.
func (a *app) setupLogging() (*logger.Logger, func(), error) {
	level, err := logger.ParseLevel(a.logLevel)
	if err != nil {
		return nil, nil, err
	}
	if a.verbose {
		level = logger.LevelDebug
	}

	out := a.stderr
	closer := func() {}
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(a.stderr, f)
		closer = func() { f.Close() }
	}

	return logger.New(level, out), closer, nil
}

// loadConfig reads the env file then the configuration
func (a *app) loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return nil, err
	}
	return config.Load(a.configPath)
}

// runCheck is the main command logic
func (a *app) runCheck(ctx context.Context) error {
	format := OutputFormat(strings.ToLower(a.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.format)
	}

	log, closeLog, err := a.setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info(bannerStart, nil)

	sent, err := a.check(ctx, log, format)
	if err != nil {
		log.Error(bannerFailed, nil, err)
		return err
	}

	log.Debug("Run metrics", logger.Fields{"metrics": log.Metrics().GetSnapshot()})
	log.Info(bannerSuccess, nil)

	if sent && a.exitCode {
		a.code = ExitAlertSent
	}
	return nil
}

// check performs one monitoring pass and reports whether any alert was delivered
func (a *app) check(ctx context.Context, log *logger.Logger, format OutputFormat) (bool, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		log.Error("Failed to load configuration. Exiting.", logger.Fields{"config": a.configPath}, err)
		return false, err
	}

	platform, err := cfg.Platform()
	if err != nil {
		return false, err
	}

	store, err := storage.Open(cfg.History, clock.New(), log)
	if err != nil {
		return false, fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	history, err := store.Load()
	if err != nil {
		return false, fmt.Errorf("loading history: %w", err)
	}
	log.Debug("Status history loaded", logger.Fields{"entries": len(history)})

	manager, err := a.buildManager(cfg, log)
	if err != nil {
		return false, err
	}

	monitor, err := scraper.New(cfg.Monitor.Platform, scraper.Deps{
		Platform:        platform,
		URL:             cfg.Monitor.URL,
		MatchIdentifier: cfg.Monitor.MatchIdentifier,
		Fetcher:         a.fetcher,
		History:         store,
		Log:             log,
	})
	if err != nil {
		return false, fmt.Errorf("creating monitor: %w", err)
	}

	log.Info("Checking ticket status", logger.Fields{
		"at":    time.Now().Format(ticket.TimestampLayout),
		"match": cfg.Monitor.MatchIdentifier,
	})

	result := monitor.Check(ctx)
	if ctx.Err() != nil {
		log.Info("Monitoring stopped by user.", nil)
		return false, nil
	}

	if err := WriteResult(a.stdout, result, format); err != nil {
		return false, fmt.Errorf("writing output: %w", err)
	}

	if !result.Notify {
		log.Info("Skipping sending notification as notifications disabled for the current status", logger.Fields{
			"status": result.Status,
		})
		return false, nil
	}

	results := manager.Send(ctx, notifier.AlertFromResult(result))
	log.Info("Notification results", logger.Fields{"results": results})

	for _, ok := range results {
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// buildManager returns the configured channels, or a printer of them in dry-run mode
func (a *app) buildManager(cfg *config.Config, log *logger.Logger) (*notifier.Manager, error) {
	manager, err := notifier.FromConfig(cfg, log)
	if err != nil {
		return nil, err
	}
	if a.dryRun {
		return notifier.NewManager(log, notifier.NewDryRunNotifier(a.stdout, manager.Channels()...)), nil
	}
	return manager, nil
}

// Run executes the CLI with args and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return run(ctx, &app{stdout: stdout, stderr: stderr}, args)
}

func run(ctx context.Context, a *app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return ExitError
	}
	return a.code
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
