package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"clickclock/internal"
	"clickclock/internal/clipboard"
	"clickclock/internal/clock"
	"clickclock/internal/config"
	"clickclock/internal/fetch"
	"clickclock/internal/history"
	"clickclock/internal/sched"
	"clickclock/internal/stopwatch"
)

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command line. runFn receives the merged config of
// defaults, config file, environment and flags.
func newRootCmd(runFn func(config.Config) error) *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:           "clickclock",
		Short:         "Look up the time in any city and run a stopwatch",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			return runFn(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./clickclock.yaml)")
	flags.String("service-url", "", "base URL of the time service")
	flags.String("db", "", "history database path, empty to disable")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "", "debug, info, warn or error")

	for key, flag := range map[string]string{
		config.KeyServiceURL: "service-url",
		config.KeyDB:         "db",
		config.KeyLogFile:    "log-file",
		config.KeyLogLevel:   "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	return cmd
}

func run(cfg config.Config) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	repo := openHistory(cfg.DB, logger)

	s := sched.Real{}
	m := internal.NewModel(internal.Deps{
		Lookup: fetch.New(cfg.ServiceURL,
			fetch.WithRetries(cfg.Retries),
			fetch.WithTimeout(cfg.RequestTimeout),
			fetch.WithLogger(logger.WithPrefix("fetch")),
		),
		Feedback: clipboard.NewFeedback(clipboard.System{}, s, cfg.CopyReset,
			clipboard.WithLogger(logger.WithPrefix("clipboard")),
		),
		Stopwatch: stopwatch.New(clock.Real{}, s,
			stopwatch.WithTick(cfg.Tick),
			stopwatch.WithLogger(logger.WithPrefix("stopwatch")),
		),
		History: repo,
		Clock:   clock.Real{},
		Logger:  logger,
	})
	defer func() {
		if err := m.Close(); err != nil {
			logger.Error("closing history", "err", err)
		}
	}()

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Bind(p.Send)

	logger.Info("starting", "service", cfg.ServiceURL, "db", cfg.DB)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// openHistory opens the history database at path. An empty path, or one that
// cannot be opened, runs the program without history.
func openHistory(path string, logger *log.Logger) *history.Repository {
	if path == "" {
		return nil
	}
	repo, err := history.Open(path)
	if err != nil {
		logger.Error("history disabled", "db", path, "err", err)
		return nil
	}
	return repo
}

// newLogger writes to cfg.LogFile, or nowhere; the terminal belongs to the UI.
func newLogger(cfg config.Config) (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "clickclock",
	})
	return logger, closeFn, nil
}
