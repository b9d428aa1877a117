package cmd

import (
	"strings"

	"github.com/abdul-hamid-achik/httpc/packages/core/config"
	"github.com/abdul-hamid-achik/httpc/packages/core/runner"
	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/abdul-hamid-achik/httpc/packages/logging"
	"github.com/abdul-hamid-achik/httpc/packages/output"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app wires the engine, formatter and history store for one invocation
type app struct {
	cmd    *cobra.Command
	logger zerolog.Logger
	runner *runner.Runner
	store  *history.Store
}

func newApp(cmd *cobra.Command, cfg *config.Config, withHistory bool) *app {
	a := &app{
		cmd:    cmd,
		logger: buildLogger(cmd, cfg),
	}

	opts := []runner.Option{runner.WithLogger(a.logger)}

	if withHistory && cfg.HistoryEnabled() {
		store, err := history.Open(cfg.History)
		if err != nil {
			// History is a convenience; requests still work without it.
			a.logger.Warn().Err(err).Str("path", cfg.History).Msg("history disabled")
		} else {
			a.store = store
			opts = append(opts, runner.WithRecorder(store))
		}
	}

	a.runner = runner.NewRunner(buildClient(cfg, a.logger), buildFormatter(cmd, cfg), opts...)
	return a
}

// apply swaps in a new engine and formatter after a config reload
func (a *app) apply(cfg *config.Config) {
	logger := a.logger.Level(logging.ParseLevel(cfg.LogLevel))
	a.runner.SetClient(buildClient(cfg, logger))
	a.runner.SetFormatter(buildFormatter(a.cmd, cfg))
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("closing history")
		}
	}
}

func buildLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	if strings.EqualFold(logFormatFlag, "json") {
		return logging.NewJSON(cfg.LogLevel, cmd.ErrOrStderr())
	}
	return logging.New(cfg.LogLevel, cmd.ErrOrStderr(), cfg.GetNoColor())
}

func buildClient(cfg *config.Config, logger zerolog.Logger) *http.Client {
	return http.NewClient(
		http.WithIdleTimeout(cfg.IdleTimeoutDuration()),
		http.WithCloseTimeout(cfg.CloseTimeoutDuration()),
		http.WithDialTimeout(cfg.DialTimeoutDuration()),
		http.WithProxy(cfg.Proxy),
		http.WithLogger(logger),
	)
}

func buildFormatter(cmd *cobra.Command, cfg *config.Config) *output.ConsoleFormatter {
	return output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithPretty(cfg.GetPretty()),
		output.WithNoColor(cfg.GetNoColor()),
	)
}
