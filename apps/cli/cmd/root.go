package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/httpc/packages/core/config"
	"github.com/abdul-hamid-achik/httpc/packages/core/runner"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "httpc",
	Short: "A curl-like client for HTTP/1.0",
	Long: `httpc is a curl-like application but supports HTTP protocol only.

Started without a command it reads commands line by line:

  httpc > httpc get -v -h Accept:text/plain http://httpbin.org/get
  httpc > httpc post -h Content-Type:application/json -d '{"a": 1}' http://httpbin.org/post
  httpc > httpc help post

The same commands run once from the shell:

  httpc get http://httpbin.org/status/418
  httpc post -f body.txt http://httpbin.org/post`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          replCommand,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		if !alreadyReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}

func init() {
	registerSettingsFlags(rootCmd)
	rootCmd.Flags().BoolVar(&watchConfigFlag, "watch-config", false, "Reload the config file when it changes")

	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func replCommand(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	a := newApp(cmd, cfg, true)
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := runner.NewSession(a.runner, cmd.InOrStdin(), runner.WithPrompt(cfg.Prompt))
	if session.Interactive() {
		a.runner.Formatter().FormatHeader(version)
	}

	if watchConfigFlag {
		if configPath == "" {
			a.logger.Warn().Msg("--watch-config given but no config file was found")
		} else {
			overlay, err := settingsOverlay(cmd)
			if err != nil {
				return err
			}
			go func() {
				err := config.Watch(ctx, configPath, func(fileCfg *config.Config) {
					next := fileCfg.Merge(overlay)
					a.apply(next)
					session.SetPrompt(next.Prompt)
					a.logger.Info().Str("path", configPath).Msg("config reloaded")
				}, func(err error) {
					a.logger.Warn().Err(err).Msg("config watch")
				})
				if err != nil {
					a.logger.Warn().Err(err).Msg("config watch stopped")
				}
			}()
		}
	}

	return session.Run(ctx)
}
