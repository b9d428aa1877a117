package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/core/runner"
	"github.com/abdul-hamid-achik/httpc/packages/output"
	"github.com/abdul-hamid-achik/httpc/packages/stress"
	"github.com/spf13/cobra"
)

var (
	benchRequestsFlag    int
	benchConcurrencyFlag int
	benchRateFlag        float64
	benchJSONFlag        bool
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags] <get|post> [request arguments] URL",
	Short: "Repeat a request and report latency percentiles",
	Long: `Repeat one get or post request and report latency percentiles.

Each repetition opens its own connection. Flags for bench come before the
request; everything from get/post on uses the normal request syntax.

Examples:
  httpc bench -n 100 get http://localhost:8080/status
  httpc bench -n 500 -c 10 -r 50 post -d '{"a": 1}' http://localhost:8080/items`,
	Args: cobra.MinimumNArgs(2),
	RunE: benchCommand,
}

func init() {
	benchCmd.Flags().SetInterspersed(false)
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", 10, "Number of transactions")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 1, "Transactions in flight at once")
	benchCmd.Flags().Float64VarP(&benchRateFlag, "rate", "r", 0, "Transactions started per second (0 = unlimited)")
	benchCmd.Flags().BoolVar(&benchJSONFlag, "json", false, "Print statistics as JSON")

	rootCmd.AddCommand(benchCmd)
}

func benchCommand(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	line := parser.JoinArgs(args)
	cl, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalid: %s\n  %v\n", line, err)
		return err
	}
	if cl.Command == parser.CommandHelp {
		return errors.New("bench needs a get or post request")
	}

	action, err := runner.Dispatch(cl, runner.OSFileReader{})
	if err != nil {
		return err
	}

	logger := buildLogger(cmd, cfg)
	r, err := stress.NewRunner(buildClient(cfg, logger), &stress.Config{
		Requests:    benchRequestsFlag,
		Concurrency: benchConcurrencyFlag,
		Rate:        benchRateFlag,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := r.Run(ctx, action.Request)
	if err != nil {
		logger.Warn().Err(err).Int("completed", len(result.Entries)).Msg("bench interrupted")
	}

	if benchJSONFlag {
		f := output.NewJSONFormatter(output.JSONWithWriter(cmd.OutOrStdout()))
		f.FormatStats(result.Stats)
		return f.Flush()
	}

	f := buildFormatter(cmd, cfg)
	f.FormatStats(result.Stats)
	fmt.Fprintf(cmd.OutOrStdout(), "  Elapsed: %v  Throughput: %.1f/s\n", result.Elapsed.Round(time.Millisecond), result.Throughput())
	return nil
}
