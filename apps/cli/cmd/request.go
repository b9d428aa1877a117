package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/spf13/cobra"
)

// get, post and help keep their own -v/-h/-d/-f syntax, so cobra leaves
// their arguments alone and they go through the same validator as REPL lines.

var getCmd = &cobra.Command{
	Use:   "get [-v] [-h key:value]... URL",
	Short: "Execute a HTTP GET request and print the response",
	Long: `Get executes a HTTP GET request for a given URL.

Examples:
  httpc get http://httpbin.org/get?course=networking
  httpc get -v -h Accept:application/json http://httpbin.org/get`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, "get", args, true)
	},
}

var postCmd = &cobra.Command{
	Use:   "post [-v] [-h key:value]... (-d 'data' | -f file) URL",
	Short: "Execute a HTTP POST request and print the response",
	Long: `Post executes a HTTP POST request for a given URL with inline data or from file.

Examples:
  httpc post -h Content-Type:application/json -d '{"Assignment": 1}' http://httpbin.org/post
  httpc post -v -f body.txt http://httpbin.org/post`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, "post", args, true)
	},
}

var helpCmd = &cobra.Command{
	Use:                "help [get|post]",
	Short:              "Print usage for httpc or one of its requests",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, "help", args, false)
	},
}

// runOnce executes a single command line built from shell arguments
func runOnce(cmd *cobra.Command, command string, args []string, withHistory bool) error {
	cfg, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	a := newApp(cmd, cfg, withHistory)
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	line := parser.JoinArgs(append([]string{command}, args...))
	_, err = a.runner.Execute(ctx, line)
	return err
}
