package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <command>",
	Short: "Check a command for syntax errors without executing it",
	Long: `Check a get, post or help command without opening a connection.
Unlike the REPL, which only says a line is invalid, validate points at the
offending token.

Examples:
  httpc validate get -v -h Accept:text/plain http://httpbin.org/get
  httpc validate post -d 'x' -f body.txt http://httpbin.org/post`,
	DisableFlagParsing: true,
	RunE:               validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	line := parser.JoinArgs(args)

	cl, err := parser.Parse(line)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Invalid: %s\n  %v\n", line, err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", cl)
	return nil
}
