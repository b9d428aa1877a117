package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/httpc/packages/import/curl"
	"github.com/spf13/cobra"
)

var (
	importOutputFlag  string
	importVerboseFlag bool
)

var importCmd = &cobra.Command{
	Use:   "import <format> <source>",
	Short: "Convert requests from other tools into httpc commands",
	Long: `Convert requests from other tools into httpc commands.

Supported formats:
  curl - curl command lines, one per line (backslash continuations allowed)

The output can be fed straight into the prompt:
  httpc import curl requests.sh | httpc`,
}

var importCurlCmd = &cobra.Command{
	Use:   "curl <file|command>",
	Short: "Import from curl commands",
	Long: `Convert curl commands into httpc get/post commands.

Only what HTTP/1.0 get and post can express is converted. Options with no
httpc equivalent are dropped with a warning on stderr; commands that cannot
be expressed at all are an error.

Examples:
  httpc import curl requests.sh
  httpc import curl "curl -H 'Accept: text/plain' http://httpbin.org/get"
  httpc import curl requests.sh -o requests.httpc`,
	Args: cobra.ExactArgs(1),
	RunE: importCurlCommand,
}

func init() {
	importCurlCmd.Flags().StringVarP(&importOutputFlag, "output", "o", "", "Output file path (default: stdout)")
	importCurlCmd.Flags().BoolVar(&importVerboseFlag, "verbose-requests", false, "Add -v to every generated command")

	importCmd.AddCommand(importCurlCmd)
	rootCmd.AddCommand(importCmd)
}

func importCurlCommand(cmd *cobra.Command, args []string) error {
	source := args[0]
	converter := curl.NewConverter(curl.WithVerbose(importVerboseFlag))

	var results []*curl.Result
	if strings.HasPrefix(strings.TrimSpace(source), "curl ") {
		result, err := converter.ConvertCommand(source)
		if err != nil {
			return fmt.Errorf("failed to convert curl command: %w", err)
		}
		results = append(results, result)
	} else {
		var err error
		results, err = converter.ConvertFile(source)
		if err != nil {
			return fmt.Errorf("failed to convert %s: %w", source, err)
		}
	}

	var sb strings.Builder
	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", r.Line, w)
		}
		sb.WriteString(r.Line)
		sb.WriteString("\n")
	}

	if importOutputFlag == "" {
		fmt.Fprint(cmd.OutOrStdout(), sb.String())
		return nil
	}

	if dir := filepath.Dir(importOutputFlag); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(importOutputFlag, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d commands to %s\n", len(results), importOutputFlag)
	return nil
}
