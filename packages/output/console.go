package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	pretty  bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithVerbose forces the full raw response for every command
func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

// WithPretty indents JSON bodies
func WithPretty(p bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.pretty = p
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// FormatResponse prints the complete raw response when verbose, otherwise
// only the content after the first blank line. A response without a blank
// line has no body to show.
func (f *ConsoleFormatter) FormatResponse(resp *http.Response, verbose bool) {
	if verbose || f.verbose {
		f.writeVerbose(resp)
		return
	}

	body := resp.Body()
	if body == nil {
		return
	}
	f.writeBody(body)
}

func (f *ConsoleFormatter) writeVerbose(resp *http.Response) {
	raw := string(resp.Raw)
	statusLine, rest, found := strings.Cut(raw, "\r\n")

	fmt.Fprint(f.writer, f.statusColor(resp.StatusCode()).Sprint(statusLine))
	if found {
		fmt.Fprint(f.writer, "\r\n"+rest)
	}
	if !strings.HasSuffix(raw, "\n") {
		fmt.Fprintln(f.writer)
	}
}

func (f *ConsoleFormatter) writeBody(body []byte) {
	if f.pretty && gjson.ValidBytes(body) {
		body = []byte(gjson.GetBytes(body, "@pretty").Raw)
	}
	_, _ = f.writer.Write(body)
	if len(body) == 0 || body[len(body)-1] != '\n' {
		fmt.Fprintln(f.writer)
	}
}

func (f *ConsoleFormatter) statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen, color.Bold)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow, color.Bold)
	case code >= 400:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Bold)
	}
}

func (f *ConsoleFormatter) FormatHelp(topic string) {
	fmt.Fprintln(f.writer, HelpText(topic))
}

// FormatInvalid prints the fixed diagnostic for a rejected line
func (f *ConsoleFormatter) FormatInvalid() {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(f.writer, yellow(InvalidCommand))
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatPrompt(prompt string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprint(f.writer, cyan(prompt))
}

func (f *ConsoleFormatter) FormatNewline() {
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) FormatFarewell() {
	fmt.Fprintln(f.writer, Farewell)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("httpc"), version)
}

// FormatHistory prints entries one per line, newest first
func (f *ConsoleFormatter) FormatHistory(entries []*history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "No transactions recorded.")
		return
	}

	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, e := range entries {
		status := f.statusColor(e.StatusCode).Sprint(e.StatusCode)
		if e.Failed() {
			status = red("ERR")
		}
		fmt.Fprintf(f.writer, "%s  %-4s %s  %s %s\n",
			e.Time.Format("2006-01-02 15:04:05"),
			e.Method,
			status,
			e.URL,
			cyan(fmt.Sprintf("(%dms, %dB)", e.Duration.Milliseconds(), e.Bytes)),
		)
		if e.Failed() {
			fmt.Fprintf(f.writer, "    %s %s\n", red("→"), e.Error)
		}
	}
}

func (f *ConsoleFormatter) FormatStats(stats *history.Stats) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "%s\n", bold("Transactions"))
	fmt.Fprintf(f.writer, "  Total:     %d\n", stats.Total)
	fmt.Fprintf(f.writer, "  Errors:    %d (%.1f%%)\n", stats.Errors, stats.ErrorRate()*100)
	fmt.Fprintf(f.writer, "  Timed out: %d\n", stats.TimedOut)
	fmt.Fprintf(f.writer, "  Received:  %d bytes\n", stats.Bytes)
	fmt.Fprintf(f.writer, "%s\n", bold("Latency"))
	fmt.Fprintf(f.writer, "  Min: %v  Mean: %v  Max: %v\n", stats.Min, stats.Mean, stats.Max)
	fmt.Fprintf(f.writer, "  P50: %v  P95: %v  P99: %v\n", stats.P50, stats.P95, stats.P99)
}
