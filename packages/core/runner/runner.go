package runner

import (
	"context"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/history"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/abdul-hamid-achik/httpc/packages/output"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder stores finished transactions
type Recorder interface {
	Record(ctx context.Context, e *history.Entry) error
}

// Runner validates one command line at a time, dispatches it and prints the
// outcome. Engine and formatter can be swapped between commands when the
// configuration changes.
type Runner struct {
	mu        sync.RWMutex
	client    *http.Client
	formatter *output.ConsoleFormatter

	recorder Recorder
	files    FileReader
	logger   zerolog.Logger
}

type Option func(*Runner)

func NewRunner(client *http.Client, formatter *output.ConsoleFormatter, opts ...Option) *Runner {
	if client == nil {
		client = http.NewClient()
	}
	if formatter == nil {
		formatter = output.NewConsoleFormatter()
	}

	r := &Runner{
		client:    client,
		formatter: formatter,
		files:     OSFileReader{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithRecorder records every get/post transaction, successful or not
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

func WithFileReader(f FileReader) Option {
	return func(r *Runner) {
		if f != nil {
			r.files = f
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

func (r *Runner) SetClient(c *http.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = c
}

func (r *Runner) SetFormatter(f *output.ConsoleFormatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatter = f
}

func (r *Runner) Formatter() *output.ConsoleFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatter
}

func (r *Runner) snapshot() (*http.Client, *output.ConsoleFormatter) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client, r.formatter
}

// Result describes what Execute did with a line
type Result struct {
	Command  *parser.CommandLine
	Action   *Action
	Response *http.Response
}

// Execute handles a single input line. Everything the user should see is
// printed before it returns; the error is only for callers that need an
// exit status. A rejected line prints the fixed diagnostic and never
// touches the network.
func (r *Runner) Execute(ctx context.Context, line string) (*Result, error) {
	client, formatter := r.snapshot()

	cl, err := parser.Parse(line)
	if err != nil {
		r.logger.Debug().Err(err).Str("line", line).Msg("command rejected")
		formatter.FormatInvalid()
		return nil, err
	}

	result := &Result{Command: cl}

	action, err := Dispatch(cl, r.files)
	if err != nil {
		formatter.FormatError(err)
		return result, err
	}
	result.Action = action

	if action.Kind == ActionHelp {
		formatter.FormatHelp(action.HelpTopic)
		return result, nil
	}

	start := time.Now()
	resp, err := client.Execute(ctx, action.Request)
	r.record(ctx, cl, action.Request, resp, err, time.Since(start))
	if err != nil {
		formatter.FormatError(err)
		return result, err
	}

	result.Response = resp
	formatter.FormatResponse(resp, action.Verbose)
	return result, nil
}

func (r *Runner) record(ctx context.Context, cl *parser.CommandLine, req *http.Request, resp *http.Response, txErr error, elapsed time.Duration) {
	if r.recorder == nil {
		return
	}

	entry := &history.Entry{
		ID:       uuid.NewString(),
		Time:     time.Now(),
		Method:   string(req.Method),
		URL:      req.URL,
		Command:  cl.String(),
		Duration: elapsed,
	}
	if resp != nil {
		entry.ID = resp.ID
		entry.StatusCode = resp.StatusCode()
		entry.Bytes = resp.Size()
		entry.Duration = resp.Duration
		entry.TimedOut = resp.TimedOut
	}
	if txErr != nil {
		entry.Error = txErr.Error()
	}

	if err := r.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Warn().Err(err).Str("tx", entry.ID).Msg("failed to record transaction")
	}
}
