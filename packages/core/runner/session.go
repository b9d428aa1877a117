package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/httpc/packages/core/config"
	"github.com/mattn/go-isatty"
)

// maxLineSize bounds a single REPL line; inline bodies can be long
const maxLineSize = 1024 * 1024

// Session is the interactive loop: prompt, read a line, run it to
// completion, repeat. Lines are handled strictly one after another.
type Session struct {
	runner      *Runner
	input       io.Reader
	interactive bool

	mu     sync.RWMutex
	prompt string
}

type SessionOption func(*Session)

// NewSession reads commands from in. The prompt is shown only when in is a
// terminal unless WithInteractive says otherwise.
func NewSession(r *Runner, in io.Reader, opts ...SessionOption) *Session {
	s := &Session{
		runner:      r,
		input:       in,
		interactive: isTerminal(in),
		prompt:      config.DefaultPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithPrompt(p string) SessionOption {
	return func(s *Session) {
		if p != "" {
			s.prompt = p
		}
	}
}

func WithInteractive(b bool) SessionOption {
	return func(s *Session) {
		s.interactive = b
	}
}

// Interactive reports whether prompts are printed
func (s *Session) Interactive() bool {
	return s.interactive
}

func (s *Session) SetPrompt(p string) {
	if p == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = p
}

func (s *Session) currentPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prompt
}

// Run processes input until it ends or ctx is canceled, then prints the
// farewell. Per-command failures are printed by the runner and never stop
// the loop; only a failing input source is returned.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan inputLine)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()
		err = readLines(ctx, s.input, lines)
	}()

	for {
		if ctx.Err() != nil {
			s.farewell()
			return nil
		}
		if s.interactive {
			s.runner.Formatter().FormatPrompt(s.currentPrompt())
		}

		select {
		case <-ctx.Done():
			s.farewell()
			return nil

		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil && ctx.Err() == nil {
					return fmt.Errorf("reading input: %w", err)
				}
				s.farewell()
				return nil
			}

			if line.tooLong {
				s.runner.logger.Warn().Int("limit", maxLineSize).Msg("input line too long")
				s.runner.Formatter().FormatInvalid()
				continue
			}

			text := strings.TrimSpace(line.text)
			if text == "" {
				continue
			}
			_, _ = s.runner.Execute(ctx, text)
		}
	}
}

type inputLine struct {
	text    string
	tooLong bool
}

// readLines feeds lines until EOF or ctx is done. A line longer than
// maxLineSize is drained and reported with tooLong set.
func readLines(ctx context.Context, in io.Reader, lines chan<- inputLine) error {
	reader := bufio.NewReaderSize(in, 64*1024)
	for {
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return nil
		}
	}
}

func readLine(r *bufio.Reader) (inputLine, error) {
	var (
		line inputLine
		buf  []byte
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return line, err
		}
		if !line.tooLong {
			if len(buf)+len(chunk) > maxLineSize {
				line.tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			line.text = string(buf)
			return line, nil
		}
	}
}

func (s *Session) farewell() {
	f := s.runner.Formatter()
	if s.interactive {
		f.FormatNewline()
	}
	f.FormatFarewell()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
