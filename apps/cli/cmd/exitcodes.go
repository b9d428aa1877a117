package cmd

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/core/runner"
	"github.com/abdul-hamid-achik/httpc/packages/http"
)

// Exit codes for the httpc CLI. The REPL itself always exits with
// ExitSuccess once input ends; the others come from one-shot commands.
const (
	// ExitSuccess indicates the command completed
	ExitSuccess = 0

	// ExitFailure covers anything not listed below
	ExitFailure = 1

	// ExitFileError indicates the -f body file could not be read
	ExitFileError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a connection or transfer error
	ExitNetworkError = 4

	// ExitUsageError indicates a command that failed validation
	ExitUsageError = 64
)

type configError struct {
	Path string
	Err  error
}

func (e *configError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid settings: %v", e.Err)
	}
	return fmt.Sprintf("loading config %s: %v", e.Path, e.Err)
}

func (e *configError) Unwrap() error {
	return e.Err
}

func exitCode(err error) int {
	var (
		fileErr   *runner.FileError
		txErr     *http.TransactionError
		configErr *configError
	)

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, parser.ErrSyntax):
		return ExitUsageError
	case errors.As(err, &fileErr):
		return ExitFileError
	case errors.As(err, &txErr):
		return ExitNetworkError
	case errors.As(err, &configErr):
		return ExitConfigError
	default:
		return ExitFailure
	}
}

// alreadyReported is true for errors the console formatter has printed
func alreadyReported(err error) bool {
	var (
		fileErr *runner.FileError
		txErr   *http.TransactionError
	)
	return errors.Is(err, parser.ErrSyntax) || errors.As(err, &fileErr) || errors.As(err, &txErr)
}
