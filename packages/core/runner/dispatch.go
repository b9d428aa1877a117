package runner

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
	"github.com/abdul-hamid-achik/httpc/packages/http"
)

// ActionKind tells the caller what a dispatched command wants done
type ActionKind int

const (
	ActionHelp ActionKind = iota
	ActionRequest
)

// Action is the outcome of Dispatch: either a help topic to print or a
// request ready for the engine with its body already resolved.
type Action struct {
	Kind      ActionKind
	HelpTopic string
	Request   *http.Request
	Verbose   bool
}

// FileReader returns the complete contents of a named file
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileReader reads from the local filesystem
type OSFileReader struct{}

func (OSFileReader) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// FileError is returned when a -f body cannot be read
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading body file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Dispatch turns an accepted command line into an Action. A POST body from
// a file is read in full before the request is built; if the read fails no
// request is produced.
func Dispatch(cl *parser.CommandLine, files FileReader) (*Action, error) {
	switch cl.Command {
	case parser.CommandHelp:
		return &Action{Kind: ActionHelp, HelpTopic: cl.HelpTopic}, nil

	case parser.CommandGet:
		req := http.NewRequest(http.MethodGet, cl.URL)
		for _, h := range cl.Headers {
			req.AddHeader(h)
		}
		return &Action{Kind: ActionRequest, Request: req, Verbose: cl.Verbose}, nil

	case parser.CommandPost:
		body, err := resolveBody(cl.Body, files)
		if err != nil {
			return nil, err
		}
		req := http.NewRequest(http.MethodPost, cl.URL).SetBody(body)
		for _, h := range cl.Headers {
			req.AddHeader(h)
		}
		return &Action{Kind: ActionRequest, Request: req, Verbose: cl.Verbose}, nil

	default:
		return nil, fmt.Errorf("unsupported command %q", cl.Command)
	}
}

func resolveBody(src parser.BodySource, files FileReader) (string, error) {
	switch src.Kind {
	case parser.BodyLiteral:
		return src.Value, nil
	case parser.BodyFile:
		if files == nil {
			files = OSFileReader{}
		}
		data, err := files.ReadFile(src.Value)
		if err != nil {
			return "", &FileError{Path: src.Value, Err: err}
		}
		return string(data), nil
	default:
		return "", nil
	}
}
