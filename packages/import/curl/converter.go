// Package curl converts curl command lines into httpc commands.
package curl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/httpc/packages/core/parser"
)

// ErrUnsupported is returned for curl invocations httpc cannot express
var ErrUnsupported = errors.New("unsupported curl command")

// Converter converts curl commands to httpc commands.
type Converter struct {
	verbose bool
}

// Option is a functional option for Converter.
type Option func(*Converter)

// WithVerbose adds -v to every generated command.
func WithVerbose(v bool) Option {
	return func(c *Converter) {
		c.verbose = v
	}
}

// NewConverter creates a new curl converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsedCurl represents a parsed curl command.
type ParsedCurl struct {
	Method   string
	URL      string
	Headers  []string
	Body     string
	BodyFile string
	Verbose  bool

	// Ignored lists curl options that have no httpc equivalent
	Ignored []string
}

// Result is one converted command
type Result struct {
	Line     string
	Warnings []string
}

// ConvertCommand converts a single curl command.
func (c *Converter) ConvertCommand(curlCmd string) (*Result, error) {
	parsed, err := c.Parse(curlCmd)
	if err != nil {
		return nil, err
	}
	return c.ToHttpc(parsed)
}

// ConvertFile converts a file of curl commands, one per line with
// backslash continuations. Blank lines and # comments are skipped.
func (c *Converter) ConvertFile(path string) ([]*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return c.ConvertReader(file)
}

func (c *Converter) ConvertReader(r io.Reader) ([]*Result, error) {
	var commands []string
	var currentCmd strings.Builder
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, "\\") {
			currentCmd.WriteString(strings.TrimSuffix(line, "\\"))
			currentCmd.WriteString(" ")
			continue
		}

		currentCmd.WriteString(line)
		commands = append(commands, currentCmd.String())
		currentCmd.Reset()
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if currentCmd.Len() > 0 {
		commands = append(commands, currentCmd.String())
	}

	results := make([]*Result, 0, len(commands))
	for i, cmd := range commands {
		result, err := c.ConvertCommand(cmd)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// Parse parses a curl command string into a ParsedCurl struct.
func (c *Converter) Parse(curlCmd string) (*ParsedCurl, error) {
	parsed := &ParsedCurl{Method: "GET"}

	tokens := tokenize(strings.TrimSpace(curlCmd))
	if len(tokens) == 0 || tokens[0] != "curl" {
		return nil, fmt.Errorf("not a curl command: %q", curlCmd)
	}
	tokens = tokens[1:]

	methodSet := false
	value := func(i int) (string, error) {
		if i+1 >= len(tokens) {
			return "", fmt.Errorf("missing value for %s", tokens[i])
		}
		return tokens[i+1], nil
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch token {
		case "-X", "--request":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Method = strings.ToUpper(v)
			methodSet = true
			i++

		case "-H", "--header":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, v)
			i++

		case "-d", "--data", "--data-raw", "--data-binary", "--data-ascii":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			if file, ok := strings.CutPrefix(v, "@"); ok && token != "--data-raw" {
				parsed.BodyFile = file
				parsed.Body = ""
			} else {
				parsed.Body = v
				parsed.BodyFile = ""
			}
			if !methodSet {
				parsed.Method = "POST"
			}
			i++

		case "-A", "--user-agent":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "User-Agent:"+v)
			i++

		case "-e", "--referer":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "Referer:"+v)
			i++

		case "-b", "--cookie":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.Headers = append(parsed.Headers, "Cookie:"+v)
			i++

		case "-v", "--verbose", "-i", "--include":
			parsed.Verbose = true

		case "-u", "--user":
			// Credentials are never carried over.
			if _, err := value(i); err != nil {
				return nil, err
			}
			parsed.Ignored = append(parsed.Ignored, token)
			i++

		case "--url":
			v, err := value(i)
			if err != nil {
				return nil, err
			}
			parsed.URL = v
			i++

		default:
			if strings.HasPrefix(token, "-") {
				parsed.Ignored = append(parsed.Ignored, token)
				// Skip a value that is clearly not the URL.
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !isURL(tokens[i+1]) {
					i++
				}
				continue
			}
			if parsed.URL == "" && isURL(token) {
				parsed.URL = token
			}
		}
	}

	if parsed.URL == "" {
		return nil, fmt.Errorf("no URL found in curl command")
	}

	return parsed, nil
}

// ToHttpc renders a parsed command as an httpc line and checks that httpc
// accepts it.
func (c *Converter) ToHttpc(parsed *ParsedCurl) (*Result, error) {
	result := &Result{}
	for _, flag := range parsed.Ignored {
		result.Warnings = append(result.Warnings, fmt.Sprintf("ignored %s", flag))
	}
	if strings.HasPrefix(strings.ToLower(parsed.URL), "https://") {
		result.Warnings = append(result.Warnings, "https URL will be requested over plain TCP")
	}

	cl := &parser.CommandLine{
		URL:     parsed.URL,
		Verbose: c.verbose || parsed.Verbose,
	}

	switch parsed.Method {
	case "GET":
		cl.Command = parser.CommandGet
		if parsed.Body != "" || parsed.BodyFile != "" {
			return nil, fmt.Errorf("%w: GET with a body", ErrUnsupported)
		}
	case "POST":
		cl.Command = parser.CommandPost
		switch {
		case parsed.BodyFile != "":
			cl.Body = parser.BodySource{Kind: parser.BodyFile, Value: parsed.BodyFile}
		case parsed.Body != "":
			cl.Body = parser.BodySource{Kind: parser.BodyLiteral, Value: parsed.Body}
		default:
			return nil, fmt.Errorf("%w: POST without a body", ErrUnsupported)
		}
	default:
		return nil, fmt.Errorf("%w: method %s", ErrUnsupported, parsed.Method)
	}

	for _, h := range parsed.Headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("%w: malformed header %q", ErrUnsupported, h)
		}
		cl.Headers = append(cl.Headers, strings.TrimSpace(key)+":"+strings.TrimSpace(value))
	}

	result.Line = cl.String()
	if _, err := parser.Parse(result.Line); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	return result, nil
}

// tokenize splits a curl command into tokens, respecting quotes.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false
	escaped := false
	started := false

	for _, r := range cmd {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch r {
		case '\\':
			if inSingleQuote {
				current.WriteRune(r)
			} else {
				escaped = true
			}
		case '\'':
			if !inDoubleQuote {
				inSingleQuote = !inSingleQuote
				started = true
			} else {
				current.WriteRune(r)
			}
		case '"':
			if !inSingleQuote {
				inDoubleQuote = !inDoubleQuote
				started = true
			} else {
				current.WriteRune(r)
			}
		case ' ', '\t':
			if inSingleQuote || inDoubleQuote {
				current.WriteRune(r)
			} else if current.Len() > 0 || started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 || started {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// isURL checks if a string looks like a URL.
func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
