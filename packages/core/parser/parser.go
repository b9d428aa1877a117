package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Program is the leading keyword every command line starts with
const Program = "httpc"

// ErrSyntax is wrapped by every rejection from Parse
var ErrSyntax = errors.New("invalid command syntax")

// SyntaxError points at the token that made a line unacceptable
type SyntaxError struct {
	Column  int
	Token   string
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return "column " + strconv.Itoa(e.Column) + ": " + e.Message
	}
	return "column " + strconv.Itoa(e.Column) + ": " + e.Message + " (" + e.Token + ")"
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

type Parser struct {
	tokens []Token
	pos    int
	end    int
}

func NewParser(input string) *Parser {
	return &Parser{
		tokens: NewLexer(input).Tokenize(),
	}
}

// Parse validates a whole line against the get, post and help grammars and
// returns the extracted command. Keywords and flags are case-insensitive;
// -v, -h, -d and -f may appear in any order before the URL.
func Parse(line string) (*CommandLine, error) {
	return NewParser(line).Parse()
}

// Validate reports whether line matches one of the grammars in full
func Validate(line string) bool {
	_, err := Parse(line)
	return err == nil
}

// Extract returns the structured command of a line
func Extract(line string) (*CommandLine, error) {
	return Parse(line)
}

func (p *Parser) Parse() (*CommandLine, error) {
	for _, tok := range p.tokens {
		if tok.Type == TokenIllegal {
			return nil, p.errorAt(tok, "unterminated quoted text")
		}
	}

	if len(p.tokens) == 0 {
		return nil, &SyntaxError{Column: 1, Message: "empty command"}
	}
	if !strings.EqualFold(p.tokens[0].Value, Program) {
		return nil, p.errorAt(p.tokens[0], "command must start with "+Program)
	}
	if len(p.tokens) < 2 {
		return nil, p.errorAt(p.tokens[0], "missing command")
	}

	keyword := p.tokens[1]
	p.pos = 2

	switch strings.ToLower(keyword.Value) {
	case "help":
		return p.parseHelp()
	case "get":
		return p.parseRequest(CommandGet)
	case "post":
		return p.parseRequest(CommandPost)
	default:
		return nil, p.errorAt(keyword, "unknown command")
	}
}

func (p *Parser) parseHelp() (*CommandLine, error) {
	cmd := &CommandLine{Command: CommandHelp}

	switch len(p.tokens) - p.pos {
	case 0:
		return cmd, nil
	case 1:
		topic := p.tokens[p.pos]
		switch strings.ToLower(topic.Value) {
		case "get", "post":
			cmd.HelpTopic = strings.ToLower(topic.Value)
			return cmd, nil
		}
		return nil, p.errorAt(topic, "unknown help topic")
	default:
		return nil, p.errorAt(p.tokens[p.pos+1], "unexpected token")
	}
}

func (p *Parser) parseRequest(command CommandType) (*CommandLine, error) {
	if p.pos >= len(p.tokens) {
		return nil, p.errorAtEnd("missing URL")
	}

	// The last token is always the target.
	p.end = len(p.tokens) - 1
	target := p.tokens[p.end]
	if target.Type != TokenWord || !isValidURL(target.Value) {
		return nil, p.errorAt(target, "expected http:// or https:// URL")
	}

	cmd := &CommandLine{Command: command, URL: target.Value}

	for p.pos < p.end {
		flag := p.tokens[p.pos]
		p.pos++

		switch strings.ToLower(flag.Value) {
		case "-v":
			if cmd.Verbose {
				return nil, p.errorAt(flag, "-v given more than once")
			}
			cmd.Verbose = true

		case "-h":
			value, err := p.flagValue(flag, TokenWord)
			if err != nil {
				return nil, err
			}
			if !isValidHeader(value.Value) {
				return nil, p.errorAt(value, "header must be key:value")
			}
			cmd.Headers = append(cmd.Headers, value.Value)

		case "-d", "-f":
			if command != CommandPost {
				return nil, p.errorAt(flag, flag.Value+" is only allowed with post")
			}
			if cmd.Body.Kind != BodyNone {
				return nil, p.errorAt(flag, "-d and -f cannot be combined")
			}
			if strings.EqualFold(flag.Value, "-d") {
				value, err := p.flagValue(flag, TokenQuoted)
				if err != nil {
					return nil, err
				}
				if value.Literal == "" {
					return nil, p.errorAt(value, "inline data is empty")
				}
				cmd.Body = BodySource{Kind: BodyLiteral, Value: value.Literal}
			} else {
				value, err := p.flagValue(flag, TokenWord)
				if err != nil {
					return nil, err
				}
				cmd.Body = BodySource{Kind: BodyFile, Value: value.Value}
			}

		default:
			return nil, p.errorAt(flag, "unexpected token")
		}
	}

	if command == CommandPost && cmd.Body.Kind == BodyNone {
		return nil, p.errorAt(target, "post requires -d or -f")
	}

	return cmd, nil
}

// flagValue consumes the token following flag, which must not be the URL
func (p *Parser) flagValue(flag Token, want TokenType) (Token, error) {
	if p.pos >= p.end {
		return Token{}, p.errorAt(flag, "missing value for "+flag.Value)
	}
	value := p.tokens[p.pos]
	p.pos++
	if value.Type != want {
		return Token{}, p.errorAt(value, fmt.Sprintf("%s expects %s", flag.Value, want))
	}
	return value, nil
}

func (p *Parser) errorAt(tok Token, msg string) error {
	return &SyntaxError{Column: tok.Column, Token: tok.Value, Message: msg}
}

func (p *Parser) errorAtEnd(msg string) error {
	col := 1
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		col = last.Column + len(last.Value)
	}
	return &SyntaxError{Column: col, Message: msg}
}

func isValidHeader(h string) bool {
	key, value, found := strings.Cut(h, ":")
	if !found || key == "" || value == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isTokenChar(key[i]) {
			return false
		}
	}
	return true
}

// isTokenChar reports whether c may appear in a header field name
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0
}

func isValidURL(raw string) bool {
	var rest string
	switch {
	case hasPrefixFold(raw, "http://"):
		rest = raw[len("http://"):]
	case hasPrefixFold(raw, "https://"):
		rest = raw[len("https://"):]
	default:
		return false
	}

	hostPort, _, _ := strings.Cut(rest, "/")
	host := hostPort
	port := ""

	if strings.HasPrefix(hostPort, "[") {
		end := strings.Index(hostPort, "]")
		if end == -1 {
			return false
		}
		host = hostPort[1:end]
		tail := hostPort[end+1:]
		if tail != "" {
			if tail[0] != ':' {
				return false
			}
			port = tail[1:]
			if port == "" {
				return false
			}
		}
	} else if h, pt, found := strings.Cut(hostPort, ":"); found {
		host = h
		port = pt
		if port == "" {
			return false
		}
	}

	if host == "" || strings.ContainsAny(host, "?#") {
		return false
	}
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return false
		}
	}
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
