package parser

import (
	"strings"
)

type CommandType int

const (
	CommandHelp CommandType = iota
	CommandGet
	CommandPost
)

func (c CommandType) String() string {
	switch c {
	case CommandHelp:
		return "help"
	case CommandGet:
		return "get"
	case CommandPost:
		return "post"
	default:
		return "unknown"
	}
}

type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyLiteral
	BodyFile
)

// BodySource is where a POST body comes from: the inline -d text or the
// path given with -f
type BodySource struct {
	Kind  BodyKind
	Value string
}

// CommandLine is the structured form of an accepted input line
type CommandLine struct {
	Command   CommandType
	Verbose   bool
	Headers   []string
	Body      BodySource
	URL       string
	HelpTopic string
}

// String renders the command back into the canonical single-line form
func (c *CommandLine) String() string {
	parts := []string{Program, c.Command.String()}

	if c.Command == CommandHelp {
		if c.HelpTopic != "" {
			parts = append(parts, c.HelpTopic)
		}
		return strings.Join(parts, " ")
	}

	if c.Verbose {
		parts = append(parts, "-v")
	}
	for _, h := range c.Headers {
		parts = append(parts, "-h", h)
	}
	switch c.Body.Kind {
	case BodyLiteral:
		parts = append(parts, "-d", "'"+c.Body.Value+"'")
	case BodyFile:
		parts = append(parts, "-f", c.Body.Value)
	}
	parts = append(parts, c.URL)

	return strings.Join(parts, " ")
}

// JoinArgs builds a command line from already-split shell arguments, e.g.
// os.Args after the program name. The value following -d is quoted again
// since the shell has stripped its quotes.
func JoinArgs(args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Program)

	for i := 0; i < len(args); i++ {
		parts = append(parts, args[i])
		if strings.EqualFold(args[i], "-d") && i+1 < len(args) {
			i++
			parts = append(parts, "'"+args[i]+"'")
		}
	}

	return strings.Join(parts, " ")
}
