package parser

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenQuoted
	TokenIllegal
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of line"
	case TokenWord:
		return "word"
	case TokenQuoted:
		return "quoted text"
	case TokenIllegal:
		return "illegal"
	default:
		return "unknown"
	}
}

// Token is one whitespace-separated field of a command line. For quoted
// tokens Value keeps the quotes and Literal holds the text between them.
type Token struct {
	Type    TokenType
	Value   string
	Column  int
	Literal string
}

// Lexer splits a single command line into tokens. A field that starts with
// a single quote runs until a single quote followed by whitespace or the end
// of the line, so quotes inside the text are kept.
type Lexer struct {
	input   string
	pos     int
	readPos int
	ch      byte
	column  int
}

func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Column: l.column}

	switch {
	case l.pos >= len(l.input):
		tok.Type = TokenEOF
	case l.ch == '\'':
		tok = l.readQuoted()
	default:
		tok.Type = TokenWord
		tok.Value = l.readWord()
		tok.Literal = tok.Value
	}

	return tok
}

// Tokenize returns every token up to, not including, EOF
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.input) && !isWhitespace(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readQuoted() Token {
	col := l.column
	start := l.pos
	l.readChar()

	for l.pos < len(l.input) {
		if l.ch == '\'' && (isWhitespace(l.peekChar()) || l.peekChar() == 0) {
			l.readChar()
			raw := l.input[start:l.pos]
			return Token{
				Type:    TokenQuoted,
				Value:   raw,
				Column:  col,
				Literal: raw[1 : len(raw)-1],
			}
		}
		l.readChar()
	}

	return Token{
		Type:   TokenIllegal,
		Value:  l.input[start:],
		Column: col,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && isWhitespace(l.ch) {
		l.readChar()
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}
