package lexer

import (
	he "github.com/Supamang2122/helium-interpreter/internal/errors"
)

// Lexer walks a source buffer with a one-character lookahead window. The
// cursor starts one character before the buffer so that the first advance
// lands on offset zero.
type Lexer struct {
	source    string
	pos       Position
	current   byte
	lookahead byte
}

func New(source, origin string) *Lexer {
	lx := &Lexer{
		source: source,
		pos: Position{
			Line:       0,
			Column:     -1,
			CharOffset: -1,
			LineOffset: 0,
			Origin:     origin,
		},
	}
	if len(source) > 0 {
		lx.lookahead = source[0]
	}
	return lx
}

// Lexify scans the whole buffer and returns every non-whitespace,
// non-comment token in source order, terminated by a single Eof token.
func (lx *Lexer) Lexify() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := lx.lex()
		if err != nil {
			return nil, err
		}
		if tok.Kind == Eof {
			tokens = append(tokens, tok)
			return tokens, nil
		}
		if tok.Kind != Whitespace && tok.Kind != Comment {
			tokens = append(tokens, tok)
		}
	}
}

// lex classifies one token based on the lookahead character. The emitted
// token's position is the position of its first character.
func (lx *Lexer) lex() (Token, error) {
	pos := lx.pos
	pos.Column++
	pos.CharOffset++

	var kind TokenKind
	var buf []byte

	switch {
	case isAlpha(lx.lookahead):
		for {
			buf = append(buf, lx.advance())
			if !isAlphaNumeric(lx.lookahead) {
				break
			}
		}
		kind = keywordKind(string(buf))

	case isDigit(lx.lookahead):
		kind = Integer
		for {
			buf = append(buf, lx.advance())
			if !isDigit(lx.lookahead) {
				break
			}
		}
		if lx.lookahead == '.' && lx.CharOffset()+2 < len(lx.source) && isDigit(lx.source[lx.CharOffset()+2]) {
			kind = Float
			buf = append(buf, lx.advance())
			for isDigit(lx.lookahead) {
				buf = append(buf, lx.advance())
			}
		}

	case lx.lookahead == '"':
		kind = String
		lx.advance()
		for lx.lookahead != '"' {
			if lx.lookahead == 0 {
				return Token{}, lx.errorf(pos, "Unterminated string literal")
			}
			buf = append(buf, lx.advance())
		}
		lx.advance()

	case lx.checkPattern("<-"):
		kind = Assign
		buf = []byte("<-")

	case lx.checkPattern("<="), lx.checkPattern(">="),
		lx.checkPattern("=="), lx.checkPattern("!="),
		lx.checkPattern("&&"), lx.checkPattern("||"):
		kind = Operator
		buf = []byte(lx.source[pos.CharOffset : pos.CharOffset+2])

	default:
		c := lx.advance()
		switch c {
		case 0:
			kind = Eof
		case '\n':
			kind = Newline
		case ' ', '\r', '\t':
			kind = Whitespace
		case '+', '-', '*', '/', '%', '<', '>', '&', '|', '^', '~', '!':
			kind = Operator
			buf = append(buf, c)
		case '{':
			kind = LeftBrace
		case '}':
			kind = RightBrace
		case '(':
			kind = LeftParen
		case ')':
			kind = RightParen
		case '[':
			kind = LeftSquare
		case ']':
			kind = RightSquare
		case ',':
			kind = Separator
		case ':':
			kind = Colon
		case '.':
			kind = Dot
		case '@':
			kind = Call
		case '$':
			kind = Function
		case '#':
			kind = Comment
			for lx.lookahead != '\n' && lx.lookahead != 0 {
				lx.advance()
			}
		default:
			return Token{}, lx.errorf(pos, "Syntax error! Failed to identify symbol")
		}
	}

	return Token{Value: string(buf), Kind: kind, Pos: pos}, nil
}

// advance consumes one character and updates the cursor. On a newline the
// column resets and the line offset moves to the next character.
func (lx *Lexer) advance() byte {
	lx.current = lx.lookahead
	lx.pos.CharOffset++
	if lx.pos.CharOffset+1 < len(lx.source) {
		lx.lookahead = lx.source[lx.pos.CharOffset+1]
	} else {
		lx.lookahead = 0
	}

	if lx.current == '\n' {
		lx.pos.Column = -1
		lx.pos.Line++
		lx.pos.LineOffset = lx.pos.CharOffset + 1
	} else {
		lx.pos.Column++
	}
	return lx.current
}

// checkPattern consumes pattern if the upcoming characters match it exactly.
func (lx *Lexer) checkPattern(pattern string) bool {
	start := lx.pos.CharOffset + 1
	if start+len(pattern) > len(lx.source) {
		return false
	}
	if lx.source[start:start+len(pattern)] != pattern {
		return false
	}
	for range pattern {
		lx.advance()
	}
	return true
}

// CharOffset exposes the cursor offset of the current character.
func (lx *Lexer) CharOffset() int {
	return lx.pos.CharOffset
}

func (lx *Lexer) errorf(pos Position, msg string) error {
	return he.New(he.LexError, msg, pos.Origin, pos.Line, pos.Column).
		WithSource(he.ExtractLine(lx.source, pos.LineOffset))
}

// keywordKind maps reserved identifiers to their token kinds; everything
// else is a plain symbol.
func keywordKind(s string) TokenKind {
	switch s {
	case "true", "false":
		return Bool
	case "null":
		return Null
	case "return":
		return Return
	case "if":
		return If
	case "else":
		return Else
	case "loop":
		return Loop
	case "include":
		return Include
	case "fn":
		return Function
	}
	return Symbol
}

func isAlpha(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
