package lexer

import "fmt"

type TokenKind uint8

const (
	Symbol TokenKind = iota
	Integer
	Float
	Bool
	String
	Null
	Operator
	Assign
	Call
	Function
	Loop
	If
	Else
	Return
	Include
	Separator
	Colon
	Dot
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	LeftSquare
	RightSquare
	Newline
	Whitespace
	Comment
	Eof
)

var kindNames = [...]string{
	Symbol:      "SYMBOL",
	Integer:     "INTEGER",
	Float:       "FLOAT",
	Bool:        "BOOL",
	String:      "STRING",
	Null:        "NULL",
	Operator:    "OPERATOR",
	Assign:      "ASSIGN",
	Call:        "CALL",
	Function:    "FUNCTION",
	Loop:        "LOOP",
	If:          "IF",
	Else:        "ELSE",
	Return:      "RETURN",
	Include:     "INCLUDE",
	Separator:   "SEPARATOR",
	Colon:       "COLON",
	Dot:         "DOT",
	LeftParen:   "LEFT_PAREN",
	RightParen:  "RIGHT_PAREN",
	LeftBrace:   "LEFT_BRACE",
	RightBrace:  "RIGHT_BRACE",
	LeftSquare:  "LEFT_SQUARE",
	RightSquare: "RIGHT_SQUARE",
	Newline:     "NEWLINE",
	Whitespace:  "WHITESPACE",
	Comment:     "COMMENT",
	Eof:         "EOF",
}

func (k TokenKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Position locates a byte in a source buffer. Line and Column are zero-based;
// LineOffset is the absolute offset of the current line's first character.
// Origin carries the source filename for diagnostics.
type Position struct {
	Line       int
	Column     int
	CharOffset int
	LineOffset int
	Origin     string
}

// Token is a positioned lexeme. Pos is frozen at the character starting the
// token and never changes after emission.
type Token struct {
	Value string
	Kind  TokenKind
	Pos   Position
}

func (t Token) String() string {
	return fmt.Sprintf("(%03d, %03d) %-12s %s", t.Pos.Line+1, t.Pos.Column+1, t.Kind, t.Value)
}
