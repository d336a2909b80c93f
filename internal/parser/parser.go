// internal/parser/parser.go
package parser

import (
	he "github.com/Supamang2122/helium-interpreter/internal/errors"
	"github.com/Supamang2122/helium-interpreter/internal/lexer"
)

// Parser consumes a token stream and yields a syntax tree rooted at a block.
// Newlines separate statements and are stripped between statements, between
// a control keyword and its opening brace, and around table entries; inside
// an expression a newline terminates it.
type Parser struct {
	tokens   []lexer.Token
	position int
	source   string
	origin   string
}

// Parse returns the Block node for a complete token stream. The first
// diagnostic aborts parsing.
func Parse(tokens []lexer.Token, source, origin string) (root *Node, err error) {
	p := &Parser{tokens: tokens, source: source, origin: origin}

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*he.HeliumError); ok {
				root, err = nil, e
				return
			}
			panic(r)
		}
	}()

	root = NewNode("block", Block, lexer.Position{Origin: origin})
	if len(tokens) > 0 {
		root.Pos = tokens[0].Pos
	}
	p.parseStatements(root, lexer.Eof)
	return root, nil
}

// ---------- token helpers ----------

func (p *Parser) peek() lexer.Token {
	if p.position < len(p.tokens) {
		return p.tokens[p.position]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) lookahead1() lexer.Token {
	if p.position+1 < len(p.tokens) {
		return p.tokens[p.position+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) eat() lexer.Token {
	tok := p.peek()
	if !p.isEmpty() {
		p.position++
	}
	return tok
}

func (p *Parser) consume(kind lexer.TokenKind) lexer.Token {
	if p.peek().Kind != kind {
		p.errorf("Unexpected token")
	}
	return p.eat()
}

func (p *Parser) consumeOptional(kind lexer.TokenKind) bool {
	if !p.isEmpty() && p.peek().Kind == kind {
		p.eat()
		return true
	}
	return false
}

func (p *Parser) isEmpty() bool {
	return p.position >= len(p.tokens) || p.peek().Kind == lexer.Eof
}

func (p *Parser) skipNewlines() {
	for p.consumeOptional(lexer.Newline) {
	}
}

func (p *Parser) errorf(msg string) {
	tok := p.peek()
	panic(he.New(he.ParseError, msg, tok.Pos.Origin, tok.Pos.Line, tok.Pos.Column).
		WithSource(he.ExtractLine(p.source, tok.Pos.LineOffset)))
}

// ---------- statements ----------

func (p *Parser) parseStatements(block *Node, term lexer.TokenKind) {
	p.skipNewlines()
	for p.peek().Kind != term && !p.isEmpty() {
		block.Add(p.parseStatement())
		p.skipNewlines()
	}
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case lexer.Symbol:
		if k := p.lookahead1().Kind; k == lexer.LeftSquare || k == lexer.Dot {
			return p.parseTablePut()
		}
		return p.parseAssignment()
	case lexer.Call:
		return p.parseCall()
	case lexer.Loop:
		return p.parseLoop()
	case lexer.If:
		return p.parseBranches()
	case lexer.Include:
		return p.parseInclude()
	case lexer.Return:
		tok := p.eat()
		node := NewNode("ret", Return, tok.Pos)
		node.Add(p.parseExpression())
		return node
	}
	p.errorf("Unexpected token")
	return nil
}

func (p *Parser) parseAssignment() *Node {
	sym := p.consume(lexer.Symbol)
	p.consume(lexer.Assign)
	node := NewNode(sym.Value, Assign, sym.Pos)
	node.Add(p.parseExpression())
	return node
}

func (p *Parser) parseTablePut() *Node {
	sym := p.consume(lexer.Symbol)
	node := NewNode(sym.Value, Put, sym.Pos)
	node.Add(p.parseTableKey())
	p.consume(lexer.Assign)
	node.Add(p.parseExpression())
	return node
}

// parseTableKey consumes either a bracketed key expression or a dot-field,
// which desugars to a string literal key.
func (p *Parser) parseTableKey() *Node {
	if p.consumeOptional(lexer.LeftSquare) {
		key := p.parseExpression()
		p.consume(lexer.RightSquare)
		return key
	}
	p.consume(lexer.Dot)
	field := p.consume(lexer.Symbol)
	return NewNode(field.Value, String, field.Pos)
}

func (p *Parser) parseLoop() *Node {
	tok := p.consume(lexer.Loop)
	node := NewNode(tok.Value, Loop, tok.Pos)
	node.Add(p.parseExpression())
	node.Add(p.parseBraceBlock())
	return node
}

// parseBranches accepts an if-chain. An `else if` attaches a fresh
// conditional node as the last child of its predecessor; a bare `else`
// terminates the chain with an "alt" node holding only a body.
func (p *Parser) parseBranches() *Node {
	tok := p.consume(lexer.If)
	node := NewNode("conditional", Branches, tok.Pos)
	node.Add(p.parseExpression())
	node.Add(p.parseBraceBlock())

	p.skipNewlines()
	if p.consumeOptional(lexer.Else) {
		p.skipNewlines()
		if p.peek().Kind == lexer.If {
			node.Add(p.parseBranches())
		} else {
			alt := NewNode("alt", Branches, p.peek().Pos)
			alt.Add(p.parseBraceBlock())
			node.Add(alt)
		}
	}
	return node
}

func (p *Parser) parseInclude() *Node {
	tok := p.consume(lexer.Include)
	if p.peek().Kind != lexer.String {
		p.errorf("Include expects a string file path")
	}
	path := p.eat()
	return NewNode(path.Value, Include, tok.Pos)
}

// parseBraceBlock strips newlines before the brace so the opening `{` may
// sit on its own line.
func (p *Parser) parseBraceBlock() *Node {
	p.skipNewlines()
	open := p.consume(lexer.LeftBrace)
	block := NewNode("block", Block, open.Pos)
	p.parseStatements(block, lexer.RightBrace)
	p.consume(lexer.RightBrace)
	return block
}

// ---------- expressions ----------

// parseExpression runs the shunting-yard algorithm over primaries and
// binary operators. All binary operators are left-associative.
func (p *Parser) parseExpression() *Node {
	var primaries []*Node
	var operators []lexer.Token

	primaries = append(primaries, p.parsePrimary())

	for !p.isEmpty() && p.peek().Kind == lexer.Operator {
		op := p.eat()
		for len(operators) > 0 && p.precedence(op) <= p.precedence(operators[len(operators)-1]) {
			primaries, operators = applyOp(primaries, operators)
		}
		operators = append(operators, op)
		primaries = append(primaries, p.parsePrimary())
	}

	for len(operators) > 0 {
		primaries, operators = applyOp(primaries, operators)
	}
	return primaries[len(primaries)-1]
}

func (p *Parser) parsePrimary() *Node {
	if p.isEmpty() {
		p.errorf("Program has ended prematurely")
	}

	tok := p.peek()
	switch tok.Kind {
	case lexer.Integer:
		return NewNode(p.eat().Value, Integer, tok.Pos)
	case lexer.Float:
		return NewNode(p.eat().Value, Float, tok.Pos)
	case lexer.Bool:
		return NewNode(p.eat().Value, Bool, tok.Pos)
	case lexer.String:
		return NewNode(p.eat().Value, String, tok.Pos)
	case lexer.Null:
		return NewNode(p.eat().Value, Null, tok.Pos)

	case lexer.Symbol:
		if k := p.lookahead1().Kind; k == lexer.LeftSquare || k == lexer.Dot {
			sym := p.eat()
			node := NewNode(sym.Value, Get, sym.Pos)
			node.Add(p.parseTableKey())
			return node
		}
		return NewNode(p.eat().Value, Reference, tok.Pos)

	case lexer.Call:
		return p.parseCall()

	case lexer.Function:
		return p.parseFunction()

	case lexer.LeftParen:
		p.eat()
		node := p.parseExpression()
		p.consume(lexer.RightParen)
		return node

	case lexer.LeftBrace:
		return p.parseTable()

	case lexer.Operator:
		switch tok.Value {
		case "-", "+", "!", "~":
		default:
			p.errorf("Invalid unary operator")
		}
		node := NewNode(p.eat().Value, UnaryExpr, tok.Pos)
		node.Add(p.parsePrimary())
		return node
	}

	p.errorf("Failed to parse token")
	return nil
}

// parseCall parses `@callee(args...)`. The first child is the callee
// expression, the remaining children are the argument expressions.
func (p *Parser) parseCall() *Node {
	tok := p.consume(lexer.Call)
	node := NewNode("call", Call, tok.Pos)
	node.Add(p.parseExpression())
	p.consume(lexer.LeftParen)
	if p.peek().Kind != lexer.RightParen {
		node.Add(p.parseExpression())
		for p.consumeOptional(lexer.Separator) {
			node.Add(p.parseExpression())
		}
	}
	p.consume(lexer.RightParen)
	return node
}

func (p *Parser) parseFunction() *Node {
	tok := p.consume(lexer.Function)
	node := NewNode(tok.Value, Function, tok.Pos)

	params := NewNode("args", Params, p.peek().Pos)
	p.consume(lexer.LeftParen)
	if p.peek().Kind != lexer.RightParen {
		sym := p.consume(lexer.Symbol)
		params.Add(NewNode(sym.Value, Param, sym.Pos))
		for p.consumeOptional(lexer.Separator) {
			sym = p.consume(lexer.Symbol)
			params.Add(NewNode(sym.Value, Param, sym.Pos))
		}
	}
	p.consume(lexer.RightParen)

	node.Add(params)
	node.Add(p.parseBraceBlock())
	return node
}

// parseTable parses a table constructor `{ k : v, ... }` with newlines
// permitted around entries.
func (p *Parser) parseTable() *Node {
	open := p.consume(lexer.LeftBrace)
	node := NewNode("table", Table, open.Pos)

	p.skipNewlines()
	for p.peek().Kind != lexer.RightBrace {
		key := p.parseExpression()
		p.consume(lexer.Colon)
		pair := NewNode(":", KvPair, key.Pos)
		pair.Add(key)
		pair.Add(p.parseExpression())
		node.Add(pair)

		p.skipNewlines()
		if !p.consumeOptional(lexer.Separator) {
			break
		}
		p.skipNewlines()
	}
	p.consume(lexer.RightBrace)
	return node
}

// precedence returns the binding strength of a binary operator; higher
// binds tighter. The multi-character forms are matched on the whole glyph
// before falling back to the first character.
func (p *Parser) precedence(op lexer.Token) int {
	switch op.Value {
	case "&&":
		return 3
	case "||":
		return 2
	case "==", "!=":
		return 7
	case "<=", ">=":
		return 8
	}

	switch op.Value[0] {
	case '*', '/', '%':
		return 10
	case '+', '-':
		return 9
	case '<', '>':
		return 8
	case '&':
		return 6
	case '^':
		return 5
	case '|':
		return 4
	}

	p.errorf("Unknown operator received")
	return 0
}

// applyOp pops one operator and its two operands, pushing back the
// combined binary expression node.
func applyOp(primaries []*Node, operators []lexer.Token) ([]*Node, []lexer.Token) {
	op := operators[len(operators)-1]
	operators = operators[:len(operators)-1]

	v1 := primaries[len(primaries)-1]
	v0 := primaries[len(primaries)-2]
	primaries = primaries[:len(primaries)-2]

	expr := NewNode(op.Value, BinaryExpr, op.Pos)
	expr.Add(v0, v1)
	return append(primaries, expr), operators
}
