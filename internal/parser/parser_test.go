package parser

import (
	"strings"
	"testing"

	"github.com/Supamang2122/helium-interpreter/internal/lexer"
)

func parseSource(t *testing.T, source string) *Node {
	t.Helper()
	tokens, err := lexer.New(source, "test.he").Lexify()
	if err != nil {
		t.Fatalf("lexing %q failed: %v", source, err)
	}
	root, err := Parse(tokens, source, "test.he")
	if err != nil {
		t.Fatalf("parsing %q failed: %v", source, err)
	}
	return root
}

func parseError(t *testing.T, source string) error {
	t.Helper()
	tokens, err := lexer.New(source, "test.he").Lexify()
	if err != nil {
		t.Fatalf("lexing %q failed: %v", source, err)
	}
	_, err = Parse(tokens, source, "test.he")
	if err == nil {
		t.Fatalf("expected parsing %q to fail", source)
	}
	return err
}

// exprOf fetches the expression of the first assignment statement.
func exprOf(t *testing.T, source string) *Node {
	t.Helper()
	root := parseSource(t, source)
	if len(root.Children) == 0 || root.Children[0].Kind != Assign {
		t.Fatalf("expected an assignment, got %s", root.String())
	}
	return root.Children[0].Children[0]
}

// ===== Precedence and associativity =====

func TestPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"mul binds tighter than add", "x <- 1 + 2 * 3", "(+ 0:1 1:(* 0:2 1:3))"},
		{"mul on the left", "x <- 2 * 3 + 1", "(+ 0:(* 0:2 1:3) 1:1)"},
		{"left associative sub", "x <- 1 - 2 - 3", "(- 0:(- 0:1 1:2) 1:3)"},
		{"comparison over arithmetic", "x <- 1 + 2 < 3 * 4", "(< 0:(+ 0:1 1:2) 1:(* 0:3 1:4))"},
		{"equality under comparison", "x <- 1 < 2 == 3 < 4", "(== 0:(< 0:1 1:2) 1:(< 0:3 1:4))"},
		{"and binds tighter than or", "x <- a && b || c", "(|| 0:(&& 0:a 1:b) 1:c)"},
		{"or under and on the right", "x <- a || b && c", "(|| 0:a 1:(&& 0:b 1:c))"},
		{"bitwise and over or", "x <- a & b | c", "(| 0:(& 0:a 1:b) 1:c)"},
		{"parens override", "x <- (1 + 2) * 3", "(* 0:(+ 0:1 1:2) 1:3)"},
		{"mod with add", "x <- 10 % 3 + 1", "(+ 0:(% 0:10 1:3) 1:1)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := exprOf(t, test.source).String(); got != test.want {
				t.Errorf("parsed %q as %s, want %s", test.source, got, test.want)
			}
		})
	}
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"negation", "x <- -5", "(- 0:5)"},
		{"logical not", "x <- !a", "(! 0:a)"},
		{"unary after operator", "x <- 1 + -2", "(+ 0:1 1:(- 0:2))"},
		{"unary binds tighter than binary", "x <- -a * b", "(* 0:(- 0:a) 1:b)"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := exprOf(t, test.source).String(); got != test.want {
				t.Errorf("parsed %q as %s, want %s", test.source, got, test.want)
			}
		})
	}
}

func TestInvalidUnary(t *testing.T) {
	parseError(t, "x <- * 5")
}

// ===== Statements =====

func TestAssignment(t *testing.T) {
	root := parseSource(t, "x <- 42")
	stmt := root.Children[0]
	if stmt.Kind != Assign || stmt.Value != "x" {
		t.Fatalf("got %s", root.String())
	}
	if stmt.Children[0].Kind != Integer || stmt.Children[0].Value != "42" {
		t.Errorf("assignment value = %s", stmt.Children[0].String())
	}
}

func TestNewlinesSeparateStatements(t *testing.T) {
	root := parseSource(t, "\n\nx <- 1\n\ny <- 2\n")
	if len(root.Children) != 2 {
		t.Fatalf("got %d statements, want 2: %s", len(root.Children), root.String())
	}
}

func TestCallStatement(t *testing.T) {
	root := parseSource(t, "@print(1, 2)")
	call := root.Children[0]
	if call.Kind != Call {
		t.Fatalf("got %s", root.String())
	}
	if len(call.Children) != 3 {
		t.Fatalf("call has %d children, want callee + 2 args", len(call.Children))
	}
	if call.Children[0].Kind != Reference || call.Children[0].Value != "print" {
		t.Errorf("callee = %s", call.Children[0].String())
	}
}

func TestCallOnTableField(t *testing.T) {
	root := parseSource(t, "@handlers.run(1)")
	call := root.Children[0]
	if call.Children[0].Kind != Get {
		t.Errorf("callee = %s, want a table get", call.Children[0].String())
	}
}

func TestLoopStatement(t *testing.T) {
	root := parseSource(t, "loop x < 10 {\n\tx <- x + 1\n}")
	loop := root.Children[0]
	if loop.Kind != Loop {
		t.Fatalf("got %s", root.String())
	}
	if loop.Children[0].Kind != BinaryExpr {
		t.Errorf("loop condition = %s", loop.Children[0].String())
	}
	if loop.Children[1].Kind != Block || len(loop.Children[1].Children) != 1 {
		t.Errorf("loop body = %s", loop.Children[1].String())
	}
}

func TestReturnStatement(t *testing.T) {
	root := parseSource(t, "return 1 + 2")
	ret := root.Children[0]
	if ret.Kind != Return || ret.Value != "ret" {
		t.Fatalf("got %s", root.String())
	}
}

func TestIncludeStatement(t *testing.T) {
	root := parseSource(t, "include \"lib.he\"")
	inc := root.Children[0]
	if inc.Kind != Include || inc.Value != "lib.he" {
		t.Fatalf("got %s", root.String())
	}
}

func TestIncludeRequiresString(t *testing.T) {
	parseError(t, "include 42")
}

// ===== Branch chains =====

func TestBranchShape(t *testing.T) {
	root := parseSource(t, "if x < 0 { y <- 1 } else { y <- 2 }")
	br := root.Children[0]
	if br.Kind != Branches || br.Value != "conditional" {
		t.Fatalf("got %s", root.String())
	}
	if len(br.Children) != 3 {
		t.Fatalf("conditional has %d children, want cond + body + alt", len(br.Children))
	}
	alt := br.Children[2]
	if alt.Kind != Branches || alt.Value != "alt" || len(alt.Children) != 1 {
		t.Errorf("alt = %s", alt.String())
	}
}

func TestElseIfChain(t *testing.T) {
	root := parseSource(t, "if a { x <- 1 } else if b { x <- 2 } else { x <- 3 }")
	first := root.Children[0]
	if first.Value != "conditional" || len(first.Children) != 3 {
		t.Fatalf("first = %s", first.String())
	}
	second := first.Children[2]
	if second.Value != "conditional" || len(second.Children) != 3 {
		t.Fatalf("second = %s", second.String())
	}
	if last := second.Children[2]; last.Value != "alt" {
		t.Errorf("chain terminator = %s", last.String())
	}
}

func TestBareIf(t *testing.T) {
	root := parseSource(t, "if a { x <- 1 }")
	br := root.Children[0]
	if len(br.Children) != 2 {
		t.Errorf("bare if has %d children, want 2", len(br.Children))
	}
}

func TestMissingBrace(t *testing.T) {
	parseError(t, "if a x <- 1")
}

// ===== Functions =====

func TestFunctionDefinition(t *testing.T) {
	root := parseSource(t, "f <- $(a, b) {\n\treturn a + b\n}")
	fn := root.Children[0].Children[0]
	if fn.Kind != Function {
		t.Fatalf("got %s", root.String())
	}
	params := fn.Children[0]
	if params.Kind != Params || params.Value != "args" || len(params.Children) != 2 {
		t.Fatalf("params = %s", params.String())
	}
	if params.Children[0].Value != "a" || params.Children[1].Value != "b" {
		t.Errorf("param names = %s", params.String())
	}
	if fn.Children[1].Kind != Block {
		t.Errorf("function body = %s", fn.Children[1].String())
	}
}

func TestEmptyParameterList(t *testing.T) {
	root := parseSource(t, "f <- $() { return 1 }")
	fn := root.Children[0].Children[0]
	if len(fn.Children[0].Children) != 0 {
		t.Errorf("params = %s", fn.Children[0].String())
	}
}

// ===== Tables =====

func TestTableConstructor(t *testing.T) {
	root := parseSource(t, "t <- { \"a\" : 1, \"b\" : 2 }")
	table := root.Children[0].Children[0]
	if table.Kind != Table || len(table.Children) != 2 {
		t.Fatalf("got %s", root.String())
	}
	pair := table.Children[0]
	if pair.Kind != KvPair || pair.Children[0].Value != "a" || pair.Children[1].Value != "1" {
		t.Errorf("first pair = %s", pair.String())
	}
}

func TestTableConstructorAcrossLines(t *testing.T) {
	root := parseSource(t, "t <- {\n\t\"a\" : 1,\n\t\"b\" : 2\n}")
	table := root.Children[0].Children[0]
	if len(table.Children) != 2 {
		t.Errorf("got %s", table.String())
	}
}

func TestEmptyTable(t *testing.T) {
	root := parseSource(t, "t <- {}")
	if table := root.Children[0].Children[0]; table.Kind != Table || len(table.Children) != 0 {
		t.Errorf("got %s", table.String())
	}
}

func TestTablePutForms(t *testing.T) {
	root := parseSource(t, "t[\"a\"] <- 1\nt.b <- 2")
	bracket := root.Children[0]
	if bracket.Kind != Put || bracket.Value != "t" || bracket.Children[0].Value != "a" {
		t.Fatalf("bracket put = %s", bracket.String())
	}
	dot := root.Children[1]
	if dot.Kind != Put || dot.Children[0].Kind != String || dot.Children[0].Value != "b" {
		t.Fatalf("dot put = %s", dot.String())
	}
}

func TestTableGetForms(t *testing.T) {
	root := parseSource(t, "x <- t[\"a\"]\ny <- t.b")
	bracket := root.Children[0].Children[0]
	if bracket.Kind != Get || bracket.Children[0].Value != "a" {
		t.Fatalf("bracket get = %s", bracket.String())
	}
	dot := root.Children[1].Children[0]
	if dot.Kind != Get || dot.Children[0].Kind != String || dot.Children[0].Value != "b" {
		t.Fatalf("dot get = %s", dot.String())
	}
}

// ===== Errors =====

func TestPrematureEof(t *testing.T) {
	err := parseError(t, "x <- 1 +")
	if !strings.Contains(err.Error(), "prematurely") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestDanglingAssign(t *testing.T) {
	parseError(t, "a <- ")
}

func TestUnexpectedToken(t *testing.T) {
	parseError(t, ") <- 1")
}
