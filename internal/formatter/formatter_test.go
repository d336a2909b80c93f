package formatter

import (
	"testing"

	"github.com/Supamang2122/helium-interpreter/internal/lexer"
	"github.com/Supamang2122/helium-interpreter/internal/parser"
)

func parseSource(t *testing.T, source string) *parser.Node {
	t.Helper()
	tokens, err := lexer.New(source, "test.he").Lexify()
	if err != nil {
		t.Fatalf("lexing failed: %v", err)
	}
	root, err := parser.Parse(tokens, source, "test.he")
	if err != nil {
		t.Fatalf("parsing failed: %v", err)
	}
	return root
}

// structurallyEqual compares kind, value and children, ignoring positions.
func structurallyEqual(a, b *parser.Node) bool {
	if a.Kind != b.Kind || a.Value != b.Value || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !structurallyEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"x <- 1 + 2 * 3",
		"x <- (1 + 2) * 3",
		"x <- -y + 1",
		"s <- \"hello\" + \"world\"",
		"b <- 1 <= 2 && 3 != 4",
		"x <- 0\nloop x < 10 {\n    x <- x + 1\n}",
		"if a {\n    x <- 1\n} else if b {\n    x <- 2\n} else {\n    x <- 3\n}",
		"f <- $(a, b) {\n    return a + b\n}",
		"g <- $() {\n    return 1\n}",
		"t <- { \"a\" : 1, \"b\" : 2 }",
		"t <- {}",
		"t[\"k\"] <- 1\nz <- t[\"k\"]",
		"t.field <- 1\nz <- t.field",
		"@print(1, 2)",
		"include \"lib.he\"",
		"return 42",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := parseSource(t, src)
			printed := Format(first)
			second := parseSource(t, printed)
			if !structurallyEqual(first, second) {
				t.Errorf("round trip changed the tree\nsource:\n%s\nprinted:\n%s\nfirst:  %s\nsecond: %s",
					src, printed, first.String(), second.String())
			}
		})
	}
}

func TestFormatOutput(t *testing.T) {
	root := parseSource(t, "x<-1+2*3")
	want := "x <- (1 + (2 * 3))\n"
	if got := Format(root); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatNestedBlocks(t *testing.T) {
	root := parseSource(t, "loop a { loop b { x <- 1 } }")
	want := "loop a {\n    loop b {\n        x <- 1\n    }\n}\n"
	if got := Format(root); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}
