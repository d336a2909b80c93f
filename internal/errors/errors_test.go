package errors

import (
	"strings"
	"testing"
)

func TestDiagnosticFormat(t *testing.T) {
	err := New(LexError, "Syntax error! Failed to identify symbol", "main.he", 0, 5).
		WithSource("x <- ?")

	want := "[err] Syntax error! Failed to identify symbol (1, 6) in main.he:\n" +
		"\t|\n" +
		"\t| 0001 x <- ?\n" +
		"\t| " + strings.Repeat("~", 10) + "^"
	if got := err.Error(); got != want {
		t.Errorf("diagnostic mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiagnosticLineNumberPadding(t *testing.T) {
	err := New(ParseError, "Unexpected token", "big.he", 122, 0).WithSource("oops")
	if !strings.Contains(err.Error(), "| 0123 oops") {
		t.Errorf("expected zero-padded line number, got:\n%s", err.Error())
	}
}

func TestExtractLine(t *testing.T) {
	source := "first\nsecond\nthird"
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"first line", 0, "first"},
		{"middle line", 6, "second"},
		{"last line without newline", 13, "third"},
		{"offset out of range", 99, ""},
		{"negative offset", -1, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ExtractLine(source, test.offset); got != test.want {
				t.Errorf("ExtractLine(%d) = %q, want %q", test.offset, got, test.want)
			}
		})
	}
}
