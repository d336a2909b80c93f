// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// Stage identifies which pipeline stage raised a diagnostic.
type Stage string

const (
	LexError     Stage = "LexError"
	ParseError   Stage = "ParseError"
	CompileError Stage = "CompileError"
	RuntimeError Stage = "RuntimeError"
)

// HeliumError is the single diagnostic type shared by every stage of the
// pipeline. Line and Column are zero-based; rendering adds one.
type HeliumError struct {
	Stage      Stage
	Message    string
	Origin     string
	Line       int
	Column     int
	SourceLine string
}

func New(stage Stage, message, origin string, line, column int) *HeliumError {
	return &HeliumError{
		Stage:   stage,
		Message: message,
		Origin:  origin,
		Line:    line,
		Column:  column,
	}
}

// WithSource attaches the text of the offending source line.
func (e *HeliumError) WithSource(line string) *HeliumError {
	e.SourceLine = line
	return e
}

// Error renders the diagnostic:
//
//	[err] <message> (<line>, <col>) in <origin>:
//		|
//		| 0001 <line text>
//		| ~~~~~^
func (e *HeliumError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[err] %s (%d, %d) in %s:\n", e.Message, e.Line+1, e.Column+1, e.Origin))
	sb.WriteString("\t|\n")
	sb.WriteString(fmt.Sprintf("\t| %04d %s\n", e.Line+1, e.SourceLine))
	sb.WriteString(fmt.Sprintf("\t| %s^", strings.Repeat("~", 5+e.Column)))
	return sb.String()
}

// ExtractLine returns the text of the line beginning at lineOffset.
func ExtractLine(source string, lineOffset int) string {
	if lineOffset < 0 || lineOffset >= len(source) {
		return ""
	}
	end := strings.IndexByte(source[lineOffset:], '\n')
	if end < 0 {
		return source[lineOffset:]
	}
	return source[lineOffset : lineOffset+end]
}
