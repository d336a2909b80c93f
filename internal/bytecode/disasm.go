package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble decodes one instruction, resolving constant and symbol
// operands against the owning program.
func Disassemble(p *Program, i Instruction) string {
	op := i.Op()
	switch op.Operand() {
	case SignedOperand:
		return fmt.Sprintf("%-6s %d", op, i.Sx())
	case UnsignedOperand:
		return fmt.Sprintf("%-6s %d%s", op, i.Ux(), operandComment(p, i))
	}
	return op.String()
}

func operandComment(p *Program, i Instruction) string {
	ux := int(i.Ux())
	switch i.Op() {
	case OpPushK:
		if ux < len(p.Constants) {
			return " ; " + p.Constants[ux].String()
		}
	case OpLoadL, OpStorL, OpLoadG, OpStorG:
		return " ; " + p.Symbols.Name(ux)
	case OpLoadC, OpStorC:
		return " ; " + p.Closures.Name(ux)
	}
	return ""
}

// DisassembleProgram renders a whole program, then every program constant
// nested inside it.
func DisassembleProgram(p *Program) string {
	var sb strings.Builder
	writeProgram(&sb, p, "<main>")
	return sb.String()
}

func writeProgram(sb *strings.Builder, p *Program, label string) {
	fmt.Fprintf(sb, "%s (argc=%d, constants=%d, closures=%d):\n", label, p.Argc, len(p.Constants), p.Closures.Len())
	for idx, in := range p.Code {
		fmt.Fprintf(sb, "  %04d  %s\n", idx, Disassemble(p, in))
	}
	for idx, c := range p.Constants {
		if c.Kind == ProgramValue && c.Program.Native == nil {
			sb.WriteString("\n")
			writeProgram(sb, c.Program, fmt.Sprintf("%s.k%d", label, idx))
		}
	}
}
