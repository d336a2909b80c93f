// Package formatter prints a syntax tree back to helium source. Binary
// expressions are fully parenthesized, so re-parsing the output yields a
// structurally equal tree.
package formatter

import (
	"strings"

	"github.com/Supamang2122/helium-interpreter/internal/parser"
)

const indentUnit = "    "

// Format renders a top-level block, one statement per line.
func Format(root *parser.Node) string {
	var sb strings.Builder
	writeBlock(&sb, root, 0)
	return sb.String()
}

func writeBlock(sb *strings.Builder, block *parser.Node, depth int) {
	for _, stmt := range block.Children {
		sb.WriteString(strings.Repeat(indentUnit, depth))
		writeStatement(sb, stmt, depth)
		sb.WriteString("\n")
	}
}

func writeStatement(sb *strings.Builder, node *parser.Node, depth int) {
	switch node.Kind {
	case parser.Assign:
		sb.WriteString(node.Value + " <- " + exprString(node.Children[0]))
	case parser.Put:
		sb.WriteString(node.Value + "[" + exprString(node.Children[0]) + "] <- " + exprString(node.Children[1]))
	case parser.Call:
		sb.WriteString(exprString(node))
	case parser.Return:
		sb.WriteString("return " + exprString(node.Children[0]))
	case parser.Include:
		sb.WriteString("include \"" + node.Value + "\"")
	case parser.Loop:
		sb.WriteString("loop " + exprString(node.Children[0]) + " {\n")
		writeBlock(sb, node.Children[1], depth+1)
		sb.WriteString(strings.Repeat(indentUnit, depth) + "}")
	case parser.Branches:
		writeBranches(sb, node, depth)
	}
}

func writeBranches(sb *strings.Builder, node *parser.Node, depth int) {
	sb.WriteString("if " + exprString(node.Children[0]) + " {\n")
	writeBlock(sb, node.Children[1], depth+1)
	sb.WriteString(strings.Repeat(indentUnit, depth) + "}")

	for cur := node; len(cur.Children) == 3; {
		next := cur.Children[2]
		if next.Value == "alt" {
			sb.WriteString(" else {\n")
			writeBlock(sb, next.Children[0], depth+1)
			sb.WriteString(strings.Repeat(indentUnit, depth) + "}")
			return
		}
		sb.WriteString(" else if " + exprString(next.Children[0]) + " {\n")
		writeBlock(sb, next.Children[1], depth+1)
		sb.WriteString(strings.Repeat(indentUnit, depth) + "}")
		cur = next
	}
}

func exprString(node *parser.Node) string {
	switch node.Kind {
	case parser.Integer, parser.Float, parser.Bool, parser.Null, parser.Reference:
		return node.Value
	case parser.String:
		return "\"" + node.Value + "\""
	case parser.UnaryExpr:
		return node.Value + primaryString(node.Children[0])
	case parser.BinaryExpr:
		return "(" + exprString(node.Children[0]) + " " + node.Value + " " + exprString(node.Children[1]) + ")"
	case parser.Get:
		return node.Value + "[" + exprString(node.Children[0]) + "]"
	case parser.Call:
		args := make([]string, 0, len(node.Children)-1)
		for _, arg := range node.Children[1:] {
			args = append(args, exprString(arg))
		}
		return "@" + primaryString(node.Children[0]) + "(" + strings.Join(args, ", ") + ")"
	case parser.Function:
		return functionString(node)
	case parser.Table:
		return tableString(node)
	}
	return node.Value
}

// primaryString wraps expressions that only parse in primary position when
// parenthesized.
func primaryString(node *parser.Node) string {
	if node.Kind == parser.BinaryExpr {
		return "(" + exprString(node) + ")"
	}
	return exprString(node)
}

func functionString(node *parser.Node) string {
	params := node.Children[0]
	names := make([]string, 0, len(params.Children))
	for _, prm := range params.Children {
		names = append(names, prm.Value)
	}

	var sb strings.Builder
	sb.WriteString("$(" + strings.Join(names, ", ") + ") {\n")
	writeBlock(&sb, node.Children[1], 1)
	sb.WriteString("}")
	return sb.String()
}

func tableString(node *parser.Node) string {
	if len(node.Children) == 0 {
		return "{}"
	}
	entries := make([]string, 0, len(node.Children))
	for _, pair := range node.Children {
		entries = append(entries, exprString(pair.Children[0])+" : "+exprString(pair.Children[1]))
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}
