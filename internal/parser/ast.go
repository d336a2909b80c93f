package parser

import (
	"fmt"
	"strings"

	"github.com/Supamang2122/helium-interpreter/internal/lexer"
)

type NodeKind uint8

const (
	Block NodeKind = iota
	Assign
	Reference
	Integer
	Float
	Bool
	String
	Null
	UnaryExpr
	BinaryExpr
	Call
	Function
	Params
	Param
	Loop
	Branches
	Return
	Include
	Table
	KvPair
	Put
	Get
)

var nodeKindNames = [...]string{
	Block:      "block",
	Assign:     "assign",
	Reference:  "reference",
	Integer:    "integer",
	Float:      "float",
	Bool:       "bool",
	String:     "string",
	Null:       "null",
	UnaryExpr:  "unary",
	BinaryExpr: "binary",
	Call:       "call",
	Function:   "function",
	Params:     "params",
	Param:      "param",
	Loop:       "loop",
	Branches:   "branches",
	Return:     "return",
	Include:    "include",
	Table:      "table",
	KvPair:     "kvpair",
	Put:        "put",
	Get:        "get",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "unknown"
}

// Node is one vertex of the syntax tree. Value carries the operator glyph,
// literal text, identifier name, or a marker label; a node exclusively owns
// its ordered children.
type Node struct {
	Value    string
	Kind     NodeKind
	Pos      lexer.Position
	Children []*Node
}

func NewNode(value string, kind NodeKind, pos lexer.Position) *Node {
	return &Node{Value: value, Kind: kind, Pos: pos}
}

func (n *Node) Add(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// String renders the tree in the compact debug form: leaves print their
// value, blocks print as "[ ... ]", everything else as "(value ...)".
func (n *Node) String() string {
	if len(n.Children) == 0 {
		return n.Value
	}

	var sb strings.Builder
	if n.Kind == Block {
		sb.WriteString("[")
	} else {
		sb.WriteString("(" + n.Value)
	}
	for i, child := range n.Children {
		sb.WriteString(fmt.Sprintf(" %d:%s", i, child.String()))
	}
	if n.Kind == Block {
		sb.WriteString("]")
	} else {
		sb.WriteString(")")
	}
	return sb.String()
}
