// internal/compiler/compiler.go
package compiler

import (
	"strconv"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	he "github.com/Supamang2122/helium-interpreter/internal/errors"
	"github.com/Supamang2122/helium-interpreter/internal/lexer"
	"github.com/Supamang2122/helium-interpreter/internal/parser"
)

// ScopeClass determines which load/store opcode a resolved name uses.
type ScopeClass uint8

const (
	LocalScope ScopeClass = iota
	GlobalScope
	ClosedScope
	UnknownScope
	DuplicateScope
)

// Compiler lowers syntax trees into programs. One compiler may serve many
// compilation units; it keeps the source text of every origin it has seen
// so diagnostics can render the offending line.
type Compiler struct {
	includePaths []string
	sources      map[string]string
}

func New(includePaths ...string) *Compiler {
	return &Compiler{
		includePaths: includePaths,
		sources:      make(map[string]string),
	}
}

// Compile populates p from a block node. Any diagnostic aborts the whole
// compilation; partial programs are not returned.
func (c *Compiler) Compile(p *bytecode.Program, block *parser.Node, source string) (err error) {
	c.sources[block.Pos.Origin] = source

	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*he.HeliumError); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	c.compileBlock(p, block)
	return nil
}

// CompileInto runs the full lex -> parse -> compile pipeline for source,
// appending the result to p.
func (c *Compiler) CompileInto(p *bytecode.Program, source, origin string) error {
	tokens, err := lexer.New(source, origin).Lexify()
	if err != nil {
		return err
	}
	tree, err := parser.Parse(tokens, source, origin)
	if err != nil {
		return err
	}
	return c.Compile(p, tree, source)
}

// ---------- statements ----------

func (c *Compiler) compileBlock(p *bytecode.Program, block *parser.Node) {
	for _, stmt := range block.Children {
		c.compileStatement(p, stmt)
	}
}

func (c *Compiler) compileStatement(p *bytecode.Program, node *parser.Node) {
	switch node.Kind {
	case parser.Assign:
		c.compileAssignment(p, node)
	case parser.Put:
		c.compilePut(p, node)
		c.emit(p, node.Pos, bytecode.Encode(bytecode.OpPop))
	case parser.Call:
		c.compileCall(p, node)
		c.emit(p, node.Pos, bytecode.Encode(bytecode.OpPop))
	case parser.Loop:
		c.compileLoop(p, node)
	case parser.Branches:
		c.compileBranches(p, node)
	case parser.Return:
		c.compileExpression(p, node.Children[0])
		c.emit(p, node.Pos, bytecode.Encode(bytecode.OpRet))
	case parser.Include:
		c.compileInclude(p, node)
	default:
		c.fail(node.Pos, "Invalid statement")
	}
}

func (c *Compiler) compileAssignment(p *bytecode.Program, node *parser.Node) {
	// The target is resolved before the expression compiles so a function
	// bound here may refer to itself.
	slot, scope := registerVariable(p, node.Value)
	c.compileExpression(p, node.Children[0])

	switch scope {
	case LocalScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpStorL, uint16(slot)))
	case ClosedScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpStorC, uint16(slot)))
	case GlobalScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpStorG, uint16(slot)))
	default:
		c.fail(node.Pos, "Undefined symbol '"+node.Value+"'")
	}
}

func (c *Compiler) compileLoop(p *bytecode.Program, node *parser.Node) {
	start := len(p.Code)
	c.compileExpression(p, node.Children[0])
	exit := c.emit(p, node.Pos, bytecode.EncodeS(bytecode.OpJif, 0))

	c.compileBlock(p, node.Children[1])
	c.emit(p, node.Pos, bytecode.EncodeS(bytecode.OpJmp, c.jumpTarget(node.Pos, start)))
	p.Patch(exit, bytecode.EncodeS(bytecode.OpJif, c.jumpTarget(node.Pos, len(p.Code))))
}

// compileBranches walks the right-leaning conditional chain, patching each
// branch's exit jump once the chain end is known.
func (c *Compiler) compileBranches(p *bytecode.Program, node *parser.Node) {
	var endJumps []int

	for cur := node; cur != nil; {
		if cur.Value == "alt" {
			c.compileBlock(p, cur.Children[0])
			break
		}

		var next *parser.Node
		if len(cur.Children) == 3 {
			next = cur.Children[2]
		}

		c.compileExpression(p, cur.Children[0])
		skip := c.emit(p, cur.Pos, bytecode.EncodeS(bytecode.OpJif, 0))
		c.compileBlock(p, cur.Children[1])
		if next != nil {
			endJumps = append(endJumps, c.emit(p, cur.Pos, bytecode.EncodeS(bytecode.OpJmp, 0)))
		}
		p.Patch(skip, bytecode.EncodeS(bytecode.OpJif, c.jumpTarget(cur.Pos, len(p.Code))))
		cur = next
	}

	end := c.jumpTarget(node.Pos, len(p.Code))
	for _, j := range endJumps {
		p.Patch(j, bytecode.EncodeS(bytecode.OpJmp, end))
	}
}

func (c *Compiler) compilePut(p *bytecode.Program, node *parser.Node) {
	c.emitLoad(p, node)
	c.compileExpression(p, node.Children[0])
	c.compileExpression(p, node.Children[1])
	c.emit(p, node.Pos, bytecode.Encode(bytecode.OpTPut))
}

// ---------- expressions ----------

func (c *Compiler) compileExpression(p *bytecode.Program, node *parser.Node) {
	switch node.Kind {
	case parser.Integer:
		v, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			c.fail(node.Pos, "Invalid integer literal")
		}
		c.emitConstant(p, node.Pos, "i:"+node.Value, bytecode.Int(v))

	case parser.Float:
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			c.fail(node.Pos, "Invalid float literal")
		}
		c.emitConstant(p, node.Pos, "f:"+node.Value, bytecode.Float(v))

	case parser.Bool:
		c.emitConstant(p, node.Pos, "b:"+node.Value, bytecode.BoolVal(node.Value == "true"))

	case parser.String:
		c.emitConstant(p, node.Pos, "s:"+node.Value, bytecode.Str(node.Value))

	case parser.Null:
		c.emitConstant(p, node.Pos, "n:null", bytecode.Null())

	case parser.Reference:
		c.emitLoad(p, node)

	case parser.UnaryExpr:
		c.compileExpression(p, node.Children[0])
		switch node.Value {
		case "-":
			c.emit(p, node.Pos, bytecode.Encode(bytecode.OpNeg))
		case "!":
			c.emit(p, node.Pos, bytecode.Encode(bytecode.OpNot))
		case "+":
			// numeric identity
		default:
			c.fail(node.Pos, "Unsupported unary operator '"+node.Value+"'")
		}

	case parser.BinaryExpr:
		c.compileExpression(p, node.Children[0])
		c.compileExpression(p, node.Children[1])
		c.emit(p, node.Pos, bytecode.Encode(c.binaryOpcode(node)))

	case parser.Call:
		c.compileCall(p, node)

	case parser.Function:
		c.compileFunction(p, node)

	case parser.Table:
		c.compileTable(p, node)

	case parser.Get:
		c.emitLoad(p, node)
		c.compileExpression(p, node.Children[0])
		c.emit(p, node.Pos, bytecode.Encode(bytecode.OpTGet))

	default:
		c.fail(node.Pos, "Invalid expression")
	}
}

func (c *Compiler) binaryOpcode(node *parser.Node) bytecode.Opcode {
	switch node.Value {
	case "+":
		return bytecode.OpAdd
	case "-":
		return bytecode.OpSub
	case "*":
		return bytecode.OpMul
	case "/":
		return bytecode.OpDiv
	case "%":
		return bytecode.OpMod
	case "<":
		return bytecode.OpLt
	case "<=":
		return bytecode.OpLe
	case ">":
		return bytecode.OpGt
	case ">=":
		return bytecode.OpGe
	case "==":
		return bytecode.OpEq
	case "!=":
		return bytecode.OpNe
	case "&", "&&":
		return bytecode.OpAnd
	case "|", "||":
		return bytecode.OpOr
	}
	c.fail(node.Pos, "Unsupported operator '"+node.Value+"'")
	return bytecode.OpNop
}

// compileCall lowers the callee expression, then each argument left to
// right, then the arity-carrying call.
func (c *Compiler) compileCall(p *bytecode.Program, node *parser.Node) {
	c.compileExpression(p, node.Children[0])
	for _, arg := range node.Children[1:] {
		c.compileExpression(p, arg)
	}
	c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpCall, uint16(len(node.Children)-1)))
}

// compileFunction creates the child program, registers parameters as unique
// locals, compiles the body, and stores the child as a constant of the
// enclosing program followed by a CLOSE capturing its closure slots.
func (c *Compiler) compileFunction(p *bytecode.Program, node *parser.Node) {
	params := node.Children[0]
	body := node.Children[1]

	child := bytecode.NewProgram(len(params.Children), p)
	for _, prm := range params.Children {
		if _, scope := registerUniqueVariableLocal(child, prm.Value); scope == DuplicateScope {
			c.fail(prm.Pos, "Duplicate symbol '"+prm.Value+"' in scope")
		}
	}

	c.compileBlock(child, body)

	k := p.AddConstant(bytecode.Prog(child))
	c.checkIndex(node.Pos, k)
	c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpPushK, uint16(k)))
	c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpClose, uint16(child.Closures.Len())))
}

// compileTable emits TNEW, then one (key, value, TPUT) triple per entry;
// TPUT leaves the table on the stack for the next entry.
func (c *Compiler) compileTable(p *bytecode.Program, node *parser.Node) {
	c.emit(p, node.Pos, bytecode.Encode(bytecode.OpTNew))
	for _, pair := range node.Children {
		c.compileExpression(p, pair.Children[0])
		c.compileExpression(p, pair.Children[1])
		c.emit(p, pair.Pos, bytecode.Encode(bytecode.OpTPut))
	}
}

// emitLoad resolves a name and emits the load matching its scope class.
func (c *Compiler) emitLoad(p *bytecode.Program, node *parser.Node) {
	slot, scope := dereferenceVariable(p, node.Value)
	switch scope {
	case LocalScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpLoadL, uint16(slot)))
	case ClosedScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpLoadC, uint16(slot)))
	case GlobalScope:
		c.emit(p, node.Pos, bytecode.EncodeU(bytecode.OpLoadG, uint16(slot)))
	default:
		c.fail(node.Pos, "Undefined symbol '"+node.Value+"'")
	}
}

// ---------- name resolution ----------

// registerVariable resolves a name for assignment. Unknown names become
// fresh locals only in the top-level program.
func registerVariable(p *bytecode.Program, name string) (int, ScopeClass) {
	if slot, scope := lookupVariable(p, name); scope != UnknownScope {
		return slot, scope
	}
	if p.Parent == nil {
		return p.Symbols.Define(name), LocalScope
	}
	return 0, UnknownScope
}

// dereferenceVariable resolves a name at a reference site; it never
// declares.
func dereferenceVariable(p *bytecode.Program, name string) (int, ScopeClass) {
	return lookupVariable(p, name)
}

func lookupVariable(p *bytecode.Program, name string) (int, ScopeClass) {
	if slot, ok := p.Symbols.Lookup(name); ok {
		return slot, LocalScope
	}
	if closed, ok := p.Closures.Lookup(name); ok {
		return closed, ClosedScope
	}
	for ancestor := p.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if slot, ok := ancestor.Symbols.Lookup(name); ok {
			if ancestor.Parent == nil {
				return slot, GlobalScope
			}
			return p.Closures.Add(name, slot), ClosedScope
		}
	}
	return 0, UnknownScope
}

// registerUniqueVariableLocal declares name in the current scope, used for
// formal parameters and explicit declarations.
func registerUniqueVariableLocal(p *bytecode.Program, name string) (int, ScopeClass) {
	if _, ok := p.Symbols.Lookup(name); ok {
		return 0, DuplicateScope
	}
	return p.Symbols.Define(name), LocalScope
}

// ---------- emission helpers ----------

// emit records the line address of the instruction about to be appended,
// then appends it.
func (c *Compiler) emit(p *bytecode.Program, pos lexer.Position, i bytecode.Instruction) int {
	p.LineAddresses.Record(pos.Line, len(p.Code))
	return p.Emit(i)
}

func (c *Compiler) emitConstant(p *bytecode.Program, pos lexer.Position, key string, v bytecode.Value) {
	k := c.registerConstant(p, pos, key, v)
	c.emit(p, pos, bytecode.EncodeU(bytecode.OpPushK, uint16(k)))
}

// registerConstant deduplicates pool entries by the literal's tagged
// textual representation.
func (c *Compiler) registerConstant(p *bytecode.Program, pos lexer.Position, key string, v bytecode.Value) int {
	if k, ok := p.ConstantIndex[key]; ok {
		return k
	}
	k := p.AddConstant(v)
	c.checkIndex(pos, k)
	p.ConstantIndex[key] = k
	return k
}

func (c *Compiler) checkIndex(pos lexer.Position, k int) {
	if k > 0xFFFF {
		c.fail(pos, "Constant pool overflow")
	}
}

func (c *Compiler) jumpTarget(pos lexer.Position, addr int) int16 {
	if addr > 0x7FFF {
		c.fail(pos, "Jump target out of range")
	}
	return int16(addr)
}

func (c *Compiler) fail(pos lexer.Position, msg string) {
	panic(he.New(he.CompileError, msg, pos.Origin, pos.Line, pos.Column).
		WithSource(he.ExtractLine(c.sources[pos.Origin], pos.LineOffset)))
}
