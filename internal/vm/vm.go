// internal/vm/vm.go
package vm

import (
	"fmt"
	"math"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

// frame is one activation record. The top-level frame's locals are the
// global array itself.
type frame struct {
	prog    *bytecode.Program
	closure *bytecode.Closure
	locals  []bytecode.Value
	ip      int
	base    int
}

// Machine executes the instruction stream of a compiled program over one
// shared value stack.
type Machine struct {
	root    *bytecode.Program
	globals []bytecode.Value
	stack   []bytecode.Value
	frames  []*frame
}

func New(root *bytecode.Program) *Machine {
	m := &Machine{root: root}
	m.growGlobals()
	return m
}

// Bind seeds a global slot before execution, used to install native
// program values registered through CreateNative.
func (m *Machine) Bind(slot int, v bytecode.Value) {
	m.growGlobals()
	if slot >= 0 && slot < len(m.globals) {
		m.globals[slot] = v
	}
}

func (m *Machine) growGlobals() {
	for len(m.globals) < m.root.Symbols.Len() {
		m.globals = append(m.globals, bytecode.Null())
	}
}

// Global reads a global slot after execution, for inspection.
func (m *Machine) Global(slot int) bytecode.Value {
	if slot >= 0 && slot < len(m.globals) {
		return m.globals[slot]
	}
	return bytecode.Null()
}

// GlobalByName resolves a top-level symbol and reads its slot.
func (m *Machine) GlobalByName(name string) bytecode.Value {
	if slot, ok := m.root.Symbols.Lookup(name); ok {
		return m.Global(slot)
	}
	return bytecode.Null()
}

func (m *Machine) Run() (bytecode.Value, error) {
	return m.RunFrom(0)
}

// RunFrom executes the root program starting at instruction index start;
// the REPL appends to the root program and resumes from the old length.
func (m *Machine) RunFrom(start int) (bytecode.Value, error) {
	m.growGlobals()
	m.stack = m.stack[:0]
	m.frames = []*frame{{prog: m.root, locals: m.globals, ip: start}}

	for {
		f := m.frames[len(m.frames)-1]

		if f.ip >= len(f.prog.Code) {
			if len(m.frames) == 1 {
				return bytecode.Null(), nil
			}
			m.popFrame(bytecode.Null())
			continue
		}

		in := f.prog.Code[f.ip]
		f.ip++

		switch op := in.Op(); op {
		case bytecode.OpNop:

		case bytecode.OpPushK:
			k := int(in.Ux())
			if k >= len(f.prog.Constants) {
				return bytecode.Null(), m.fail(f, "constant index %d out of range", k)
			}
			m.push(f.prog.Constants[k])

		case bytecode.OpLoadL:
			m.push(f.locals[in.Ux()])
		case bytecode.OpStorL:
			f.locals[in.Ux()] = m.pop()

		case bytecode.OpLoadG:
			m.push(m.globals[in.Ux()])
		case bytecode.OpStorG:
			m.globals[in.Ux()] = m.pop()

		case bytecode.OpLoadC:
			if f.closure == nil {
				return bytecode.Null(), m.fail(f, "closure load outside a closure")
			}
			m.push(f.closure.Captured[in.Ux()])
		case bytecode.OpStorC:
			if f.closure == nil {
				return bytecode.Null(), m.fail(f, "closure store outside a closure")
			}
			f.closure.Captured[in.Ux()] = m.pop()

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
			bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe,
			bytecode.OpEq, bytecode.OpNe, bytecode.OpAnd, bytecode.OpOr:
			if err := m.binary(f, op); err != nil {
				return bytecode.Null(), err
			}

		case bytecode.OpNeg:
			v := m.pop()
			switch v.Kind {
			case bytecode.IntValue:
				m.push(bytecode.Int(-v.Int))
			case bytecode.FloatValue:
				m.push(bytecode.Float(-v.Float))
			default:
				return bytecode.Null(), m.fail(f, "cannot negate %s", v.String())
			}

		case bytecode.OpNot:
			m.push(bytecode.BoolVal(!m.pop().Truthy()))

		case bytecode.OpJif:
			if !m.pop().Truthy() {
				f.ip = int(in.Sx())
			}
		case bytecode.OpJmp:
			f.ip = int(in.Sx())

		case bytecode.OpCall:
			if err := m.call(f, int(in.Ux())); err != nil {
				return bytecode.Null(), err
			}

		case bytecode.OpRet:
			rv := m.pop()
			if len(m.frames) == 1 {
				return rv, nil
			}
			m.popFrame(rv)

		case bytecode.OpPop:
			m.pop()

		case bytecode.OpClose:
			if err := m.close(f, int(in.Ux())); err != nil {
				return bytecode.Null(), err
			}

		case bytecode.OpTNew:
			m.push(bytecode.TableVal(bytecode.NewTable()))

		case bytecode.OpTPut:
			v := m.pop()
			k := m.pop()
			t := m.peek()
			if t.Kind != bytecode.TableValue {
				return bytecode.Null(), m.fail(f, "cannot insert into %s", t.String())
			}
			if !k.Scalar() {
				return bytecode.Null(), m.fail(f, "table key must be a scalar value")
			}
			t.Table.Set(k, v)

		case bytecode.OpTGet:
			k := m.pop()
			t := m.pop()
			if t.Kind != bytecode.TableValue {
				return bytecode.Null(), m.fail(f, "cannot index %s", t.String())
			}
			m.push(t.Table.Get(k))

		case bytecode.OpTRem:
			k := m.pop()
			t := m.pop()
			if t.Kind != bytecode.TableValue {
				return bytecode.Null(), m.fail(f, "cannot remove from %s", t.String())
			}
			m.push(t.Table.Remove(k))

		default:
			return bytecode.Null(), m.fail(f, "unknown opcode %d", op)
		}
	}
}

// call pops argc arguments and the callee beneath them, then either
// invokes a native handler or pushes a new frame.
func (m *Machine) call(f *frame, argc int) error {
	args := make([]bytecode.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = m.pop()
	}
	callee := m.pop()

	var prog *bytecode.Program
	var closure *bytecode.Closure

	switch callee.Kind {
	case bytecode.ClosureValue:
		closure = callee.Closure
		prog = closure.Program
	case bytecode.ProgramValue:
		prog = callee.Program
	default:
		return m.fail(f, "%s is not callable", callee.String())
	}

	if prog.Native != nil {
		if prog.Argc >= 0 && prog.Argc != argc {
			return m.fail(f, "native expects %d arguments, got %d", prog.Argc, argc)
		}
		m.push(prog.Native(args))
		return nil
	}

	if prog.Argc != argc {
		return m.fail(f, "function expects %d arguments, got %d", prog.Argc, argc)
	}

	locals := make([]bytecode.Value, prog.Symbols.Len())
	for i := range locals {
		locals[i] = bytecode.Null()
	}
	copy(locals, args)

	m.frames = append(m.frames, &frame{
		prog:    prog,
		closure: closure,
		locals:  locals,
		base:    len(m.stack),
	})
	return nil
}

// close wraps a program constant in a closure capturing n values from the
// current frame, one per closure-table entry in order.
func (m *Machine) close(f *frame, n int) error {
	v := m.pop()
	if v.Kind != bytecode.ProgramValue {
		return m.fail(f, "cannot close over %s", v.String())
	}
	cl := &bytecode.Closure{Program: v.Program, Captured: make([]bytecode.Value, n)}
	for i := 0; i < n; i++ {
		cl.Captured[i] = f.locals[v.Program.Closures.OuterSlot(i)]
	}
	m.push(bytecode.CloseVal(cl))
	return nil
}

func (m *Machine) popFrame(rv bytecode.Value) {
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	m.stack = m.stack[:f.base]
	m.push(rv)
}

// ---------- operand stack ----------

func (m *Machine) push(v bytecode.Value) {
	m.stack = append(m.stack, v)
}

func (m *Machine) pop() bytecode.Value {
	if len(m.stack) == 0 {
		return bytecode.Null()
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v
}

func (m *Machine) peek() bytecode.Value {
	if len(m.stack) == 0 {
		return bytecode.Null()
	}
	return m.stack[len(m.stack)-1]
}

// ---------- binary operations ----------

func (m *Machine) binary(f *frame, op bytecode.Opcode) error {
	b := m.pop()
	a := m.pop()

	switch op {
	case bytecode.OpAnd:
		m.push(bytecode.BoolVal(a.Truthy() && b.Truthy()))
		return nil
	case bytecode.OpOr:
		m.push(bytecode.BoolVal(a.Truthy() || b.Truthy()))
		return nil
	case bytecode.OpEq:
		m.push(bytecode.BoolVal(equal(a, b)))
		return nil
	case bytecode.OpNe:
		m.push(bytecode.BoolVal(!equal(a, b)))
		return nil
	}

	if a.Kind == bytecode.StringValue && b.Kind == bytecode.StringValue {
		switch op {
		case bytecode.OpAdd:
			m.push(bytecode.Str(a.Str + b.Str))
		case bytecode.OpLt:
			m.push(bytecode.BoolVal(a.Str < b.Str))
		case bytecode.OpLe:
			m.push(bytecode.BoolVal(a.Str <= b.Str))
		case bytecode.OpGt:
			m.push(bytecode.BoolVal(a.Str > b.Str))
		case bytecode.OpGe:
			m.push(bytecode.BoolVal(a.Str >= b.Str))
		default:
			return m.fail(f, "invalid string operation %s", op)
		}
		return nil
	}

	if a.Kind == bytecode.IntValue && b.Kind == bytecode.IntValue {
		switch op {
		case bytecode.OpAdd:
			m.push(bytecode.Int(a.Int + b.Int))
		case bytecode.OpSub:
			m.push(bytecode.Int(a.Int - b.Int))
		case bytecode.OpMul:
			m.push(bytecode.Int(a.Int * b.Int))
		case bytecode.OpDiv:
			if b.Int == 0 {
				return m.fail(f, "division by zero")
			}
			m.push(bytecode.Int(a.Int / b.Int))
		case bytecode.OpMod:
			if b.Int == 0 {
				return m.fail(f, "division by zero")
			}
			m.push(bytecode.Int(a.Int % b.Int))
		case bytecode.OpLt:
			m.push(bytecode.BoolVal(a.Int < b.Int))
		case bytecode.OpLe:
			m.push(bytecode.BoolVal(a.Int <= b.Int))
		case bytecode.OpGt:
			m.push(bytecode.BoolVal(a.Int > b.Int))
		case bytecode.OpGe:
			m.push(bytecode.BoolVal(a.Int >= b.Int))
		}
		return nil
	}

	af, aok := numeric(a)
	bf, bok := numeric(b)
	if !aok || !bok {
		return m.fail(f, "invalid operands for %s: %s, %s", op, a.String(), b.String())
	}

	switch op {
	case bytecode.OpAdd:
		m.push(bytecode.Float(af + bf))
	case bytecode.OpSub:
		m.push(bytecode.Float(af - bf))
	case bytecode.OpMul:
		m.push(bytecode.Float(af * bf))
	case bytecode.OpDiv:
		if bf == 0 {
			return m.fail(f, "division by zero")
		}
		m.push(bytecode.Float(af / bf))
	case bytecode.OpMod:
		m.push(bytecode.Float(math.Mod(af, bf)))
	case bytecode.OpLt:
		m.push(bytecode.BoolVal(af < bf))
	case bytecode.OpLe:
		m.push(bytecode.BoolVal(af <= bf))
	case bytecode.OpGt:
		m.push(bytecode.BoolVal(af > bf))
	case bytecode.OpGe:
		m.push(bytecode.BoolVal(af >= bf))
	}
	return nil
}

func numeric(v bytecode.Value) (float64, bool) {
	switch v.Kind {
	case bytecode.IntValue:
		return float64(v.Int), true
	case bytecode.FloatValue:
		return v.Float, true
	}
	return 0, false
}

func equal(a, b bytecode.Value) bool {
	if a.Kind == b.Kind {
		return a == b
	}
	af, aok := numeric(a)
	bf, bok := numeric(b)
	return aok && bok && af == bf
}

func (m *Machine) fail(f *frame, format string, args ...interface{}) error {
	line := f.prog.LineAddresses.Line(f.ip - 1)
	return fmt.Errorf("runtime error: %s (line %d)", fmt.Sprintf(format, args...), line+1)
}
