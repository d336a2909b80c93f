package bytecode

import (
	"fmt"
	"strconv"
)

type ValueKind uint8

const (
	NullValue ValueKind = iota
	IntValue
	FloatValue
	BoolValue
	StringValue
	ProgramValue
	TableValue
	ClosureValue
)

// Value is the closed tagged sum shared by the constant pool and the
// machine stack. Values are immutable once inserted into a pool; tables
// and closures exist only at runtime and never appear as constants.
type Value struct {
	Kind    ValueKind
	Int     int64
	Float   float64
	Bool    bool
	Str     string
	Program *Program
	Table   *Table
	Closure *Closure
}

// Native is the host-callback convention: a contiguous ordered argument
// slice in, one value out.
type Native func(args []Value) Value

func Null() Value               { return Value{Kind: NullValue} }
func Int(v int64) Value         { return Value{Kind: IntValue, Int: v} }
func Float(v float64) Value     { return Value{Kind: FloatValue, Float: v} }
func BoolVal(v bool) Value      { return Value{Kind: BoolValue, Bool: v} }
func Str(v string) Value        { return Value{Kind: StringValue, Str: v} }
func Prog(p *Program) Value     { return Value{Kind: ProgramValue, Program: p} }
func TableVal(t *Table) Value   { return Value{Kind: TableValue, Table: t} }
func CloseVal(c *Closure) Value { return Value{Kind: ClosureValue, Closure: c} }

// Truthy reports the condition semantics of JIF: only false and null are
// falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case NullValue:
		return false
	case BoolValue:
		return v.Bool
	}
	return true
}

// Scalar reports whether the value may serve as a table key.
func (v Value) Scalar() bool {
	switch v.Kind {
	case IntValue, FloatValue, BoolValue, StringValue:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case NullValue:
		return "null"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case BoolValue:
		return strconv.FormatBool(v.Bool)
	case StringValue:
		return v.Str
	case ProgramValue:
		if v.Program != nil && v.Program.Native != nil {
			return "<native>"
		}
		return "<program>"
	case TableValue:
		return v.Table.String()
	case ClosureValue:
		return "<closure>"
	}
	return "<unknown>"
}

// Closure pairs a function program with the values captured from its
// defining frame, one cell per closure-table entry.
type Closure struct {
	Program  *Program
	Captured []Value
}

// Table is the runtime hash table. Keys are restricted to scalar values;
// key order follows insertion.
type Table struct {
	entries map[Value]Value
	keys    []Value
}

func NewTable() *Table {
	return &Table{entries: make(map[Value]Value)}
}

func (t *Table) Set(key, value Value) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = value
}

func (t *Table) Get(key Value) Value {
	if v, ok := t.entries[key]; ok {
		return v
	}
	return Null()
}

func (t *Table) Remove(key Value) Value {
	v, ok := t.entries[key]
	if !ok {
		return Null()
	}
	delete(t.entries, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return v
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []Value {
	return t.keys
}

func (t *Table) String() string {
	out := "{"
	for i, k := range t.keys {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %s", k.String(), t.entries[k].String())
	}
	return out + "}"
}
