// Package stdlib registers the host function library onto a top-level
// program through the native registration surface.
package stdlib

import (
	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	"github.com/Supamang2122/helium-interpreter/internal/compiler"
)

type native struct {
	name string
	argc int // negative means variadic
	fn   bytecode.Native
}

// Install binds every native onto p and returns the slot seeds the machine
// applies before execution. Natives must be installed before user code is
// compiled so their slots precede user symbols.
func Install(p *bytecode.Program) (map[int]bytecode.Value, error) {
	binds := make(map[int]bytecode.Value)
	for _, group := range [][]native{coreNatives(), databaseNatives(), netNatives()} {
		for _, n := range group {
			slot, prog, err := compiler.CreateNative(p, n.name, n.fn, n.argc)
			if err != nil {
				return nil, err
			}
			binds[slot] = bytecode.Prog(prog)
		}
	}
	return binds, nil
}

// errTable wraps a host-side failure as a table with an "error" entry.
func errTable(err error) bytecode.Value {
	t := bytecode.NewTable()
	t.Set(bytecode.Str("error"), bytecode.Str(err.Error()))
	return bytecode.TableVal(t)
}
