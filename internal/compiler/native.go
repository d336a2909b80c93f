package compiler

import (
	"fmt"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

// CreateNative adds a program constant whose native handle is fn and binds
// name as a fresh local of p, which must be a top-level program. The
// returned slot must be seeded with the program value before execution.
func CreateNative(p *bytecode.Program, name string, fn bytecode.Native, argc int) (int, *bytecode.Program, error) {
	prog := bytecode.NewProgram(argc, nil)
	prog.Native = fn
	p.AddConstant(bytecode.Prog(prog))

	slot, scope := registerUniqueVariableLocal(p, name)
	if scope == DuplicateScope {
		return 0, nil, fmt.Errorf("native %q: duplicate symbol in scope", name)
	}
	return slot, prog, nil
}
