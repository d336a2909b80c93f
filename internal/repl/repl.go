// internal/repl/repl.go
package repl

import (
	"bufio"
	"fmt"
	"os"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	"github.com/Supamang2122/helium-interpreter/internal/compiler"
	"github.com/Supamang2122/helium-interpreter/internal/stdlib"
	"github.com/Supamang2122/helium-interpreter/internal/vm"
)

// Start runs an interactive loop over one persistent top-level program:
// each line is compiled onto the end of the program and executed from the
// previous code length, so bindings survive between lines.
func Start() {
	fmt.Println("Helium REPL | type 'exit' to quit")

	root := bytecode.NewProgram(0, nil)
	binds, err := stdlib.Install(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	machine := vm.New(root)
	for slot, v := range binds {
		machine.Bind(slot, v)
	}

	comp := compiler.New()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "exit" {
			break
		}

		start := len(root.Code)
		if err := comp.CompileInto(root, line, "<repl>"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			root.Code = root.Code[:start]
			continue
		}

		result, err := machine.RunFrom(start)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if result.Kind != bytecode.NullValue {
			fmt.Println(result.String())
		}
	}
}
