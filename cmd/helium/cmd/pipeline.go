package cmd

import (
	"os"
	"path/filepath"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	"github.com/Supamang2122/helium-interpreter/internal/compiler"
	"github.com/Supamang2122/helium-interpreter/internal/config"
	"github.com/Supamang2122/helium-interpreter/internal/lexer"
	"github.com/Supamang2122/helium-interpreter/internal/parser"
	"github.com/Supamang2122/helium-interpreter/internal/stdlib"
	"github.com/Supamang2122/helium-interpreter/internal/vm"
)

// compileFile runs the whole pipeline for path: manifest discovery, native
// installation, lex, parse, compile. The returned bindings seed the machine
// globals with native program values.
func compileFile(path string) (*bytecode.Program, map[int]bytecode.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Discover(filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}

	program := bytecode.NewProgram(0, nil)
	binds, err := stdlib.Install(program)
	if err != nil {
		return nil, nil, err
	}

	log.Infof("compiling %s", path)
	comp := compiler.New(cfg.IncludePaths...)
	if err := comp.CompileInto(program, string(data), path); err != nil {
		return nil, nil, err
	}
	program.Sever()

	log.Infof("compiled %d instructions, %d constants", len(program.Code), len(program.Constants))
	return program, binds, nil
}

func runFile(path string) error {
	program, binds, err := compileFile(path)
	if err != nil {
		return err
	}

	machine := vm.New(program)
	for slot, v := range binds {
		machine.Bind(slot, v)
	}

	if _, err := machine.Run(); err != nil {
		return err
	}
	return nil
}

// parseFile stops after the parsing stage, for check.
func parseFile(path string) (*parser.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.New(string(data), path).Lexify()
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens, string(data), path)
}
