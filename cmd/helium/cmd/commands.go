package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
	"github.com/Supamang2122/helium-interpreter/internal/formatter"
	"github.com/Supamang2122/helium-interpreter/internal/lexer"
	"github.com/Supamang2122/helium-interpreter/internal/repl"
)

const version = "0.1.0"

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and execute a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFile(args[0])
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Lex and parse a script without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parseFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(formatter.Format(tree))
		return nil
	},
}

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Compile a script and print its bytecode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, _, err := compileFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(bytecode.DisassembleProgram(program))
		return nil
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream of a script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tokens, err := lexer.New(string(data), args[0]).Lexify()
		if err != nil {
			return err
		}
		for _, tok := range tokens {
			fmt.Println(tok.String())
		}
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Run: func(cmd *cobra.Command, args []string) {
		repl.Start()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the interpreter version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("helium " + version)
	},
}

func init() {
	rootCmd.AddCommand(runCmd, checkCmd, disasmCmd, tokensCmd, replCmd, versionCmd)
}
