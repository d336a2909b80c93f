package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	scriptFile string
	verbose    bool
)

var log = commonlog.GetLogger("helium")

var rootCmd = &cobra.Command{
	Use:   "helium",
	Short: "Helium language interpreter",
	Long: `Helium is a small dynamically-typed scripting language compiled to
bytecode for a stack-oriented virtual machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			commonlog.Configure(1, nil)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if scriptFile == "" {
			return cmd.Help()
		}
		return runFile(scriptFile)
	},
}

// Execute runs the command tree; any diagnostic exits nonzero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&scriptFile, "file", "f", "", "script file to compile and run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "trace pipeline stages")
}
