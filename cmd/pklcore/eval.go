package main

import (
	"os"

	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a module and print its value.",
	Long:  "Evaluate a module (or, absent --source-module, the pkl:base snapshot) and write the rendered result to stdout or --output-path.",
	Run: func(cmd *cobra.Command, args []string) {
		runEvalLike(optionsFromFlags(cmd))
	},
}

func init() {
	registerCommonFlags(evalCmd)
	rootCmd.AddCommand(evalCmd)
}

// runEvalLike is shared by eval and export: spec section 6 draws no
// behavioral distinction between the two beyond the conventional default
// output-format a caller picks.
func runEvalLike(opts Options) {
	s, err := newSession(opts)
	if err != nil {
		fail(err)
	}
	defer s.Close()

	v, err := resolveOutput(s)
	if err != nil {
		fail(err)
	}

	data, err := renderOutput(opts, v)
	if err != nil {
		fail(err)
	}

	if err := writeOutput(opts, data); err != nil {
		fail(err)
	}

	os.Exit(exitSuccess)
}
