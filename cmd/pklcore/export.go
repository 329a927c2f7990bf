package main

import (
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a module's fully-forced value graph to a file or stream.",
	Long:  "Like eval, but named for the common case of writing a complete rendering to --output-path rather than inspecting one value at the terminal.",
	Run: func(cmd *cobra.Command, args []string) {
		runEvalLike(optionsFromFlags(cmd))
	},
}

func init() {
	registerCommonFlags(exportCmd)
	rootCmd.AddCommand(exportCmd)
}
