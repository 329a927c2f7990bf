// Command pklcore is the CLI surface of spec section 6: a parsed options
// struct drives module evaluation, export, or an embedded server mode.
package main

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building via `go build -ldflags`, but not when
// installed via `go install`.
var Version string

var rootCmd = &cobra.Command{
	Use:   "pklcore",
	Short: "A configuration-language evaluator core.",
	Long:  "A configuration-language evaluator core: evaluate, export, or serve Pkl-like modules.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			printVersion()
		}
	},
}

func printVersion() {
	if Version != "" {
		logrus.Info("pklcore " + Version)
		return
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		logrus.Info("pklcore " + info.Main.Version)
		return
	}

	logrus.Info("pklcore (unknown version)")
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitConfigError)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
}
