package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Options is the parsed options struct of spec section 6's CLI surface:
// `{ source-modules: [uri], allowed-modules: [regex], allowed-resources:
// [regex], root-dir: path?, env-vars: map<str,str>, external-properties:
// map<str,str>, timeout: duration?, module-cache-dir: path?, output-format:
// {pcf|json|yaml|plist|xml|pkl-binary}, output-path: path?|stream }`.
type Options struct {
	SourceModules      []string
	AllowedModules     []string
	AllowedResources   []string
	RootDir            string
	EnvVars            map[string]string
	ExternalProperties map[string]string
	Timeout            time.Duration
	ModuleCacheDir     string
	OutputFormat       string
	OutputPath         string
	Verbose            bool
}

// exitConfigError is the exit code for the configuration/usage error case
// of spec section 6's exit code taxonomy.
const exitConfigError = 3

func optionsFromFlags(cmd *cobra.Command) Options {
	return Options{
		SourceModules:      GetStringArray(cmd, "source-module"),
		AllowedModules:     GetStringArray(cmd, "allowed-modules"),
		AllowedResources:   GetStringArray(cmd, "allowed-resources"),
		RootDir:            GetString(cmd, "root-dir"),
		EnvVars:            parseKeyValues(GetStringArray(cmd, "env-var")),
		ExternalProperties: parseKeyValues(GetStringArray(cmd, "external-property")),
		Timeout:            GetDuration(cmd, "timeout"),
		ModuleCacheDir:     GetString(cmd, "module-cache-dir"),
		OutputFormat:       GetString(cmd, "output-format"),
		OutputPath:         GetString(cmd, "output-path"),
		Verbose:            GetFlag(cmd, "verbose"),
	}
}

func parseKeyValues(pairs []string) map[string]string {
	out := make(map[string]string, len(pairs))

	for _, p := range pairs {
		for i := 0; i < len(p); i++ {
			if p[i] == '=' {
				out[p[:i]] = p[i+1:]
				break
			}
		}
	}

	return out
}

func registerCommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("source-module", nil, "module URI to evaluate (repeatable)")
	cmd.Flags().StringArray("allowed-modules", nil, "regex pattern an imported module URI must match (repeatable)")
	cmd.Flags().StringArray("allowed-resources", nil, "regex pattern a read resource URI must match (repeatable)")
	cmd.Flags().String("root-dir", "", "root directory `file:` URIs resolve relative to")
	cmd.Flags().StringArray("env-var", nil, "name=value environment variable exposed to the evaluated module (repeatable)")
	cmd.Flags().StringArray("external-property", nil, "name=value external property exposed to the evaluated module (repeatable)")
	cmd.Flags().Duration("timeout", 0, "evaluation timeout (0 disables)")
	cmd.Flags().String("module-cache-dir", "", "content-addressed module cache directory (empty disables caching)")
	cmd.Flags().String("output-format", "pcf", "pcf|json|yaml|plist|xml|pkl-binary")
	cmd.Flags().String("output-path", "", "output file path (empty writes to stdout)")
}

// GetFlag gets an expected bool flag, exiting with the configuration/usage
// exit code if the flag was never registered (a programmer error, not a
// user-facing one).
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}

	return r
}

// GetString gets an expected string flag.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}

	return r
}

// GetStringArray gets an expected string-array flag.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}

	return r
}

// GetDuration gets an expected duration flag.
func GetDuration(cmd *cobra.Command, flag string) time.Duration {
	r, err := cmd.Flags().GetDuration(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}

	return r
}
