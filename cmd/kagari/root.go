package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	verbose *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "kagari",
	Short: "Prepare a grammar for parse table construction",
	Long: `kagari normalizes a grammar description into the forms a parse-table
builder requires: a flattened syntax grammar, a lexical grammar of expanded
token definitions, a map of inlinable productions, and a map of default
display aliases.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if *rootFlags.verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log pipeline stages")
}

func Execute() error {
	return rootCmd.Execute()
}
