// Package cmd wires the mapperscript command-line tool: a root Cobra
// command carrying shared flags and a zap logger lifecycle, plus the
// check and eval subcommands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	templatesFile string
	verbose       bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mapperscript",
	Short: "Parse, validate and evaluate MapperScript playlist-rewrite scripts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&templatesFile, "templates", "", "Path to a template registry file (YAML/JSON/TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug-level logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(evalCmd)
}
