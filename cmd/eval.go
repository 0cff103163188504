package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuliprox/mapperscript/internal/cliconfig"
	"github.com/tuliprox/mapperscript/internal/clifmt"
	"github.com/tuliprox/mapperscript/internal/mapperscript"
)

var recordFile string

var evalCmd = &cobra.Command{
	Use:   "eval <script-file>",
	Short: "Evaluate a MapperScript source file against a record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(clifmt.FormatCompileError(err))
			os.Exit(1)
		}

		script, err := mapperscript.Parse(string(source))
		if err != nil {
			fmt.Println(clifmt.FormatCompileError(err))
			os.Exit(1)
		}

		fields := map[string]string{}
		if recordFile != "" {
			fields, err = cliconfig.LoadRecord(recordFile)
			if err != nil {
				logger.Error("failed to load record", zap.Error(err))
				os.Exit(1)
			}
		}

		templates, err := cliconfig.LoadTemplateRegistry(templatesFile)
		if err != nil {
			logger.Error("failed to load template registry", zap.Error(err))
			os.Exit(1)
		}

		rec := mapperscript.NewRecordAccessor(fields)
		script.Eval(rec, templates, logger)

		fmt.Print(clifmt.FormatRecord(rec.Fields))
	},
}

func init() {
	evalCmd.Flags().StringVar(&recordFile, "record", "", "Path to a record file (YAML/JSON/TOML) providing initial field values")
}
