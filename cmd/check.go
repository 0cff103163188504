package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuliprox/mapperscript/internal/clifmt"
	"github.com/tuliprox/mapperscript/internal/mapperscript"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check <script-file>",
	Short: "Parse and validate a MapperScript source file",
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

		if checkFormat == "yaml" {
			report := clifmt.ScriptReport{
				Path:        path,
				Statements:  script.StatementCount(),
				Expressions: script.ExpressionCount(),
			}
			out, err := clifmt.FormatCheckReport(report)
			if err != nil {
				fmt.Println(clifmt.FormatCompileError(err))
				os.Exit(1)
			}
			fmt.Print(out)
			return
		}

		fmt.Println(clifmt.FormatCheckOK(path, script.StatementCount(), script.ExpressionCount()))
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "text", "Output format: text or yaml")
}
