// Package clifmt renders MapperScript compile results and evaluated
// records for the command-line tools, the way internal/print.go renders
// lint issues in the upstream linter this repo is adapted from: plain
// strings.Builder output decorated with fatih/color styles, no templating
// engine.
package clifmt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/tuliprox/mapperscript/internal/mapperscript"
)

var (
	errStyle   = color.New(color.FgRed, color.Bold)
	okStyle    = color.New(color.FgGreen, color.Bold)
	fieldStyle = color.New(color.FgCyan, color.Bold)
	posStyle   = color.New(color.FgBlue, color.Bold)
)

// FormatCompileError renders a parse or validation error with its source
// location, when one is available.
func FormatCompileError(err error) string {
	var b strings.Builder
	b.WriteString(errStyle.Sprint("error: "))
	if pe, ok := err.(*mapperscript.ParseError); ok {
		b.WriteString(pe.Message)
		b.WriteString(posStyle.Sprintf(" (%s)", pe.Pos))
		return b.String()
	}
	b.WriteString(err.Error())
	return b.String()
}

// FormatCheckOK renders a successful check result with the script's
// statement and expression counts.
func FormatCheckOK(path string, statementCount, exprCount int) string {
	return okStyle.Sprint("ok: ") + fmt.Sprintf("%s (%d statements, %d expressions)", path, statementCount, exprCount)
}

// FormatRecord renders a record's fields sorted by name, one per line,
// "name: value".
func FormatRecord(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(fieldStyle.Sprint(name))
		b.WriteString(": ")
		b.WriteString(fields[name])
		b.WriteString("\n")
	}
	return b.String()
}
