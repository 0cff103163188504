package clifmt

import (
	"gopkg.in/yaml.v3"
)

// ScriptReport is a YAML-serializable summary of a checked script, for
// tooling that wants machine-readable output instead of the colorized
// one-liner FormatCheckOK prints to a terminal.
type ScriptReport struct {
	Path        string `yaml:"path"`
	Statements  int    `yaml:"statements"`
	Expressions int    `yaml:"expressions"`
}

// FormatCheckReport renders a ScriptReport as YAML.
func FormatCheckReport(r ScriptReport) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
