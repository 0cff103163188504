package mapperscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorArity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"concat requires an argument", `x = concat()`, true},
		{"number requires exactly one argument", `x = number(@chno, @id)`, true},
		{"template requires exactly one argument", `x = template(@name, @id)`, true},
		{"concat allows many arguments", `x = concat(@name, @title, "x")`, false},
		{"first with one argument is fine", `x = @name; y = first(x)`, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.source)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidationMonotonicity(t *testing.T) {
	t.Parallel()
	// Property 2 from spec.md §8: any prefix of a validating script also
	// validates, since each statement only ever adds to defined_idents.
	full := `a = "1"
b = concat(a, "2")
@caption = b`
	script, err := Parse(full)
	require.NoError(t, err)

	for i := 1; i <= script.StatementCount(); i++ {
		prefixed := &CompiledScript{arena: script.arena, statements: script.statements[:i]}
		assert.NoError(t, validateScript(prefixed))
	}
}

func TestValidatorRejectsUnknownFieldAtLexTime(t *testing.T) {
	t.Parallel()
	_, err := Parse(`@bogus = "x"`)
	require.Error(t, err)
}

func TestValidatorRejectsSecondAnyMatchInOneMatchCase(t *testing.T) {
	t.Parallel()
	_, err := Parse(`match { (_, _) => "x" }`)
	require.Error(t, err)
}

func TestValidatorRejectsSecondAnyMatchAcrossMapCases(t *testing.T) {
	t.Parallel()
	_, err := Parse(`n = number(@chno); map n { _ => "a", _ => "b" }`)
	require.Error(t, err)
}
