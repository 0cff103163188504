package mapperscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantErr  bool
		expected []TokenType
	}{
		{
			name:     "field and assignment",
			input:    `quality = @caption`,
			expected: []TokenType{TokenIdent, TokenEquals, TokenField, TokenEOF},
		},
		{
			name:     "string and regex",
			input:    `@caption ~ "(\d+)"`,
			expected: []TokenType{TokenField, TokenTilde, TokenString, TokenEOF},
		},
		{
			name:     "numbers with negative and fraction",
			input:    `-1.5 42`,
			expected: []TokenType{TokenNumber, TokenNumber, TokenEOF},
		},
		{
			name:     "range dots not confused with decimal",
			input:    `0..9`,
			expected: []TokenType{TokenNumber, TokenDotDot, TokenNumber, TokenEOF},
		},
		{
			name:     "var access dot",
			input:    `p.a`,
			expected: []TokenType{TokenIdent, TokenDot, TokenIdent, TokenEOF},
		},
		{
			name:     "comment then newline",
			input:    "x = 1 # note\ny = 2",
			expected: []TokenType{TokenIdent, TokenEquals, TokenNumber, TokenComment, TokenNewline, TokenIdent, TokenEquals, TokenNumber, TokenEOF},
		},
		{
			name:    "unknown field rejected",
			input:   `@nope`,
			wantErr: true,
		},
		{
			name:    "unterminated string rejected",
			input:   `"abc`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tokens, err := lex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			got := make([]TokenType, len(tokens))
			for i, tok := range tokens {
				got[i] = tok.Type
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLexStringEscapes(t *testing.T) {
	t.Parallel()
	tokens, err := lex(`"a\nb\tc\\d\"e"`)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "a\nb\tc\\d\"e", tokens[0].Value)
}
