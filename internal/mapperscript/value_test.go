package mapperscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "42", FormatNumber(42.0))
	assert.Equal(t, "41.9995", FormatNumber(41.9995))
	assert.Equal(t, "3.5", FormatNumber(3.5))
}

func TestMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		left  EvalResult
		right EvalResult
		want  bool
	}{
		{"any value matches anything", AnyValueResult(), ValueOf("x"), true},
		{"value equals value", ValueOf("hd"), ValueOf("hd"), true},
		{"value parses as number", ValueOf("42"), NumberOf(42), true},
		{"value non-numeric vs number", ValueOf("hd"), NumberOf(1), false},
		{"number vs number within epsilon", NumberOf(1.0001), NumberOf(1.0002), true},
		{"named equal regardless of order", NamedOf([]NamedPair{{"a", "1"}, {"b", "2"}}), NamedOf([]NamedPair{{"b", "2"}, {"a", "1"}}), true},
		{"named vs value never matches", NamedOf([]NamedPair{{"a", "1"}}), ValueOf("1"), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, matches(tt.left, tt.right))
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	assert.Equal(t, CompareLess, compare(NumberOf(1), NumberOf(2)))
	assert.Equal(t, CompareGreater, compare(ValueOf("10"), NumberOf(3)))
	assert.Equal(t, CompareEqual, compare(NumberOf(3), ValueOf("3")))
	assert.Equal(t, CompareIncomparable, compare(ValueOf("abc"), NumberOf(3)))
	assert.Equal(t, CompareEqual, compare(AnyValueResult(), ValueOf("anything")))
	assert.Equal(t, CompareLess, compare(ValueOf("apple"), ValueOf("banana")))
}

func TestConcatArgsSkipsUndefinedAndFailure(t *testing.T) {
	t.Parallel()
	out := joinStringified([]EvalResult{ValueOf("a"), Undefined(), Failure("x"), ValueOf("b")}, "")
	assert.Equal(t, "ab", out)
}
