package mapperscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios covers the literal scenarios enumerated in spec.md §8.
func TestScenarios(t *testing.T) {
	t.Parallel()

	t.Run("quality normalization", func(t *testing.T) {
		t.Parallel()
		script, err := Parse(`quality = @caption ~ "(?i)\b([FUSL]?HD|SD|4K|1080p|720p|3840p)\b";
quality = uppercase(quality);
quality = map quality { "LHD" => "HD", "720p" => "HD", "1080p" => "FHD", "4K" => "UHD", _ => quality };
@caption = concat("US: TNT ", quality)`)
		require.NoError(t, err)

		rec := NewRecordAccessor(map[string]string{"caption": "Chanel A [LHD]"})
		script.Eval(rec, nil, nil)

		v, _ := rec.Get("caption")
		assert.Equal(t, "US: TNT HD", v)
	})

	t.Run("regex with no match is a no-op assignment", func(t *testing.T) {
		t.Parallel()
		script, err := Parse(`q = @caption ~ "(\d+)"; @caption = concat("x", q)`)
		require.NoError(t, err)

		rec := NewRecordAccessor(map[string]string{"caption": "Just text"})
		script.Eval(rec, nil, nil)

		v, _ := rec.Get("caption")
		assert.Equal(t, "Just text", v)
	})

	t.Run("named capture joining preserves first-occurrence order", func(t *testing.T) {
		t.Parallel()
		script, err := Parse(`p = @caption ~ "(?P<a>[A-Z])(?P<n>\d)"; @caption = p`)
		require.NoError(t, err)

		rec := NewRecordAccessor(map[string]string{"caption": "A1 B2"})
		script.Eval(rec, nil, nil)

		v, _ := rec.Get("caption")
		assert.Equal(t, "1: A, 2: 1, a: A, n: 1, 1: B, 2: 2, a: B, n: 2", v)
	})

	t.Run("numeric range map", func(t *testing.T) {
		t.Parallel()
		script, err := Parse(`n = number(@chno); @group = map n { 0..9 => "low", 10..99 => "mid", 100.. => "high" }`)
		require.NoError(t, err)

		rec := NewRecordAccessor(map[string]string{"chno": "42"})
		script.Eval(rec, nil, nil)

		v, _ := rec.Get("group")
		assert.Equal(t, "mid", v)
	})

	t.Run("match tuple vs single picks the first firing case", func(t *testing.T) {
		t.Parallel()
		script, err := Parse(`coast = "east"; quality = @chno; @group = match { (coast, quality) => "A", coast => "B", _ => "C" }`)
		require.NoError(t, err)

		rec := NewRecordAccessor(nil)
		script.Eval(rec, nil, nil)

		v, _ := rec.Get("group")
		assert.Equal(t, "B", v)
	})
}

func TestParseRejectsUnknownIdentifier(t *testing.T) {
	t.Parallel()
	_, err := Parse(`@caption = missing`)
	require.Error(t, err)
	assert.IsType(t, &ValidationError{}, err)
}

func TestParseRejectsBadSyntax(t *testing.T) {
	t.Parallel()
	_, err := Parse(`@caption = `)
	require.Error(t, err)
	assert.IsType(t, &ParseError{}, err)
}

func TestParseRejectsDuplicateMatchCase(t *testing.T) {
	t.Parallel()
	_, err := Parse(`a = "1"; b = "2"; match { (a, b) => "x", (a, b) => "y" }`)
	require.Error(t, err)
}

func TestParseRejectsInvalidRange(t *testing.T) {
	t.Parallel()
	_, err := Parse(`n = number(@chno); map n { 9..0 => "x" }`)
	require.Error(t, err)
}

func TestArenaWellFormedness(t *testing.T) {
	t.Parallel()
	script, err := Parse(`a = "1"; b = concat(a, "2"); @caption = b`)
	require.NoError(t, err)

	for _, stmt := range script.statements {
		assertChildrenBeforeParent(t, script.arena, stmt.Expr)
	}
}

func assertChildrenBeforeParent(t *testing.T, a *arena, id ExprId) {
	t.Helper()
	e, ok := a.get(id)
	require.True(t, ok)
	for _, child := range e.Args {
		assert.Less(t, int(child), int(id))
		assertChildrenBeforeParent(t, a, child)
	}
	if e.Kind == ExprAssignment {
		assert.Less(t, int(e.AssignExpr), int(id))
		assertChildrenBeforeParent(t, a, e.AssignExpr)
	}
	for _, child := range e.Block {
		assert.Less(t, int(child), int(id))
		assertChildrenBeforeParent(t, a, child)
	}
}
