package mapperscript

// CompiledScript is the immutable result of parsing and validating a
// MapperScript source. It is safe to share by read-only handle across
// goroutines and across evaluations (spec.md §5); the arena and statement
// list never change after Parse returns successfully.
type CompiledScript struct {
	arena      *arena
	statements []Statement
	Source     string
}

// ExpressionCount reports how many nodes the arena holds. Exposed for
// tests asserting arena well-formedness and for tooling that wants to
// report script size without reaching into package internals.
func (s *CompiledScript) ExpressionCount() int {
	return len(s.arena.expressions)
}

// StatementCount reports the number of top-level statements.
func (s *CompiledScript) StatementCount() int {
	return len(s.statements)
}

// Parse lexes, parses and validates source, returning a reusable compiled
// script on success. Parse and validation errors abort compilation and are
// reported as a single error (spec.md §6, §7).
func Parse(source string) (*CompiledScript, error) {
	tokens, err := lex(source)
	if err != nil {
		return nil, err
	}
	p := newParser(tokens)
	ids, err := p.parseExprList(true, TokenEOF)
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenEOF {
		return nil, newParseError(p.cur().Pos, "unexpected trailing token %s", p.cur().Type)
	}

	statements := make([]Statement, len(ids))
	for i, id := range ids {
		statements[i] = Statement{Kind: StmtExpression, Expr: id}
	}

	script := &CompiledScript{arena: p.arena, statements: statements, Source: source}
	if err := validateScript(script); err != nil {
		return nil, err
	}
	return script, nil
}
