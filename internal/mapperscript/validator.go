package mapperscript

import "strings"

// validateScript runs the single forward pass described in spec.md §4.3,
// carrying a growing set of identifiers defined by assignments seen so
// far. The first failure aborts validation.
func validateScript(s *CompiledScript) error {
	defined := make(map[string]bool)
	for _, stmt := range s.statements {
		if stmt.Kind != StmtExpression {
			continue
		}
		if err := validateExpr(s.arena, stmt.Expr, defined); err != nil {
			return err
		}
	}
	return nil
}

func validateExpr(a *arena, id ExprId, defined map[string]bool) error {
	e, ok := a.get(id)
	if !ok {
		return newValidationError("invalid expression reference %d", id)
	}
	switch e.Kind {
	case ExprNull, ExprStringLiteral, ExprNumberLiteral, ExprFieldAccess:
		return nil
	case ExprIdentifier:
		if !defined[e.Name] {
			return newValidationError("unknown identifier %q", e.Name)
		}
		return nil
	case ExprVarAccess:
		if !defined[e.Name] {
			return newValidationError("unknown identifier %q", e.Name)
		}
		return nil
	case ExprRegex:
		if e.RegexSource == RegexSourceIdentifier && !defined[e.RegexSourceName] {
			return newValidationError("unknown identifier %q", e.RegexSourceName)
		}
		return nil
	case ExprFunctionCall:
		return validateFunctionCall(a, e, defined)
	case ExprAssignment:
		if err := validateExpr(a, e.AssignExpr, defined); err != nil {
			return err
		}
		if e.AssignTarget == AssignToIdentifier {
			defined[e.Name] = true
		}
		return nil
	case ExprMatchBlock:
		return validateMatchBlock(a, e, defined)
	case ExprMapBlock:
		return validateMapBlock(a, e, defined)
	case ExprBlock:
		for _, child := range e.Block {
			if err := validateExpr(a, child, defined); err != nil {
				return err
			}
		}
		return nil
	default:
		return newValidationError("unhandled expression kind %d", e.Kind)
	}
}

func validateFunctionCall(a *arena, e Expression, defined map[string]bool) error {
	if len(e.Args) == 0 {
		return newValidationError("function %q requires at least one argument", e.Builtin)
	}
	switch e.Builtin {
	case BuiltinNumber, BuiltinFirst, BuiltinTemplate:
		if len(e.Args) != 1 {
			return newValidationError("function %q requires exactly one argument", e.Builtin)
		}
	}
	for _, argID := range e.Args {
		if err := validateExpr(a, argID, defined); err != nil {
			return err
		}
	}
	return nil
}

func validateMatchBlock(a *arena, e Expression, defined map[string]bool) error {
	seen := make(map[string]bool, len(e.MatchCases))
	for _, c := range e.MatchCases {
		anyCount := 0
		for _, k := range c.Keys {
			if k.Kind == MatchKeyAnyMatch {
				anyCount++
				if anyCount > 1 {
					return newValidationError("match case has more than one '_' key")
				}
				continue
			}
			if !defined[k.Name] {
				return newValidationError("unknown identifier %q in match case", k.Name)
			}
		}
		sig := matchCaseSignature(c.Keys)
		if seen[sig] {
			return newValidationError("duplicate match case keys")
		}
		seen[sig] = true
		if err := validateExpr(a, c.Expr, defined); err != nil {
			return err
		}
	}
	return nil
}

func matchCaseSignature(keys []MatchCaseKey) string {
	var b strings.Builder
	for _, k := range keys {
		if k.Kind == MatchKeyAnyMatch {
			b.WriteString("_")
		} else {
			b.WriteString(k.Name)
		}
		b.WriteByte(0)
	}
	return b.String()
}

func validateMapBlock(a *arena, e Expression, defined map[string]bool) error {
	switch e.MapKey.Kind {
	case MapKeySourceIdentifier, MapKeySourceVarAccess:
		if !defined[e.MapKey.Name] {
			return newValidationError("unknown identifier %q in map key", e.MapKey.Name)
		}
	}

	textSeen := make(map[string]bool)
	anyCount := 0
	for _, c := range e.MapCases {
		for _, k := range c.Keys {
			switch k.Kind {
			case MapKeyText:
				if textSeen[k.Text] {
					return newValidationError("duplicate map case key %q", k.Text)
				}
				textSeen[k.Text] = true
			case MapKeyRangeFull:
				if k.From > k.To {
					return newValidationError("invalid map range %v..%v", k.From, k.To)
				}
			case MapKeyAnyMatch:
				anyCount++
				if anyCount > 1 {
					return newValidationError("map block has more than one '_' case")
				}
			}
		}
		if err := validateExpr(a, c.Expr, defined); err != nil {
			return err
		}
	}
	return nil
}
