package mapperscript

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// env holds the per-evaluation variable bindings. A fresh env is created
// for every record: spec.md §5 requires evaluation state never to leak
// across records.
type env struct {
	variables map[string]EvalResult
}

func newEnv() *env {
	return &env{variables: make(map[string]EvalResult)}
}

// evaluator walks a CompiledScript's statements once, mutating the record
// through accessor and consulting templates for template() lookups.
type evaluator struct {
	script    *CompiledScript
	accessor  FieldAccessor
	templates *TemplateRegistry
	env       *env
	logger    *zap.Logger
}

// Eval runs every statement of s against accessor for side effects. A
// Failure reaching a statement boundary is logged at debug level and does
// not abort the remaining statements (spec.md §7). Pass a nil logger to
// run silently (a no-op logger is substituted).
func (s *CompiledScript) Eval(accessor FieldAccessor, templates *TemplateRegistry, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ev := &evaluator{
		script:    s,
		accessor:  accessor,
		templates: templates,
		env:       newEnv(),
		logger:    logger,
	}
	for _, stmt := range s.statements {
		if stmt.Kind != StmtExpression {
			continue
		}
		result := ev.eval(stmt.Expr)
		if result.Kind == KindFailure {
			ev.logger.Debug("mapperscript statement failed", zap.String("reason", result.FailureMsg))
		}
	}
}

func (ev *evaluator) eval(id ExprId) EvalResult {
	e, ok := ev.script.arena.get(id)
	if !ok {
		return Failure("invalid expression reference")
	}
	switch e.Kind {
	case ExprNull:
		return Undefined()
	case ExprIdentifier:
		return ev.evalIdentifier(e.Name)
	case ExprFieldAccess:
		return ev.evalFieldAccess(e.Field)
	case ExprVarAccess:
		return ev.evalVarAccess(e.Name, e.Field)
	case ExprStringLiteral:
		return ValueOf(e.Str)
	case ExprNumberLiteral:
		return NumberOf(e.Num)
	case ExprRegex:
		return ev.evalRegex(e)
	case ExprFunctionCall:
		return ev.evalFunctionCall(e)
	case ExprAssignment:
		return ev.evalAssignment(e)
	case ExprMatchBlock:
		return ev.evalMatchBlock(e)
	case ExprMapBlock:
		return ev.evalMapBlock(e)
	case ExprBlock:
		return ev.evalBlock(e)
	default:
		return Failure("unhandled expression kind %d", e.Kind)
	}
}

func (ev *evaluator) evalIdentifier(name string) EvalResult {
	v, ok := ev.env.variables[name]
	if !ok {
		return Failure("variable %q not found", name)
	}
	return v
}

func (ev *evaluator) evalFieldAccess(field string) EvalResult {
	v, ok := ev.accessor.Get(field)
	if !ok {
		return Undefined()
	}
	return ValueOf(v)
}

func (ev *evaluator) evalVarAccess(name, field string) EvalResult {
	v, ok := ev.env.variables[name]
	if !ok {
		return Failure("variable %q not found", name)
	}
	switch v.Kind {
	case KindUndefined:
		return Undefined()
	case KindNamed:
		for _, p := range v.Named {
			if p.Key == field {
				return ValueOf(p.Value)
			}
		}
		return Failure("variable %q has no field %q", name, field)
	case KindNumber, KindValue:
		return Failure("variable %q has no fields", name)
	default:
		// AnyValue / Failure propagate unchanged.
		return v
	}
}

func (ev *evaluator) evalRegex(e Expression) EvalResult {
	var subject string
	switch e.RegexSource {
	case RegexSourceIdentifier:
		v, ok := ev.env.variables[e.RegexSourceName]
		if !ok {
			return Failure("variable %q not found", e.RegexSourceName)
		}
		if v.Kind != KindValue {
			return Undefined()
		}
		subject = v.Str
	case RegexSourceField:
		s, ok := ev.accessor.Get(e.RegexSourceName)
		if !ok {
			return Undefined()
		}
		subject = s
	}

	matchesFound := e.Regexp.FindAllStringSubmatchIndex(subject, -1)
	if len(matchesFound) == 0 {
		return Undefined()
	}

	names := e.Regexp.SubexpNames()
	var pairs []NamedPair
	for _, m := range matchesFound {
		groupCount := len(m)/2 - 1
		for g := 1; g <= groupCount; g++ {
			start, end := m[2*g], m[2*g+1]
			if start < 0 || end < 0 {
				continue
			}
			captured := subject[start:end]
			pairs = append(pairs, NamedPair{Key: strconv.Itoa(g), Value: captured})
		}
		for g := 1; g <= groupCount; g++ {
			if names[g] == "" {
				continue
			}
			start, end := m[2*g], m[2*g+1]
			if start < 0 || end < 0 {
				continue
			}
			pairs = append(pairs, NamedPair{Key: names[g], Value: subject[start:end]})
		}
	}

	switch len(pairs) {
	case 0:
		return Undefined()
	case 1:
		return ValueOf(pairs[0].Value)
	default:
		return NamedOf(pairs)
	}
}

func (ev *evaluator) evalAssignment(e Expression) EvalResult {
	result := ev.eval(e.AssignExpr)
	switch e.AssignTarget {
	case AssignToIdentifier:
		ev.env.variables[e.Name] = result
		return Undefined()
	case AssignToField:
		switch result.Kind {
		case KindValue:
			ev.accessor.Set(e.Field, result.Str)
			return Undefined()
		case KindNumber:
			ev.accessor.Set(e.Field, FormatNumber(result.Num))
			return Undefined()
		case KindNamed:
			s, _ := stringify(result)
			ev.accessor.Set(e.Field, s)
			return Undefined()
		case KindUndefined, KindAnyValue:
			return Undefined()
		case KindFailure:
			return Failure("assignment to @%s failed: %s", e.Field, result.FailureMsg)
		default:
			return Undefined()
		}
	default:
		return Undefined()
	}
}

func (ev *evaluator) evalFunctionCall(e Expression) EvalResult {
	args := make([]EvalResult, len(e.Args))
	for i, argID := range e.Args {
		args[i] = ev.eval(argID)
		if isFailure(args[i]) {
			return Failure("function %q failed: %s", e.Builtin, args[i].FailureMsg)
		}
	}

	var kept []EvalResult
	for _, a := range args {
		if a.Kind == KindUndefined || a.Kind == KindFailure || a.Kind == KindAnyValue {
			continue
		}
		kept = append(kept, a)
	}
	if len(kept) == 0 {
		if e.Builtin == BuiltinPrint {
			ev.logger.Debug("mapperscript print", zap.String("output", "undefined"))
		}
		return Undefined()
	}

	switch e.Builtin {
	case BuiltinConcat:
		return ValueOf(joinStringified(kept, ""))
	case BuiltinUppercase:
		return ValueOf(strings.ToUpper(joinStringified(kept, " ")))
	case BuiltinLowercase:
		return ValueOf(strings.ToLower(joinStringified(kept, " ")))
	case BuiltinTrim:
		parts := make([]string, 0, len(kept))
		for _, a := range kept {
			s, ok := stringify(a)
			if ok {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return ValueOf(strings.TrimSpace(strings.Join(parts, " ")))
	case BuiltinCapitalize:
		parts := make([]string, 0, len(kept))
		for _, a := range kept {
			s, ok := stringify(a)
			if ok {
				parts = append(parts, capitalizeFirst(s))
			}
		}
		return ValueOf(strings.Join(parts, " "))
	case BuiltinPrint:
		ev.logger.Debug("mapperscript print", zap.String("output", joinStringified(kept, "")))
		return Undefined()
	case BuiltinNumber:
		first := kept[0]
		if first.Kind != KindValue {
			return first
		}
		n, ok := parseNumber(first.Str)
		if !ok {
			return Failure("cannot parse %q as a number", first.Str)
		}
		return NumberOf(n)
	case BuiltinFirst:
		first := kept[0]
		if first.Kind == KindNamed {
			if len(first.Named) == 0 {
				return Undefined()
			}
			return ValueOf(first.Named[0].Value)
		}
		return first
	case BuiltinTemplate:
		name, ok := templateKeyOf(kept[0])
		if !ok {
			return Undefined()
		}
		if ev.templates != nil {
			if v, ok := ev.templates.Resolve(name); ok {
				return ValueOf(v)
			}
		}
		return Undefined()
	default:
		return Failure("unknown function")
	}
}

func templateKeyOf(v EvalResult) (string, bool) {
	switch v.Kind {
	case KindValue:
		return v.Str, true
	case KindNamed:
		if len(v.Named) == 0 {
			return "", false
		}
		return v.Named[0].Value, true
	default:
		return "", false
	}
}

func joinStringified(values []EvalResult, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := stringify(v); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func (ev *evaluator) evalMatchBlock(e Expression) EvalResult {
	for _, c := range e.MatchCases {
		fires := true
		for _, k := range c.Keys {
			var v EvalResult
			switch k.Kind {
			case MatchKeyAnyMatch:
				v = AnyValueResult()
			case MatchKeyIdentifier:
				bound, ok := ev.env.variables[k.Name]
				if !ok {
					fires = false
					break
				}
				v = bound
			}
			if !fires {
				break
			}
			if v.Kind == KindUndefined || v.Kind == KindFailure {
				fires = false
				break
			}
		}
		if fires {
			return ev.eval(c.Expr)
		}
	}
	return Undefined()
}

func (ev *evaluator) evalMapKey(k MapKey) EvalResult {
	switch k.Kind {
	case MapKeySourceField:
		return ev.evalFieldAccess(k.Field)
	case MapKeySourceIdentifier:
		return ev.evalIdentifier(k.Name)
	case MapKeySourceVarAccess:
		return ev.evalVarAccess(k.Name, k.Field)
	default:
		return Undefined()
	}
}

func (ev *evaluator) evalMapBlock(e Expression) EvalResult {
	kv := ev.evalMapKey(e.MapKey)
	for _, c := range e.MapCases {
		if mapCaseFires(kv, c.Keys) {
			return ev.eval(c.Expr)
		}
	}
	return Undefined()
}

func mapCaseFires(kv EvalResult, keys []MapCaseKey) bool {
	for _, k := range keys {
		switch k.Kind {
		case MapKeyAnyMatch:
			return true
		case MapKeyText:
			if matches(kv, ValueOf(k.Text)) {
				return true
			}
		case MapKeyRangeFrom:
			c := compare(kv, NumberOf(k.From))
			if c == CompareEqual || c == CompareGreater {
				return true
			}
		case MapKeyRangeTo:
			c := compare(kv, NumberOf(k.To))
			if c == CompareEqual || c == CompareLess {
				return true
			}
		case MapKeyRangeFull:
			from := compare(kv, NumberOf(k.From))
			to := compare(kv, NumberOf(k.To))
			fromOK := from == CompareEqual || from == CompareGreater
			toOK := to == CompareEqual || to == CompareLess
			if fromOK && toOK {
				return true
			}
		case MapKeyRangeEq:
			if compare(kv, NumberOf(k.From)) == CompareEqual {
				return true
			}
		}
	}
	return false
}

func (ev *evaluator) evalBlock(e Expression) EvalResult {
	result := Undefined()
	for _, childID := range e.Block {
		result = ev.eval(childID)
	}
	return result
}
