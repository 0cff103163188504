// Package mapperscript implements MapperScript, the small embedded language
// used to rewrite playlist entries: rename channels, rewrite groups,
// normalize quality tokens.
//
// A script is compiled once with Parse, which lexes, parses into a flat
// expression arena, and validates identifier scope, builtin arity, and
// match/map case well-formedness. The resulting *CompiledScript is
// immutable and safe to share across goroutines; it is evaluated once per
// playlist record via Eval, which mutates the record through the caller's
// FieldAccessor and never allocates one itself.
//
// Out of scope: user-defined functions, loops, arithmetic beyond numeric
// literals used as comparison keys, mutation of variables through field
// paths, reflection over the AST after validation, and internationalized
// case folding beyond what strings.ToUpper/ToLower already provide.
package mapperscript
