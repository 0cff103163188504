package mapperscript

import (
	"regexp"
	"strconv"
)

// parser is a recursive-descent parser over the token stream produced by
// lex. It doubles as the AST builder described in spec.md's component
// breakdown: every production lowers its children first and appends the
// resulting Expression to the arena before constructing its parent, which
// is what gives every ExprId the "child index < parent index" invariant.
type parser struct {
	tokens []Token
	pos    int
	arena  *arena
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens, arena: &arena{}}
}

func (p *parser) cur() Token {
	return p.tokens[p.pos]
}

func (p *parser) peekN(n int) Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt TokenType) (Token, error) {
	if p.cur().Type != tt {
		return Token{}, newParseError(p.cur().Pos, "expected %s, found %s", tt, p.cur().Type)
	}
	return p.advance(), nil
}

func (p *parser) skipBlockNoise() {
	for p.cur().Type == TokenNewline || p.cur().Type == TokenComment {
		p.advance()
	}
}

func (p *parser) atStatementSeparator() bool {
	t := p.cur().Type
	return t == TokenNewline || t == TokenSemicolon || t == TokenComment
}

func (p *parser) skipSeparatorsAndComments() {
	for p.atStatementSeparator() {
		p.advance()
	}
}

// parseExprList parses a sequence of expressions separated by ';' or
// newline (comments interspersed freely), stopping at EOF or at a
// terminator token, matching spec.md's `statements` production. It backs
// both the top-level program and block_expr, since both share the same
// grammar rule.
func (p *parser) parseExprList(stopAtEOF bool, terminator TokenType) ([]ExprId, error) {
	var ids []ExprId
	p.skipSeparatorsAndComments()
	for !p.atListEnd(stopAtEOF, terminator) {
		id, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		if p.atListEnd(stopAtEOF, terminator) {
			break
		}
		if !p.atStatementSeparator() {
			return nil, newParseError(p.cur().Pos, "expected ';' or newline, found %s", p.cur().Type)
		}
		p.skipSeparatorsAndComments()
	}
	return ids, nil
}

func (p *parser) atListEnd(stopAtEOF bool, terminator TokenType) bool {
	if stopAtEOF {
		return p.cur().Type == TokenEOF
	}
	return p.cur().Type == terminator
}

func (p *parser) parseExpr() (ExprId, error) {
	tok := p.cur()
	switch {
	case tok.Type == TokenLBrace:
		return p.parseBlockExpr()
	case tok.Type == TokenIdent && tok.Value == "null":
		p.advance()
		return p.arena.push(Expression{Kind: ExprNull}), nil
	case tok.Type == TokenIdent && tok.Value == "match" && p.peekN(1).Type == TokenLBrace:
		return p.parseMatchBlock()
	case tok.Type == TokenIdent && tok.Value == "map" && (p.peekN(1).Type == TokenField || p.peekN(1).Type == TokenIdent):
		return p.parseMapBlock()
	case tok.Type == TokenString:
		p.advance()
		return p.arena.push(Expression{Kind: ExprStringLiteral, Str: tok.Value}), nil
	case tok.Type == TokenNumber:
		p.advance()
		num, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return 0, newParseError(tok.Pos, "invalid number %q", tok.Value)
		}
		return p.arena.push(Expression{Kind: ExprNumberLiteral, Num: num}), nil
	case tok.Type == TokenField:
		return p.parseFieldHead()
	case tok.Type == TokenIdent:
		return p.parseIdentHead()
	default:
		return 0, newParseError(tok.Pos, "unexpected token %s", tok.Type)
	}
}

func (p *parser) parseFieldHead() (ExprId, error) {
	tok := p.advance()
	switch p.cur().Type {
	case TokenEquals:
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		return p.arena.push(Expression{Kind: ExprAssignment, AssignTarget: AssignToField, Field: tok.Value, AssignExpr: rhs}), nil
	case TokenTilde:
		return p.parseRegexTail(RegexSourceField, tok.Value)
	default:
		return p.arena.push(Expression{Kind: ExprFieldAccess, Field: tok.Value}), nil
	}
}

func (p *parser) parseIdentHead() (ExprId, error) {
	tok := p.advance()
	switch p.cur().Type {
	case TokenLParen:
		b, ok := builtinNames[tok.Value]
		if !ok {
			return 0, newParseError(tok.Pos, "unknown function %q", tok.Value)
		}
		return p.parseFunctionCallTail(b)
	case TokenEquals:
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		return p.arena.push(Expression{Kind: ExprAssignment, AssignTarget: AssignToIdentifier, Name: tok.Value, AssignExpr: rhs}), nil
	case TokenTilde:
		return p.parseRegexTail(RegexSourceIdentifier, tok.Value)
	case TokenDot:
		p.advance()
		fieldTok, err := p.expect(TokenIdent)
		if err != nil {
			return 0, err
		}
		return p.arena.push(Expression{Kind: ExprVarAccess, Name: tok.Value, Field: fieldTok.Value}), nil
	default:
		return p.arena.push(Expression{Kind: ExprIdentifier, Name: tok.Value}), nil
	}
}

func (p *parser) parseRegexTail(source RegexSourceKind, name string) (ExprId, error) {
	p.advance() // consume '~'
	strTok, err := p.expect(TokenString)
	if err != nil {
		return 0, err
	}
	re, err := regexp.Compile(strTok.Value)
	if err != nil {
		return 0, newParseError(strTok.Pos, "invalid regex %q: %s", strTok.Value, err)
	}
	return p.arena.push(Expression{
		Kind:            ExprRegex,
		RegexSource:     source,
		RegexSourceName: name,
		Pattern:         strTok.Value,
		Regexp:          re,
	}), nil
}

func (p *parser) parseFunctionCallTail(b Builtin) (ExprId, error) {
	p.advance() // consume '('
	var args []ExprId
	if p.cur().Type != TokenRParen {
		for {
			argID, err := p.parseExpr()
			if err != nil {
				return 0, err
			}
			args = append(args, argID)
			if p.cur().Type == TokenComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return 0, err
	}
	return p.arena.push(Expression{Kind: ExprFunctionCall, Builtin: b, Args: args}), nil
}

func (p *parser) parseBlockExpr() (ExprId, error) {
	p.advance() // consume '{'
	ids, err := p.parseExprList(false, TokenRBrace)
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return 0, err
	}
	return p.arena.push(Expression{Kind: ExprBlock, Block: ids}), nil
}

func (p *parser) parseMatchBlock() (ExprId, error) {
	p.advance() // consume "match"
	if _, err := p.expect(TokenLBrace); err != nil {
		return 0, err
	}
	p.skipBlockNoise()
	var cases []MatchCase
	for p.cur().Type != TokenRBrace {
		c, err := p.parseMatchCase()
		if err != nil {
			return 0, err
		}
		cases = append(cases, c)
		p.skipBlockNoise()
		if p.cur().Type == TokenComma {
			p.advance()
			p.skipBlockNoise()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return 0, err
	}
	return p.arena.push(Expression{Kind: ExprMatchBlock, MatchCases: cases}), nil
}

func (p *parser) parseMatchCase() (MatchCase, error) {
	p.skipBlockNoise()
	paren := false
	if p.cur().Type == TokenLParen {
		paren = true
		p.advance()
	}
	var keys []MatchCaseKey
	for {
		p.skipBlockNoise()
		k, err := p.parseMatchCaseKey()
		if err != nil {
			return MatchCase{}, err
		}
		keys = append(keys, k)
		if p.cur().Type == TokenComma {
			p.advance()
			continue
		}
		break
	}
	if paren {
		if _, err := p.expect(TokenRParen); err != nil {
			return MatchCase{}, err
		}
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return MatchCase{}, err
	}
	exprID, err := p.parseExpr()
	if err != nil {
		return MatchCase{}, err
	}
	return MatchCase{Keys: keys, Expr: exprID}, nil
}

func (p *parser) parseMatchCaseKey() (MatchCaseKey, error) {
	tok, err := p.expect(TokenIdent)
	if err != nil {
		return MatchCaseKey{}, err
	}
	if tok.Value == "_" {
		return MatchCaseKey{Kind: MatchKeyAnyMatch}, nil
	}
	return MatchCaseKey{Kind: MatchKeyIdentifier, Name: tok.Value}, nil
}

func (p *parser) parseMapBlock() (ExprId, error) {
	p.advance() // consume "map"
	key, err := p.parseMapKey()
	if err != nil {
		return 0, err
	}
	if _, err := p.expect(TokenLBrace); err != nil {
		return 0, err
	}
	p.skipBlockNoise()
	var cases []MapCase
	for p.cur().Type != TokenRBrace {
		c, err := p.parseMapCase()
		if err != nil {
			return 0, err
		}
		cases = append(cases, c)
		p.skipBlockNoise()
		if p.cur().Type == TokenComma {
			p.advance()
			p.skipBlockNoise()
			continue
		}
		break
	}
	if _, err := p.expect(TokenRBrace); err != nil {
		return 0, err
	}
	return p.arena.push(Expression{Kind: ExprMapBlock, MapKey: key, MapCases: cases}), nil
}

func (p *parser) parseMapKey() (MapKey, error) {
	switch p.cur().Type {
	case TokenField:
		tok := p.advance()
		return MapKey{Kind: MapKeySourceField, Field: tok.Value}, nil
	case TokenIdent:
		tok := p.advance()
		if p.cur().Type == TokenDot {
			p.advance()
			fieldTok, err := p.expect(TokenIdent)
			if err != nil {
				return MapKey{}, err
			}
			return MapKey{Kind: MapKeySourceVarAccess, Name: tok.Value, Field: fieldTok.Value}, nil
		}
		return MapKey{Kind: MapKeySourceIdentifier, Name: tok.Value}, nil
	default:
		return MapKey{}, newParseError(p.cur().Pos, "expected map key, found %s", p.cur().Type)
	}
}

func (p *parser) parseMapCase() (MapCase, error) {
	p.skipBlockNoise()
	keys, err := p.parseMapCaseKeys()
	if err != nil {
		return MapCase{}, err
	}
	if _, err := p.expect(TokenArrow); err != nil {
		return MapCase{}, err
	}
	exprID, err := p.parseExpr()
	if err != nil {
		return MapCase{}, err
	}
	return MapCase{Keys: keys, Expr: exprID}, nil
}

func (p *parser) parseMapCaseKeys() ([]MapCaseKey, error) {
	switch {
	case p.cur().Type == TokenIdent && p.cur().Value == "_":
		p.advance()
		return []MapCaseKey{{Kind: MapKeyAnyMatch}}, nil
	case p.cur().Type == TokenDotDot:
		p.advance()
		numTok, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		to, err := strconv.ParseFloat(numTok.Value, 64)
		if err != nil {
			return nil, newParseError(numTok.Pos, "invalid number %q", numTok.Value)
		}
		return []MapCaseKey{{Kind: MapKeyRangeTo, To: to}}, nil
	case p.cur().Type == TokenNumber:
		firstTok := p.advance()
		from, err := strconv.ParseFloat(firstTok.Value, 64)
		if err != nil {
			return nil, newParseError(firstTok.Pos, "invalid number %q", firstTok.Value)
		}
		if p.cur().Type == TokenDotDot {
			p.advance()
			if p.cur().Type == TokenNumber {
				secondTok := p.advance()
				to, err := strconv.ParseFloat(secondTok.Value, 64)
				if err != nil {
					return nil, newParseError(secondTok.Pos, "invalid number %q", secondTok.Value)
				}
				return []MapCaseKey{{Kind: MapKeyRangeFull, From: from, To: to}}, nil
			}
			return []MapCaseKey{{Kind: MapKeyRangeFrom, From: from}}, nil
		}
		return []MapCaseKey{{Kind: MapKeyRangeEq, From: from}}, nil
	case p.cur().Type == TokenString:
		var keys []MapCaseKey
		for {
			tok, err := p.expect(TokenString)
			if err != nil {
				return nil, err
			}
			keys = append(keys, MapCaseKey{Kind: MapKeyText, Text: tok.Value})
			if p.cur().Type == TokenPipe {
				p.advance()
				continue
			}
			break
		}
		return keys, nil
	default:
		return nil, newParseError(p.cur().Pos, "expected map case key, found %s", p.cur().Type)
	}
}
