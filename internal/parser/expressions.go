package parser

import (
	"fmt"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/lexer"
)

var binaryOperators = map[lexer.TokenType]ast.BinaryOp{
	lexer.ASTERISK:  ast.OpMul,
	lexer.SLASH:     ast.OpDiv,
	lexer.PERCENT:   ast.OpMod,
	lexer.PLUS:      ast.OpAdd,
	lexer.MINUS:     ast.OpSub,
	lexer.SHL:       ast.OpShl,
	lexer.SHR:       ast.OpShr,
	lexer.LT:        ast.OpLt,
	lexer.LE:        ast.OpLe,
	lexer.GT:        ast.OpGt,
	lexer.GE:        ast.OpGe,
	lexer.EQ:        ast.OpEq,
	lexer.NOT_EQ:    ast.OpNe,
	lexer.AMPERSAND: ast.OpBitAnd,
	lexer.CARET:     ast.OpBitXor,
	lexer.PIPE:      ast.OpBitOr,
	lexer.AND:       ast.OpAnd,
	lexer.OR:        ast.OpOr,
}

var assignOperators = map[lexer.TokenType]ast.AssignOp{
	lexer.ASSIGN:           ast.OpAssign,
	lexer.PLUS_ASSIGN:      ast.OpAddAssign,
	lexer.MINUS_ASSIGN:     ast.OpSubAssign,
	lexer.ASTERISK_ASSIGN:  ast.OpMulAssign,
	lexer.SLASH_ASSIGN:     ast.OpDivAssign,
	lexer.PERCENT_ASSIGN:   ast.OpModAssign,
	lexer.SHL_ASSIGN:       ast.OpShlAssign,
	lexer.SHR_ASSIGN:       ast.OpShrAssign,
	lexer.AMPERSAND_ASSIGN: ast.OpBitAndAssign,
	lexer.CARET_ASSIGN:     ast.OpBitXorAssign,
	lexer.PIPE_ASSIGN:      ast.OpBitOrAssign,
}

var prefixOperators = map[lexer.TokenType]ast.UnaryOp{
	lexer.MINUS:     ast.OpNeg,
	lexer.PLUS:      ast.OpPos,
	lexer.INC:       ast.OpPreInc,
	lexer.DEC:       ast.OpPreDec,
	lexer.BANG:      ast.OpNot,
	lexer.TILDE:     ast.OpBitNot,
	lexer.ASTERISK:  ast.OpDeref,
	lexer.AMPERSAND: ast.OpAddressOf,
	lexer.SIZEOF:    ast.OpSizeOf,
	lexer.ALIGNOF:   ast.OpAlignOf,
}

var postfixOperators = map[lexer.TokenType]ast.UnaryOp{
	lexer.INC:  ast.OpPostInc,
	lexer.DEC:  ast.OpPostDec,
	lexer.BANG: ast.OpFactorial,
}

var literalKinds = map[lexer.TokenType]ast.LiteralKind{
	lexer.TRUE:    ast.BoolLit,
	lexer.FALSE:   ast.BoolLit,
	lexer.DECIMAL: ast.DecimalLit,
	lexer.HEX:     ast.HexLit,
	lexer.OCTAL:   ast.OctalLit,
	lexer.BINARY:  ast.BinaryLit,
	lexer.CHAR:    ast.CharLit,
	lexer.STRING:  ast.StrLit,
}

// ParseExpression parses a single expression covering the whole input.
func (p *Parser) ParseExpression() ast.Expr {
	expr := p.parseExpression(precedenceLowest)
	if expr != nil && p.peekTok.Type != lexer.EOF {
		p.reportError("unexpected "+describe(p.peekTok)+" after expression", p.peekTok.Span)
	}
	return expr
}

// parseExpression climbs precedence: it parses an operand, then folds in
// every following operator that binds at least as tightly as minPrec.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		tt := p.peekTok.Type

		if op, ok := postfixOperators[tt]; ok && ast.PrecPostfix >= minPrec {
			p.nextToken()
			left = ast.NewUnaryExpr(op, left, mergeSpan(left.Span(), p.curTok.Span))
			continue
		}

		if tt == lexer.DOT && ast.PrecPostfix >= minPrec {
			p.nextToken() // '.'
			p.nextToken()
			member := p.parseExpression(ast.PrecPostfix + 1)
			if member == nil {
				return nil
			}
			left = ast.NewMemberExpr(left, member, mergeSpan(left.Span(), member.Span()))
			continue
		}

		if tt == lexer.AS && ast.PrecCast >= minPrec {
			p.nextToken() // 'as'
			p.nextToken()
			typ := p.parseType()
			if typ == nil {
				return nil
			}
			left = ast.NewCastExpr(left, typ, mergeSpan(left.Span(), typ.Span()))
			continue
		}

		if op, ok := binaryOperators[tt]; ok && op.Precedence() >= minPrec {
			p.nextToken()
			p.nextToken()
			right := p.parseExpression(op.Precedence() + 1)
			if right == nil {
				return nil
			}
			left = ast.NewBinaryExpr(op, left, right, mergeSpan(left.Span(), right.Span()))
			continue
		}

		if op, ok := assignOperators[tt]; ok && ast.PrecAssign >= minPrec {
			p.nextToken()
			p.nextToken()
			// Right-associative: the value may itself be an assignment.
			value := p.parseExpression(ast.PrecAssign)
			if value == nil {
				return nil
			}
			left = ast.NewAssignExpr(op, left, value, mergeSpan(left.Span(), value.Span()))
			continue
		}

		return left
	}
}

// parsePrefix parses prefix operators and then an atom. The operand of a
// prefix operator only takes postfix operators and member access, so
// `-x as i32` is a cast of `-x`.
func (p *Parser) parsePrefix() ast.Expr {
	op, ok := prefixOperators[p.curTok.Type]
	if !ok {
		return p.parseAtom()
	}

	start := p.curTok.Span
	p.nextToken()
	operand := p.parseExpression(ast.PrecPostfix)
	if operand == nil {
		return nil
	}
	return ast.NewUnaryExpr(op, operand, mergeSpan(start, operand.Span()))
}

// parseAtom parses a literal, parenthesised expression or tuple, type name,
// identifier, or array literal. Everything but a literal may be followed by
// call and index suffixes.
func (p *Parser) parseAtom() ast.Expr {
	tok := p.curTok

	if kind, ok := literalKinds[tok.Type]; ok {
		return ast.NewLiteral(kind, tok.Value, tok.Span)
	}

	var atom ast.Expr
	switch tok.Type {
	case lexer.LPAREN:
		atom = p.parseParenExpr()
	case lexer.LBRACKET:
		atom = p.parseArrayLiteral()
	case lexer.IDENT:
		if kind, ok := ast.LookupSimpleType(tok.Value); ok {
			atom = ast.NewTypeValue(ast.NewType(kind, tok.Span))
		} else {
			atom = ast.NewIdent(tok.Value, tok.Span)
		}
	default:
		p.reportError("expected expression, found "+describe(tok), tok.Span)
		return nil
	}
	if atom == nil {
		return nil
	}

	return p.parseSuffixes(atom)
}

// parseSuffixes left-folds call and index suffixes onto target.
func (p *Parser) parseSuffixes(target ast.Expr) ast.Expr {
	for {
		switch p.peekTok.Type {
		case lexer.LPAREN:
			p.nextToken()
			args, ok := p.parseExprList(lexer.RPAREN, "argument list")
			if !ok {
				return nil
			}
			target = ast.NewCallExpr(target, args, mergeSpan(target.Span(), p.curTok.Span))
		case lexer.LBRACKET:
			p.nextToken() // '['
			p.nextToken()
			index := p.parseExpression(precedenceLowest)
			if index == nil {
				return nil
			}
			if !p.expect(lexer.RBRACKET) {
				return nil
			}
			target = ast.NewIndexExpr(target, index, mergeSpan(target.Span(), p.curTok.Span))
		default:
			return target
		}
	}
}

// parseParenExpr handles `()`, `(expr)` and `(a, b, ...)`.
func (p *Parser) parseParenExpr() ast.Expr {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return ast.NewTupleExpr(nil, mergeSpan(start, p.curTok.Span))
	}

	p.nextToken()
	first := p.parseExpression(precedenceLowest)
	if first == nil {
		return nil
	}

	switch p.peekTok.Type {
	case lexer.RPAREN:
		p.nextToken()
		return first
	case lexer.COMMA:
		p.nextToken()
		rest, ok := p.parseExprList(lexer.RPAREN, "tuple")
		if !ok {
			return nil
		}
		elems := append([]ast.Expr{first}, rest...)
		return ast.NewTupleExpr(elems, mergeSpan(start, p.curTok.Span))
	default:
		p.reportError("expected ')' or ',', found "+describe(p.peekTok), p.peekTok.Span)
		return nil
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.curTok.Span
	elems, ok := p.parseExprList(lexer.RBRACKET, "array literal")
	if !ok {
		return nil
	}
	return ast.NewArrayExpr(elems, mergeSpan(start, p.curTok.Span))
}

// parseExprList parses comma separated expressions. curTok is the opening
// delimiter (or a separator) on entry and the closing delimiter on exit.
// A trailing comma is accepted.
func (p *Parser) parseExprList(closing lexer.TokenType, context string) ([]ast.Expr, bool) {
	var items []ast.Expr

	if p.peekTok.Type == closing {
		p.nextToken()
		return items, true
	}

	for {
		p.nextToken()
		item := p.parseExpression(precedenceLowest)
		if item == nil {
			return nil, false
		}
		items = append(items, item)

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			if p.peekTok.Type == closing {
				p.nextToken()
				return items, true
			}
		case closing:
			p.nextToken()
			return items, true
		default:
			p.reportError(fmt.Sprintf("expected ',' or '%s' in %s, found %s", closing, context, describe(p.peekTok)), p.peekTok.Span)
			return nil, false
		}
	}
}
