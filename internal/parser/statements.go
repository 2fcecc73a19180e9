package parser

import (
	"fmt"
	"strings"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/diag"
	"github.com/comfy-lang/comfy/internal/lexer"
)

var accessModifiers = map[lexer.TokenType]ast.AccessKind{
	lexer.PUB:  ast.Public,
	lexer.PRIV: ast.Private,
	lexer.PROT: ast.Protected,
}

// parseStatement parses one statement starting at curTok. On success it
// leaves curTok on the token after the statement. A nil statement with ok
// set means the input was consumed without producing a node.
func (p *Parser) parseStatement(inBlock bool) (ast.Stmt, bool) {
	switch p.curTok.Type {
	case lexer.FN, lexer.PUB, lexer.PRIV, lexer.PROT:
		if fn := p.parseFnDecl(); fn != nil {
			return fn, true
		}
	case lexer.LET:
		if let := p.parseLetStmt(); let != nil {
			return let, true
		}
	case lexer.IF:
		if stmt := p.parseIfStmt(); stmt != nil {
			return stmt, true
		}
	case lexer.RETURN:
		if ret := p.parseReturnStmt(); ret != nil {
			return ret, true
		}
	case lexer.WHILE, lexer.FOR, lexer.BREAK, lexer.CONTINUE:
		return p.parseUnsupported()
	default:
		return p.parseExprStatement(inBlock)
	}
	return nil, false
}

// parseFnDecl parses `[pub|priv|prot] fn name(args) [-> T] { body }`.
func (p *Parser) parseFnDecl() *ast.FnDecl {
	start := p.curTok.Span

	access := ast.NewAccessModifier(ast.Private, lexer.Span{
		Filename: start.Filename,
		Line:     start.Line,
		Column:   start.Column,
		Start:    start.Start,
		End:      start.Start,
	})
	if kind, ok := accessModifiers[p.curTok.Type]; ok {
		access = ast.NewAccessModifier(kind, p.curTok.Span)
		if !p.expect(lexer.FN) {
			return nil
		}
	}

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}

	var returnType *ast.Type
	if p.peekTok.Type == lexer.ARROW {
		p.nextToken() // '->'
		p.nextToken()
		returnType = p.parseType()
		if returnType == nil {
			return nil
		}
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}

	decl := ast.NewFnDecl(access, name, args, returnType, body, mergeSpan(start, body.Span()))
	p.nextToken()
	return decl
}

// parseArguments parses `name [: T] [= default], ...` with curTok on '('
// and leaves curTok on ')'.
func (p *Parser) parseArguments() ([]*ast.Argument, bool) {
	var args []*ast.Argument

	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return args, true
	}

	for {
		if !p.expect(lexer.IDENT) {
			return nil, false
		}
		name := ast.NewIdent(p.curTok.Value, p.curTok.Span)
		span := name.Span()

		var typ *ast.Type
		if p.peekTok.Type == lexer.COLON {
			p.nextToken()
			p.nextToken()
			typ = p.parseType()
			if typ == nil {
				return nil, false
			}
			span = mergeSpan(span, typ.Span())
		}

		var def ast.Expr
		if p.peekTok.Type == lexer.ASSIGN {
			p.nextToken()
			p.nextToken()
			def = p.parseExpression(ast.PrecAssign + 1)
			if def == nil {
				return nil, false
			}
			span = mergeSpan(span, def.Span())
		}

		args = append(args, ast.NewArgument(name, typ, def, span))

		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			if p.peekTok.Type == lexer.RPAREN {
				p.nextToken()
				return args, true
			}
		case lexer.RPAREN:
			p.nextToken()
			return args, true
		default:
			p.reportError("expected ',' or ')' in argument list, found "+describe(p.peekTok), p.peekTok.Span)
			return nil, false
		}
	}
}

// parseBlock parses `{ stmts }` with curTok on '{' and leaves curTok on '}'.
func (p *Parser) parseBlock() *ast.Block {
	start := p.curTok.Span
	block := ast.NewBlock(nil, start)
	p.nextToken()

	for p.curTok.Type != lexer.RBRACE {
		if p.curTok.Type == lexer.EOF {
			p.reportError("expected '}' to close block, found end of input", p.curTok.Span)
			return nil
		}

		prevTok := p.curTok
		stmt, ok := p.parseStatement(true)
		if ok {
			if stmt != nil {
				block.Stmts = append(block.Stmts, stmt)
			}
			continue
		}
		p.recoverStatement(prevTok)
	}

	block.SetSpan(mergeSpan(start, p.curTok.Span))
	return block
}

// parseLetStmt parses `let name [: T] [= expr];`.
func (p *Parser) parseLetStmt() *ast.LetStmt {
	start := p.curTok.Span

	if !p.expect(lexer.IDENT) {
		return nil
	}
	name := ast.NewIdent(p.curTok.Value, p.curTok.Span)

	var typ *ast.Type
	if p.peekTok.Type == lexer.COLON {
		p.nextToken()
		p.nextToken()
		typ = p.parseType()
		if typ == nil {
			return nil
		}
	}

	var value ast.Expr
	if p.peekTok.Type == lexer.ASSIGN {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(precedenceLowest)
		if value == nil {
			return nil
		}
	}

	if !p.expect(lexer.SEMICOLON) {
		return nil
	}
	let := ast.NewLetStmt(name, typ, value, mergeSpan(start, p.curTok.Span))
	p.nextToken()
	return let
}

// parseIfStmt parses `if cond { } [else { } | else if ...]`.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.curTok.Span
	p.nextToken()

	cond := p.parseExpression(precedenceLowest)
	if cond == nil {
		return nil
	}
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}

	if p.peekTok.Type != lexer.ELSE {
		stmt := ast.NewIfStmt(cond, then, nil, mergeSpan(start, then.Span()))
		p.nextToken()
		return stmt
	}

	p.nextToken() // 'else'
	if p.peekTok.Type == lexer.IF {
		p.nextToken()
		elseIf := p.parseIfStmt()
		if elseIf == nil {
			return nil
		}
		return ast.NewIfStmt(cond, then, elseIf, mergeSpan(start, elseIf.Span()))
	}

	if !p.expect(lexer.LBRACE) {
		return nil
	}
	els := p.parseBlock()
	if els == nil {
		return nil
	}
	stmt := ast.NewIfStmt(cond, then, els, mergeSpan(start, els.Span()))
	p.nextToken()
	return stmt
}

// parseReturnStmt parses `return [expr];`.
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.curTok.Span

	if p.peekTok.Type == lexer.SEMICOLON {
		p.nextToken()
		ret := ast.NewReturnStmt(nil, false, mergeSpan(start, p.curTok.Span))
		p.nextToken()
		return ret
	}

	p.nextToken()
	value := p.parseExpression(precedenceLowest)
	if value == nil {
		return nil
	}
	if !p.expect(lexer.SEMICOLON) {
		return nil
	}
	ret := ast.NewReturnStmt(value, false, mergeSpan(start, p.curTok.Span))
	p.nextToken()
	return ret
}

// parseExprStatement parses `expr;`. Inside a block, an expression directly
// followed by the closing '}' is the block's implicit return value.
func (p *Parser) parseExprStatement(inBlock bool) (ast.Stmt, bool) {
	expr := p.parseExpression(precedenceLowest)
	if expr == nil {
		return nil, false
	}

	switch {
	case p.peekTok.Type == lexer.SEMICOLON:
		p.nextToken()
		stmt := ast.NewExprStmt(expr, mergeSpan(expr.Span(), p.curTok.Span))
		p.nextToken()
		return stmt, true
	case inBlock && p.peekTok.Type == lexer.RBRACE:
		p.nextToken()
		return ast.NewReturnStmt(expr, true, expr.Span()), true
	}

	p.reportError("expected ';' after expression, found "+describe(p.peekTok), p.peekTok.Span)
	return nil, false
}

// parseUnsupported reports a loop or loop-control statement and skips it:
// through the next ';' at brace depth zero, or through the '}' that closes
// the statement's body.
func (p *Parser) parseUnsupported() (ast.Stmt, bool) {
	keyword := strings.ToLower(string(p.curTok.Type))
	p.reportErrorCode(fmt.Sprintf("`%s` statements are not supported", keyword), diag.CodeParseUnsupported, p.curTok.Span)

	depth := 0
	for {
		switch p.curTok.Type {
		case lexer.EOF:
			return nil, false
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			if depth == 0 {
				return nil, false
			}
			depth--
			if depth == 0 {
				p.nextToken()
				return nil, true
			}
		case lexer.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return nil, true
			}
		}
		p.nextToken()
	}
}
