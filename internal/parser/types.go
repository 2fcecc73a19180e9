package parser

import (
	"strconv"

	"github.com/comfy-lang/comfy/internal/ast"
	"github.com/comfy-lang/comfy/internal/lexer"
)

// parseType parses a type starting at curTok and leaves curTok on the
// type's last token. It returns nil after reporting an error.
func (p *Parser) parseType() *ast.Type {
	start := p.curTok.Span

	switch p.curTok.Type {
	case lexer.LPAREN:
		return p.parseTupleType()

	case lexer.LBRACKET:
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		if p.peekTok.Type == lexer.RBRACKET {
			p.nextToken()
			return ast.NewElemType(ast.TypeSlice, elem, mergeSpan(start, p.curTok.Span))
		}
		if !p.expect(lexer.SEMICOLON) {
			return nil
		}
		p.nextToken()
		lenTok := p.curTok
		n, err := strconv.Atoi(lenTok.Value)
		if lenTok.Type != lexer.DECIMAL || err != nil || n < 0 {
			p.reportError("array length must be an integer, found "+describe(lenTok), lenTok.Span)
			return nil
		}
		if !p.expect(lexer.RBRACKET) {
			return nil
		}
		return ast.NewArrayType(elem, n, mergeSpan(start, p.curTok.Span))

	case lexer.ASTERISK:
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return ast.NewElemType(ast.TypePointer, elem, mergeSpan(start, elem.Span()))

	case lexer.AND:
		// `&&T` is a reference to a reference.
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		innerSpan := mergeSpan(lexer.Span{
			Filename: start.Filename,
			Line:     start.Line,
			Column:   start.Column + 1,
			Start:    start.Start + 1,
			End:      start.End,
		}, elem.Span())
		inner := ast.NewElemType(ast.TypeReference, elem, innerSpan)
		return ast.NewElemType(ast.TypeReference, inner, mergeSpan(start, elem.Span()))

	case lexer.AMPERSAND:
		kind := ast.TypeReference
		if p.peekTok.Type == lexer.IDENT && p.peekTok.Value == "mut" {
			kind = ast.TypeMutableRef
			p.nextToken()
		}
		p.nextToken()
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return ast.NewElemType(kind, elem, mergeSpan(start, elem.Span()))

	case lexer.IDENT:
		name := p.curTok.Value
		if kind, ok := ast.LookupSimpleType(name); ok {
			return ast.NewType(kind, start)
		}
		if p.peekTok.Type == lexer.LT {
			p.nextToken()
			args, ok := p.parseTypeList(lexer.GT, "generic arguments")
			if !ok {
				return nil
			}
			return ast.NewGenericType(name, args, mergeSpan(start, p.curTok.Span))
		}
		return ast.NewCustomType(name, start)
	}

	p.reportError("expected type, found "+describe(p.curTok), p.curTok.Span)
	return nil
}

func (p *Parser) parseTupleType() *ast.Type {
	start := p.curTok.Span
	elems, ok := p.parseTypeList(lexer.RPAREN, "tuple type")
	if !ok {
		return nil
	}
	return ast.NewTupleType(elems, mergeSpan(start, p.curTok.Span))
}

// parseTypeList mirrors parseExprList for types. A '>>' closing two nested
// generic lists is split before it is matched.
func (p *Parser) parseTypeList(closing lexer.TokenType, context string) ([]*ast.Type, bool) {
	var items []*ast.Type

	if closing == lexer.GT {
		p.splitShift()
	}
	if p.peekTok.Type == closing {
		p.nextToken()
		return items, true
	}

	for {
		p.nextToken()
		item := p.parseType()
		if item == nil {
			return nil, false
		}
		items = append(items, item)

		if closing == lexer.GT {
			p.splitShift()
		}
		switch p.peekTok.Type {
		case lexer.COMMA:
			p.nextToken()
			if closing == lexer.GT {
				p.splitShift()
			}
			if p.peekTok.Type == closing {
				p.nextToken()
				return items, true
			}
		case closing:
			p.nextToken()
			return items, true
		default:
			p.reportError("expected ',' or '"+string(closing)+"' in "+context+", found "+describe(p.peekTok), p.peekTok.Span)
			return nil, false
		}
	}
}
