package parser

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/lexer"
)

// aggregateNames are recognized as aggregate function calls in a projection
// item; they are ordinary identifiers to the lexer since MIN/MAX/SUM/AVG are
// not reserved words (§4.6).
var aggregateNames = map[string]bool{
	"MIN": true,
	"MAX": true,
	"SUM": true,
	"AVG": true,
}

// parseSelectStatement parses:
//
//	SELECT projlist FROM src [AS alias] [, src [AS alias]]
//	  [JOIN ON a.c = b.c] [WHERE ...]
//
// A FROM list with two sources and no JOIN ON clause is rejected here
// (§4.1: no Cartesian product).
func (p *Parser) parseSelectStatement() (*SelectStatement, error) {
	stmt := &SelectStatement{}
	p.nextToken() // consume SELECT

	for {
		item, err := p.parseProjectionItem()
		if err != nil {
			return nil, err
		}
		stmt.Projection = append(stmt.Projection, item)
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.curTokenIs(lexer.FROM) {
		return nil, fmt.Errorf("expected FROM, got %q", p.curToken.Literal)
	}
	p.nextToken()

	for {
		src, err := p.parseSourceRef()
		if err != nil {
			return nil, err
		}
		stmt.Sources = append(stmt.Sources, src)
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if p.curTokenIs(lexer.JOIN) {
		p.nextToken()
		join, err := p.parseJoinSpec()
		if err != nil {
			return nil, err
		}
		stmt.Join = join
	}

	if len(stmt.Sources) > 1 && stmt.Join == nil {
		return nil, fmt.Errorf("multiple FROM sources require an explicit JOIN ON clause")
	}

	if p.curTokenIs(lexer.WHERE) {
		p.nextToken()
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	return stmt, nil
}

// parseProjectionItem parses one entry of the SELECT list: `*`, `alias.*`,
// `alias.column [AS alias]`, or `AGG(alias.column) [AS alias]`.
func (p *Parser) parseProjectionItem() (*ProjectionItem, error) {
	if p.curTokenIs(lexer.ASTERISK) {
		p.nextToken()
		return &ProjectionItem{Star: true}, nil
	}

	if !p.curTokenIs(lexer.IDENT) {
		return nil, fmt.Errorf("expected column, '*', or aggregate in projection, got %q", p.curToken.Literal)
	}

	name := p.curToken.Literal
	upper := strings.ToUpper(name)

	if aggregateNames[upper] && p.peekTokenIs(lexer.LPAREN) {
		p.nextToken() // consume function name, cur = '('
		p.nextToken() // consume '(', cur = alias or column
		if !p.curTokenIs(lexer.IDENT) {
			return nil, fmt.Errorf("expected column inside %s(...), got %q", upper, p.curToken.Literal)
		}
		col := p.parseColumnRef()
		if !p.curTokenIs(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ')', got %q", p.curToken.Literal)
		}
		p.nextToken()
		item := &ProjectionItem{SourceAlias: col.Table, Column: col.Column, Aggregate: upper}
		if p.curTokenIs(lexer.AS) {
			p.nextToken()
			if !p.curTokenIs(lexer.IDENT) {
				return nil, fmt.Errorf("expected alias after AS, got %q", p.curToken.Literal)
			}
			item.OutputAlias = p.curToken.Literal
			p.nextToken()
		}
		return item, nil
	}

	if p.peekTokenIs(lexer.DOT) {
		p.nextToken() // consume alias, cur = DOT
		p.nextToken() // consume DOT, cur = column or '*'
		if p.curTokenIs(lexer.ASTERISK) {
			p.nextToken()
			return &ProjectionItem{SourceAlias: name, Star: true}, nil
		}
		if !p.curTokenIs(lexer.IDENT) {
			return nil, fmt.Errorf("expected column name after '.', got %q", p.curToken.Literal)
		}
		col := p.curToken.Literal
		p.nextToken()
		item := &ProjectionItem{SourceAlias: name, Column: col}
		if p.curTokenIs(lexer.AS) {
			p.nextToken()
			if !p.curTokenIs(lexer.IDENT) {
				return nil, fmt.Errorf("expected alias after AS, got %q", p.curToken.Literal)
			}
			item.OutputAlias = p.curToken.Literal
			p.nextToken()
		}
		return item, nil
	}

	p.nextToken()
	item := &ProjectionItem{Column: name}
	if p.curTokenIs(lexer.AS) {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			return nil, fmt.Errorf("expected alias after AS, got %q", p.curToken.Literal)
		}
		item.OutputAlias = p.curToken.Literal
		p.nextToken()
	}
	return item, nil
}

// parseSourceRef parses `relation [AS alias]` in a FROM list.
func (p *Parser) parseSourceRef() (*SourceRef, error) {
	if !p.curTokenIs(lexer.IDENT) {
		return nil, fmt.Errorf("expected relation name, got %q", p.curToken.Literal)
	}
	src := &SourceRef{Relation: p.curToken.Literal}
	p.nextToken()

	if p.curTokenIs(lexer.AS) {
		p.nextToken()
		if !p.curTokenIs(lexer.IDENT) {
			return nil, fmt.Errorf("expected alias after AS, got %q", p.curToken.Literal)
		}
		src.Alias = p.curToken.Literal
		p.nextToken()
	} else if p.curTokenIs(lexer.IDENT) {
		src.Alias = p.curToken.Literal
		p.nextToken()
	}

	return src, nil
}

// parseJoinSpec parses `ON a.c = b.c`, the single equi-join predicate a
// SELECT may declare (§4.1).
func (p *Parser) parseJoinSpec() (*JoinSpec, error) {
	if !p.curTokenIs(lexer.ON) {
		return nil, fmt.Errorf("expected ON, got %q", p.curToken.Literal)
	}
	p.nextToken()

	left := p.parseColumnRef()
	if left.Table == "" {
		return nil, fmt.Errorf("JOIN ON requires a qualified column, got %q", left.Column)
	}
	if !p.curTokenIs(lexer.EQ) && !p.curTokenIs(lexer.ASSIGN) {
		return nil, fmt.Errorf("expected '=' in JOIN ON, got %q", p.curToken.Literal)
	}
	p.nextToken()

	right := p.parseColumnRef()
	if right.Table == "" {
		return nil, fmt.Errorf("JOIN ON requires a qualified column, got %q", right.Column)
	}

	return &JoinSpec{
		LeftAlias:   left.Table,
		LeftColumn:  left.Column,
		RightAlias:  right.Table,
		RightColumn: right.Column,
	}, nil
}
