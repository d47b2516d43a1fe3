package parser

import (
	"fmt"

	"github.com/rpi11/Databases-P3/pkg/lexer"
)

// parseInsertStatement parses `INSERT INTO name (cols...) VALUES (vals...)`.
func (p *Parser) parseInsertStatement() (*InsertStatement, error) {
	stmt := &InsertStatement{}

	if !p.expectPeek(lexer.INTO) {
		return nil, fmt.Errorf("expected INTO, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Table = p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		p.nextToken()
		for !p.curTokenIs(lexer.RPAREN) {
			if !p.curTokenIs(lexer.IDENT) {
				return nil, fmt.Errorf("expected column name, got %q", p.curToken.Literal)
			}
			stmt.Columns = append(stmt.Columns, p.curToken.Literal)
			p.nextToken()
			if p.curTokenIs(lexer.COMMA) {
				p.nextToken()
			} else if !p.curTokenIs(lexer.RPAREN) {
				return nil, fmt.Errorf("expected ',' or ')', got %q", p.curToken.Literal)
			}
		}
		p.nextToken() // consume ')'
	} else {
		p.nextToken()
	}

	if !p.curTokenIs(lexer.VALUES) {
		return nil, fmt.Errorf("expected VALUES, got %q", p.curToken.Literal)
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(', got %q", p.peekToken.Literal)
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RPAREN) {
		val, err := p.parseArithExpr()
		if err != nil {
			return nil, err
		}
		stmt.Values = append(stmt.Values, val)
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		} else if !p.curTokenIs(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ',' or ')', got %q", p.curToken.Literal)
		}
	}
	p.nextToken() // consume ')'

	return stmt, nil
}

// parseUpdateStatement parses `UPDATE name SET col=val,... [WHERE ...]`.
func (p *Parser) parseUpdateStatement() (*UpdateStatement, error) {
	stmt := &UpdateStatement{}

	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Table = p.curToken.Literal

	if !p.expectPeek(lexer.SET) {
		return nil, fmt.Errorf("expected SET, got %q", p.peekToken.Literal)
	}
	p.nextToken()

	for {
		if !p.curTokenIs(lexer.IDENT) {
			return nil, fmt.Errorf("expected column name, got %q", p.curToken.Literal)
		}
		col := p.curToken.Literal
		if !p.expectPeek(lexer.ASSIGN) {
			return nil, fmt.Errorf("expected '=', got %q", p.peekToken.Literal)
		}
		p.nextToken()
		val, err := p.parseArithExpr()
		if err != nil {
			return nil, err
		}
		stmt.Assignments = append(stmt.Assignments, &Assignment{Column: col, Value: val})

		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		break
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

// parseDeleteStatement parses `DELETE FROM name [WHERE ...]`.
func (p *Parser) parseDeleteStatement() (*DeleteStatement, error) {
	stmt := &DeleteStatement{}

	if !p.expectPeek(lexer.FROM) {
		return nil, fmt.Errorf("expected FROM, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Table = p.curToken.Literal
	p.nextToken()

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
