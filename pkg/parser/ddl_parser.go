package parser

import (
	"fmt"
	"strconv"

	"github.com/rpi11/Databases-P3/pkg/lexer"
)

// parseCreateStatement dispatches CREATE TABLE vs CREATE INDEX (§6.1, §D.3).
func (p *Parser) parseCreateStatement() (Statement, error) {
	switch {
	case p.peekTokenIs(lexer.TABLE):
		p.nextToken()
		return p.parseCreateTableStatement()
	case p.peekTokenIs(lexer.INDEX):
		p.nextToken()
		return p.parseCreateIndexStatement()
	default:
		return nil, fmt.Errorf("expected TABLE or INDEX after CREATE, got %q", p.peekToken.Literal)
	}
}

// parseCreateTableStatement parses:
//
//	CREATE TABLE name (col TYPE[(len)], ..., PRIMARY KEY (col),
//	                    FOREIGN KEY (col) REFERENCES other(col), ...)
func (p *Parser) parseCreateTableStatement() (*CreateTableStatement, error) {
	stmt := &CreateTableStatement{}

	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Name = p.curToken.Literal

	if !p.expectPeek(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(' after table name, got %q", p.peekToken.Literal)
	}
	p.nextToken()

	for !p.curTokenIs(lexer.RPAREN) {
		switch p.curToken.Type {
		case lexer.PRIMARY:
			col, err := p.parseKeyClause(lexer.PRIMARY)
			if err != nil {
				return nil, err
			}
			stmt.PrimaryKey = col
		case lexer.FOREIGN:
			fk, err := p.parseForeignKeyClause()
			if err != nil {
				return nil, err
			}
			stmt.ForeignKeys = append(stmt.ForeignKeys, fk)
		case lexer.IDENT:
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		default:
			return nil, fmt.Errorf("expected column definition or constraint, got %q", p.curToken.Literal)
		}

		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		} else if !p.curTokenIs(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ',' or ')', got %q", p.curToken.Literal)
		}
	}
	p.nextToken() // consume ')'

	return stmt, nil
}

// parseKeyClause parses `PRIMARY KEY (col)`.
func (p *Parser) parseKeyClause(start lexer.TokenType) (string, error) {
	if !p.expectPeek(lexer.KEY) {
		return "", fmt.Errorf("expected KEY, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.LPAREN) {
		return "", fmt.Errorf("expected '(', got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return "", fmt.Errorf("expected column name, got %q", p.peekToken.Literal)
	}
	col := p.curToken.Literal
	if !p.expectPeek(lexer.RPAREN) {
		return "", fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
	}
	p.nextToken()
	return col, nil
}

// parseForeignKeyClause parses `FOREIGN KEY (col) REFERENCES other(col)`.
func (p *Parser) parseForeignKeyClause() (*ForeignKeyDef, error) {
	if !p.expectPeek(lexer.KEY) {
		return nil, fmt.Errorf("expected KEY, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(', got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected column name, got %q", p.peekToken.Literal)
	}
	fk := &ForeignKeyDef{Column: p.curToken.Literal}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.REFERENCES) {
		return nil, fmt.Errorf("expected REFERENCES, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected referenced table name, got %q", p.peekToken.Literal)
	}
	fk.RefTable = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(', got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected referenced column name, got %q", p.peekToken.Literal)
	}
	fk.RefColumn = p.curToken.Literal
	if !p.expectPeek(lexer.RPAREN) {
		return nil, fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
	}
	p.nextToken()
	return fk, nil
}

// parseColumnDef parses `name TYPE[(len)]`.
func (p *Parser) parseColumnDef() (*ColumnDef, error) {
	col := &ColumnDef{Name: p.curToken.Literal}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected type name for column %s, got %q", col.Name, p.peekToken.Literal)
	}
	col.TypeName = p.curToken.Literal

	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		if !p.expectPeek(lexer.NUMBER) {
			return nil, fmt.Errorf("expected length for %s, got %q", col.TypeName, p.peekToken.Literal)
		}
		n, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, fmt.Errorf("invalid length %q: %w", p.curToken.Literal, err)
		}
		col.Length = n
		if !p.expectPeek(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
		}
	}
	p.nextToken()
	return col, nil
}

// parseCreateIndexStatement parses `CREATE INDEX name ON table(col)` (§D.3).
func (p *Parser) parseCreateIndexStatement() (*CreateIndexStatement, error) {
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected index name, got %q", p.peekToken.Literal)
	}
	stmt := &CreateIndexStatement{IndexName: p.curToken.Literal}
	if !p.expectPeek(lexer.ON) {
		return nil, fmt.Errorf("expected ON, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Table = p.curToken.Literal
	if !p.expectPeek(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(', got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected column name, got %q", p.peekToken.Literal)
	}
	stmt.Column = p.curToken.Literal
	if !p.expectPeek(lexer.RPAREN) {
		return nil, fmt.Errorf("expected ')', got %q", p.peekToken.Literal)
	}
	p.nextToken()
	return stmt, nil
}

// parseDropTableStatement parses `DROP TABLE name`.
func (p *Parser) parseDropTableStatement() (*DropTableStatement, error) {
	if !p.expectPeek(lexer.TABLE) {
		return nil, fmt.Errorf("expected TABLE after DROP, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt := &DropTableStatement{Name: p.curToken.Literal}
	p.nextToken()
	return stmt, nil
}

// parseLoadStatement parses:
//
//	LOAD DATA [LOCAL] INFILE 'path' INTO TABLE name
//	  [FIELDS TERMINATED BY 'x'] [LINES TERMINATED BY 'y'] [IGNORE n ROWS]
//
// Clauses after INTO TABLE name may appear in any order, matching the
// permissive token scan of original_source/P3.py's import_file.
func (p *Parser) parseLoadStatement() (*LoadStatement, error) {
	stmt := &LoadStatement{FieldSep: ",", LineSep: "\n"}

	if !p.expectPeek(lexer.DATA) {
		return nil, fmt.Errorf("expected DATA after LOAD, got %q", p.peekToken.Literal)
	}
	p.nextToken()
	if p.curTokenIs(lexer.LOCAL) {
		p.nextToken()
	}
	if !p.curTokenIs(lexer.INFILE) {
		return nil, fmt.Errorf("expected INFILE, got %q", p.curToken.Literal)
	}
	if !p.expectPeek(lexer.STRING) {
		return nil, fmt.Errorf("expected file path string, got %q", p.peekToken.Literal)
	}
	stmt.Path = p.curToken.Literal

	if !p.expectPeek(lexer.INTO) {
		return nil, fmt.Errorf("expected INTO, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.TABLE) {
		return nil, fmt.Errorf("expected TABLE, got %q", p.peekToken.Literal)
	}
	if !p.expectPeek(lexer.IDENT) {
		return nil, fmt.Errorf("expected table name, got %q", p.peekToken.Literal)
	}
	stmt.Table = p.curToken.Literal
	p.nextToken()

	for !p.curTokenIs(lexer.EOF) {
		switch p.curToken.Type {
		case lexer.FIELDS:
			if !p.expectPeek(lexer.TERMINATED) {
				return nil, fmt.Errorf("expected TERMINATED, got %q", p.peekToken.Literal)
			}
			if !p.expectPeek(lexer.BY) {
				return nil, fmt.Errorf("expected BY, got %q", p.peekToken.Literal)
			}
			if !p.expectPeek(lexer.STRING) {
				return nil, fmt.Errorf("expected field separator string, got %q", p.peekToken.Literal)
			}
			stmt.FieldSep = p.curToken.Literal
			p.nextToken()
		case lexer.LINES:
			if !p.expectPeek(lexer.TERMINATED) {
				return nil, fmt.Errorf("expected TERMINATED, got %q", p.peekToken.Literal)
			}
			if !p.expectPeek(lexer.BY) {
				return nil, fmt.Errorf("expected BY, got %q", p.peekToken.Literal)
			}
			if !p.expectPeek(lexer.STRING) {
				return nil, fmt.Errorf("expected line separator string, got %q", p.peekToken.Literal)
			}
			stmt.LineSep = p.curToken.Literal
			p.nextToken()
		case lexer.IGNORE:
			if !p.expectPeek(lexer.NUMBER) {
				return nil, fmt.Errorf("expected row count after IGNORE, got %q", p.peekToken.Literal)
			}
			n, err := strconv.Atoi(p.curToken.Literal)
			if err != nil {
				return nil, fmt.Errorf("invalid row count %q: %w", p.curToken.Literal, err)
			}
			stmt.IgnoreRows = n
			if !p.expectPeek(lexer.ROWS) {
				return nil, fmt.Errorf("expected ROWS, got %q", p.peekToken.Literal)
			}
			p.nextToken()
		default:
			return nil, fmt.Errorf("unexpected token in LOAD DATA: %q", p.curToken.Literal)
		}
	}

	return stmt, nil
}
