// Package parser turns one ';'-terminated command string into a typed
// command record (§4.1): CreateTableStatement, CreateIndexStatement,
// DropTableStatement, LoadStatement, InsertStatement, SelectStatement,
// UpdateStatement, or DeleteStatement.
package parser

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/lexer"
)

// Parser is a recursive-descent parser over a two-token lookahead window,
// the same curToken/peekToken shape the teacher's Parser used.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	errors []string
}

// New creates a Parser over a single command (without its trailing ';').
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input), errors: make([]string, 0, 4)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns every recoverable error accumulated during parsing.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) peekError(t lexer.TokenType) {
	err := NewSyntaxError(t.String(), p.peekToken.Literal, p.peekToken.Line, p.peekToken.Column)
	p.errors = append(p.errors, err.Error())
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances past the peek token if it matches t, otherwise records
// a syntax error and leaves the cursor in place.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// ParseStatement parses the single command currently loaded into the lexer.
func (p *Parser) ParseStatement() (Statement, error) {
	switch p.curToken.Type {
	case lexer.CREATE:
		return p.parseCreateStatement()
	case lexer.DROP:
		return p.parseDropTableStatement()
	case lexer.LOAD:
		return p.parseLoadStatement()
	case lexer.INSERT:
		return p.parseInsertStatement()
	case lexer.SELECT:
		return p.parseSelectStatement()
	case lexer.UPDATE:
		return p.parseUpdateStatement()
	case lexer.DELETE:
		return p.parseDeleteStatement()
	default:
		return nil, fmt.Errorf("unsupported statement starting with %q", p.curToken.Literal)
	}
}

// Parse is a convenience wrapper: split cmd on ';' first via the caller,
// then Parse one command string at a time.
func Parse(cmd string) (Statement, error) {
	p := New(cmd)
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return stmt, nil
}

// --- expression parsing (arithmetic trees over columns and literals) ---

// parseArithExpr parses the lowest-precedence level: + and -.
func (p *Parser) parseArithExpr() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.PLUS) || p.curTokenIs(lexer.MINUS) {
		op := p.curToken.Literal
		p.nextToken()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ArithExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parseTerm parses * and /, binding tighter than + and -.
func (p *Parser) parseTerm() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curTokenIs(lexer.ASTERISK) || p.curTokenIs(lexer.SLASH) {
		op := p.curToken.Literal
		p.nextToken()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ArithExpr{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parseFactor parses a single operand: a column reference, a literal, or a
// parenthesized arithmetic expression.
func (p *Parser) parseFactor() (Expr, error) {
	switch p.curToken.Type {
	case lexer.IDENT:
		col := p.parseColumnRef()
		return col, nil
	case lexer.NUMBER:
		lit := &Literal{Raw: p.curToken.Literal, IsString: false}
		p.nextToken()
		return lit, nil
	case lexer.STRING:
		lit := &Literal{Raw: p.curToken.Literal, IsString: true}
		p.nextToken()
		return lit, nil
	case lexer.MINUS:
		// unary minus on a numeric literal, e.g. col > -5
		p.nextToken()
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lit, ok := inner.(*Literal)
		if !ok || lit.IsString {
			return nil, fmt.Errorf("unary '-' requires a numeric literal")
		}
		lit.Raw = "-" + lit.Raw
		return lit, nil
	case lexer.LPAREN:
		p.nextToken()
		inner, err := p.parseArithExpr()
		if err != nil {
			return nil, err
		}
		if !p.curTokenIs(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ')', got %q", p.curToken.Literal)
		}
		p.nextToken()
		return inner, nil
	default:
		return nil, fmt.Errorf("expected column or literal, got %q", p.curToken.Literal)
	}
}

// parseColumnRef parses IDENT or IDENT '.' IDENT, the alias-qualification
// rule of §4.1: a '.' between two identifiers is always a qualifier here
// because the lexer never lexes ident.ident as one NUMBER token.
func (p *Parser) parseColumnRef() *ColumnRef {
	first := p.curToken.Literal
	if p.peekTokenIs(lexer.DOT) {
		p.nextToken() // consume first ident, cur is DOT
		p.nextToken() // consume DOT, cur is second ident
		col := p.curToken.Literal
		p.nextToken()
		return &ColumnRef{Table: first, Column: col}
	}
	p.nextToken()
	return &ColumnRef{Column: first}
}

// --- WHERE clause parsing ---

func (p *Parser) parseWhereClause() (*WhereClause, error) {
	first, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	wc := &WhereClause{Conditions: []Condition{first}}

	for p.curTokenIs(lexer.AND) || p.curTokenIs(lexer.OR) {
		op := strings.ToUpper(p.curToken.Literal)
		if wc.Logic == "" {
			wc.Logic = op
		} else if wc.Logic != op {
			return nil, fmt.Errorf("cannot mix AND and OR in one WHERE clause")
		}
		p.nextToken()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		wc.Conditions = append(wc.Conditions, cond)
	}
	return wc, nil
}

// parseCondition parses one leaf predicate: an arithmetic comparison, an
// IN/NOT IN list, or a LIKE/NOT LIKE pattern (§4.2).
func (p *Parser) parseCondition() (Condition, error) {
	left, err := p.parseArithExpr()
	if err != nil {
		return nil, err
	}

	not := false
	if p.curTokenIs(lexer.NOT) {
		not = true
		p.nextToken()
	}

	switch {
	case p.curTokenIs(lexer.IN):
		col, ok := left.(*ColumnRef)
		if !ok {
			return nil, fmt.Errorf("IN requires a bare column on the left-hand side")
		}
		p.nextToken()
		values, err := p.parseLiteralList()
		if err != nil {
			return nil, err
		}
		return &InCondition{Column: col, Not: not, Values: values}, nil

	case p.curTokenIs(lexer.LIKE):
		col, ok := left.(*ColumnRef)
		if !ok {
			return nil, fmt.Errorf("LIKE requires a bare column on the left-hand side")
		}
		p.nextToken()
		if !p.curTokenIs(lexer.STRING) {
			return nil, fmt.Errorf("LIKE requires a string pattern, got %q", p.curToken.Literal)
		}
		pattern := p.curToken.Literal
		p.nextToken()
		return &LikeCondition{Column: col, Not: not, Pattern: pattern}, nil

	default:
		if not {
			return nil, fmt.Errorf("unexpected NOT before %q", p.curToken.Literal)
		}
		op, err := p.comparisonOperator()
		if err != nil {
			return nil, err
		}
		p.nextToken()
		right, err := p.parseArithExpr()
		if err != nil {
			return nil, err
		}
		return &Comparison{Left: left, Operator: op, Right: right}, nil
	}
}

func (p *Parser) comparisonOperator() (string, error) {
	switch p.curToken.Type {
	case lexer.LT:
		return "<", nil
	case lexer.LTE:
		return "<=", nil
	case lexer.GT:
		return ">", nil
	case lexer.GTE:
		return ">=", nil
	case lexer.EQ:
		return "==", nil
	case lexer.NOT_EQ:
		return "!=", nil
	default:
		return "", fmt.Errorf("expected comparison operator, IN, or LIKE, got %q", p.curToken.Literal)
	}
}

// parseLiteralList parses a parenthesized, comma-separated literal list at
// nesting depth zero (§4.1).
func (p *Parser) parseLiteralList() ([]*Literal, error) {
	if !p.curTokenIs(lexer.LPAREN) {
		return nil, fmt.Errorf("expected '(', got %q", p.curToken.Literal)
	}
	p.nextToken()

	var values []*Literal
	for !p.curTokenIs(lexer.RPAREN) {
		switch p.curToken.Type {
		case lexer.NUMBER:
			values = append(values, &Literal{Raw: p.curToken.Literal, IsString: false})
		case lexer.STRING:
			values = append(values, &Literal{Raw: p.curToken.Literal, IsString: true})
		case lexer.MINUS:
			p.nextToken()
			if !p.curTokenIs(lexer.NUMBER) {
				return nil, fmt.Errorf("expected number after '-'")
			}
			values = append(values, &Literal{Raw: "-" + p.curToken.Literal, IsString: false})
		default:
			return nil, fmt.Errorf("expected literal in list, got %q", p.curToken.Literal)
		}
		p.nextToken()
		if p.curTokenIs(lexer.COMMA) {
			p.nextToken()
		} else if !p.curTokenIs(lexer.RPAREN) {
			return nil, fmt.Errorf("expected ',' or ')', got %q", p.curToken.Literal)
		}
	}
	p.nextToken() // consume ')'
	return values, nil
}
