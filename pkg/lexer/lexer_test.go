package lexer

import "testing"

func TestNextTokenBasicCommand(t *testing.T) {
	input := `SELECT name FROM t WHERE id < 2;`

	tests := []struct {
		wantType    TokenType
		wantLiteral string
	}{
		{SELECT, "SELECT"},
		{IDENT, "name"},
		{FROM, "FROM"},
		{IDENT, "t"},
		{WHERE, "WHERE"},
		{IDENT, "id"},
		{LT, "<"},
		{NUMBER, "2"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, tt.wantType)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

func TestNextTokenKeywordCaseInsensitive(t *testing.T) {
	l := New("select Select SELECT")
	for i := 0; i < 3; i++ {
		tok := l.NextToken()
		if tok.Type != SELECT {
			t.Fatalf("token %d: type = %s, want SELECT", i, tok.Type)
		}
	}
}

func TestNextTokenIdentifierPreservesCase(t *testing.T) {
	l := New("MyTable")
	tok := l.NextToken()
	if tok.Type != IDENT || tok.Literal != "MyTable" {
		t.Fatalf("got %+v, want IDENT MyTable", tok)
	}
}

func TestNextTokenStringLiterals(t *testing.T) {
	l := New(`'single' "double"`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "single" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "double" {
		t.Fatalf("got %+v", tok)
	}
}

func TestNextTokenDecimalVsQualifiedColumn(t *testing.T) {
	// 3.14 stays one NUMBER token; a.b lexes as IDENT DOT IDENT.
	l := New("3.14 a.b")
	num := l.NextToken()
	if num.Type != NUMBER || num.Literal != "3.14" {
		t.Fatalf("got %+v, want NUMBER 3.14", num)
	}
	a := l.NextToken()
	dot := l.NextToken()
	b := l.NextToken()
	if a.Type != IDENT || a.Literal != "a" {
		t.Fatalf("got %+v", a)
	}
	if dot.Type != DOT {
		t.Fatalf("got %+v, want DOT", dot)
	}
	if b.Type != IDENT || b.Literal != "b" {
		t.Fatalf("got %+v", b)
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := "= == != < > <= >= , ; ( ) * + - /"
	wantTypes := []TokenType{ASSIGN, EQ, NOT_EQ, LT, GT, LTE, GTE, COMMA, SEMICOLON, LPAREN, RPAREN, ASTERISK, PLUS, MINUS, SLASH}
	l := New(input)
	for i, want := range wantTypes {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, want)
		}
	}
}
