package types

import "testing"

func TestConvertTruncatesVarchar(t *testing.T) {
	dt := DataType{Kind: StringKind, Length: 3}
	v, err := Convert("abcdef", dt)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "abc" {
		t.Fatalf("got %q, want %q", v.Str, "abc")
	}
}

func TestConvertIntFailure(t *testing.T) {
	_, err := Convert("notanumber", DataType{Kind: IntKind})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDataTypeDefaultsVarcharLength(t *testing.T) {
	dt, err := ParseDataType("varchar", 0)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Length != DefaultVarcharLength {
		t.Fatalf("got length %d, want %d", dt.Length, DefaultVarcharLength)
	}
}

func TestValueAsMapKey(t *testing.T) {
	m := map[Value]string{}
	m[IntValue(1)] = "one"
	m[StringValue("x")] = "ex"
	if m[IntValue(1)] != "one" || m[StringValue("x")] != "ex" {
		t.Fatal("Value did not behave as a comparable map key")
	}
}

func TestLess(t *testing.T) {
	if !Less(IntValue(1), IntValue(2)) {
		t.Fatal("expected 1 < 2")
	}
	if Less(StringValue("b"), StringValue("a")) {
		t.Fatal("expected b !< a")
	}
}
