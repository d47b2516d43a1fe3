// Package types implements the scalar value model of §3.1: every column
// value is an integer, a floating point number, or a bounded-length string.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which of the three scalar variants a Value or DataType holds.
type Kind int

const (
	IntKind Kind = iota
	FloatKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "INT"
	case FloatKind:
		return "FLOAT"
	case StringKind:
		return "VARCHAR"
	default:
		return "UNKNOWN"
	}
}

// DataType is a column's declared scalar type, e.g. INT, FLOAT, VARCHAR(20).
type DataType struct {
	Kind   Kind
	Length int // only meaningful for StringKind; 0 means no length limit in Convert (ParseDataType never yields 0 for VARCHAR)
}

func (dt DataType) String() string {
	if dt.Kind == StringKind {
		return fmt.Sprintf("VARCHAR(%d)", dt.Length)
	}
	return dt.Kind.String()
}

// DefaultVarcharLength is used when CREATE TABLE omits VARCHAR's length, per §6.1.
const DefaultVarcharLength = 1

// ParseDataType maps a type name from the command language to a DataType.
// length is the parenthesized argument, or 0 if none was given.
func ParseDataType(name string, length int) (DataType, error) {
	switch strings.ToUpper(name) {
	case "INT":
		return DataType{Kind: IntKind}, nil
	case "FLOAT":
		return DataType{Kind: FloatKind}, nil
	case "VARCHAR":
		if length <= 0 {
			length = DefaultVarcharLength
		}
		return DataType{Kind: StringKind, Length: length}, nil
	default:
		return DataType{}, fmt.Errorf("unknown type %q", name)
	}
}

// Value is a single scalar. Exactly one of Int, Float, Str is meaningful,
// selected by Kind. Value is comparable and safe to use as a map key, which
// is what makes the doubly-keyed column index of §3.3 possible.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
}

func IntValue(v int64) Value     { return Value{Kind: IntKind, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: FloatKind, Float: v} }
func StringValue(v string) Value { return Value{Kind: StringKind, Str: v} }

func (v Value) String() string {
	switch v.Kind {
	case IntKind:
		return strconv.FormatInt(v.Int, 10)
	case FloatKind:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Str
	}
}

// Native returns the value unwrapped as an int64, float64, or string.
func (v Value) Native() interface{} {
	switch v.Kind {
	case IntKind:
		return v.Int
	case FloatKind:
		return v.Float
	default:
		return v.Str
	}
}

// AsFloat widens an Int or Float value to float64 for arithmetic comparisons.
// It is only called on numeric values; the predicate compiler rejects
// arithmetic over string columns before this is reached.
func (v Value) AsFloat() float64 {
	if v.Kind == IntKind {
		return float64(v.Int)
	}
	return v.Float
}

// Convert casts a raw string token (from INSERT VALUES or a CSV field) to dt,
// truncating VARCHAR values to their declared length (§3.1 — not an error).
func Convert(raw string, dt DataType) (Value, error) {
	switch dt.Kind {
	case IntKind:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to INT: %w", raw, err)
		}
		return IntValue(n), nil
	case FloatKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert %q to FLOAT: %w", raw, err)
		}
		return FloatValue(f), nil
	case StringKind:
		s := raw
		if dt.Length > 0 && len(s) > dt.Length {
			s = s[:dt.Length]
		}
		return StringValue(s), nil
	default:
		return Value{}, fmt.Errorf("unsupported data type %v", dt)
	}
}

// Less provides a total order over values of the same Kind, used by the
// sort-merge join executor and by Relation.SortedDistinctValues.
func Less(a, b Value) bool {
	switch a.Kind {
	case IntKind:
		return a.Int < b.Int
	case FloatKind:
		return a.Float < b.Float
	default:
		return a.Str < b.Str
	}
}
