package query

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// aggregate folds one column's values across a candidate key list into the
// single scalar §4.6 requires, starting from a type-appropriate identity so
// an empty candidate set still yields a value rather than no row at all.
func aggregate(name string, col *schema.Column, values []types.Value) (types.Value, error) {
	switch strings.ToUpper(name) {
	case "SUM":
		return aggregateSum(col, values)
	case "AVG":
		return aggregateAvg(col, values)
	case "MIN":
		return aggregateMin(col, values)
	case "MAX":
		return aggregateMax(col, values)
	default:
		return types.Value{}, fmt.Errorf("unsupported aggregate %q", name)
	}
}

func aggregateSum(col *schema.Column, values []types.Value) (types.Value, error) {
	if col.DataType.Kind == types.StringKind {
		return types.Value{}, fmt.Errorf("SUM is not defined over VARCHAR column %q", col.Name)
	}
	var sum float64
	allInt := col.DataType.Kind == types.IntKind
	for _, v := range values {
		sum += v.AsFloat()
	}
	if allInt && sum == float64(int64(sum)) {
		return types.IntValue(int64(sum)), nil
	}
	return types.FloatValue(sum), nil
}

func aggregateAvg(col *schema.Column, values []types.Value) (types.Value, error) {
	if col.DataType.Kind == types.StringKind {
		return types.Value{}, fmt.Errorf("AVG is not defined over VARCHAR column %q", col.Name)
	}
	if len(values) == 0 {
		return types.FloatValue(0), nil
	}
	var sum float64
	for _, v := range values {
		sum += v.AsFloat()
	}
	return types.FloatValue(sum / float64(len(values))), nil
}

func aggregateMin(col *schema.Column, values []types.Value) (types.Value, error) {
	if col.DataType.Kind == types.StringKind {
		// No natural upper bound on a VARCHAR value, so the identity is a
		// sentinel guaranteed to sort after every string the column's
		// declared length can hold.
		identity := strings.Repeat("\xff", col.DataType.Length+1)
		best := identity
		for _, v := range values {
			if v.Str < best {
				best = v.Str
			}
		}
		if best == identity {
			return types.StringValue(""), nil
		}
		return types.StringValue(best), nil
	}
	best := float64(int64(1)<<62 + 1)
	var bestSet bool
	for _, v := range values {
		f := v.AsFloat()
		if !bestSet || f < best {
			best = f
			bestSet = true
		}
	}
	if !bestSet {
		return types.FloatValue(0), nil
	}
	if col.DataType.Kind == types.IntKind {
		return types.IntValue(int64(best)), nil
	}
	return types.FloatValue(best), nil
}

func aggregateMax(col *schema.Column, values []types.Value) (types.Value, error) {
	if col.DataType.Kind == types.StringKind {
		best := "" // empty string sorts before every non-empty VARCHAR value (§4.6)
		for _, v := range values {
			if v.Str > best {
				best = v.Str
			}
		}
		return types.StringValue(best), nil
	}
	best := -float64(int64(1)<<62 + 1)
	var bestSet bool
	for _, v := range values {
		f := v.AsFloat()
		if !bestSet || f > best {
			best = f
			bestSet = true
		}
	}
	if !bestSet {
		return types.FloatValue(0), nil
	}
	if col.DataType.Kind == types.IntKind {
		return types.IntValue(int64(best)), nil
	}
	return types.FloatValue(best), nil
}
