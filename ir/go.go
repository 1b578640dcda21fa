package ir

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FromGo converts a native Go value to a Value. It accepts the kinds a
// decoded interchange document can contain plus the Go numeric types,
// decimal.Decimal and time.Time.
func FromGo(x any) (*Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case *Value:
		return t, nil
	case bool:
		return FromBool(t), nil
	case int:
		return FromInt(int64(t)), nil
	case int8:
		return FromInt(int64(t)), nil
	case int16:
		return FromInt(int64(t)), nil
	case int32:
		return FromInt(int64(t)), nil
	case int64:
		return FromInt(t), nil
	case uint:
		return FromInt(int64(t)), nil
	case uint8:
		return FromInt(int64(t)), nil
	case uint16:
		return FromInt(int64(t)), nil
	case uint32:
		return FromInt(int64(t)), nil
	case uint64:
		return FromInt(int64(t)), nil
	case float32:
		return FromFloat(float64(t)), nil
	case float64:
		return FromFloat(t), nil
	case decimal.Decimal:
		return FromDecimal(t), nil
	case time.Time:
		return FromTime(t), nil
	case string:
		return FromString(t), nil
	case []any:
		vs := make([]*Value, len(t))
		for i, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		return FromSlice(vs), nil
	case map[string]any:
		m := make(map[string]*Value, len(t))
		for k, e := range t {
			v, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return FromMap(m), nil
	default:
		return nil, fmt.Errorf("cannot represent %T as an ir value", x)
	}
}

// ToGo converts a Value to its natural Go form: nil, bool, int64,
// float64, decimal.Decimal, string, time.Time, []any or map[string]any.
func ToGo(v *Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case NullKind:
		return nil
	case BoolKind:
		return v.Bool
	case IntKind:
		return *v.Int64
	case FloatKind:
		return *v.Float64
	case DecimalKind:
		return *v.Decimal
	case StringKind:
		return v.String
	case TimeKind:
		return *v.Time
	case ArrayKind:
		res := make([]any, len(v.Values))
		for i, vv := range v.Values {
			res[i] = ToGo(vv)
		}
		return res
	case ObjectKind:
		res := make(map[string]any, len(v.Fields))
		for i, f := range v.Fields {
			res[f] = ToGo(v.Values[i])
		}
		return res
	}
	return nil
}
