package ir

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the dynamic type of a Value.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	DecimalKind
	StringKind
	TimeKind
	ArrayKind
	ObjectKind
)

var kindNames = map[Kind]string{
	NullKind:    "null",
	BoolKind:    "bool",
	IntKind:     "int",
	FloatKind:   "float",
	DecimalKind: "decimal",
	StringKind:  "string",
	TimeKind:    "time",
	ArrayKind:   "array",
	ObjectKind:  "object",
}

func (k Kind) String() string {
	n, ok := kindNames[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return n
}

// Kinds returns all kinds, in rank order.
func Kinds() []Kind {
	return []Kind{
		NullKind, BoolKind, IntKind, FloatKind, DecimalKind,
		StringKind, TimeKind, ArrayKind, ObjectKind,
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Value is a dynamic representation of a field value. It works as a tagged
// union: the Kind field says which of the remaining fields carries the value.
//
// For ObjectKind, Fields[i] is the key for the value at Values[i], so there
// are always the same number of fields as values. Field order is significant
// for encoding but not for equality.
type Value struct {
	Kind Kind

	Bool    bool
	Int64   *int64
	Float64 *float64
	Decimal *decimal.Decimal
	String  string
	Time    *time.Time

	Fields []string
	Values []*Value
}

func Null() *Value {
	return &Value{Kind: NullKind}
}

func FromBool(v bool) *Value {
	return &Value{Kind: BoolKind, Bool: v}
}

func FromInt(v int64) *Value {
	return &Value{Kind: IntKind, Int64: &v}
}

func FromFloat(v float64) *Value {
	return &Value{Kind: FloatKind, Float64: &v}
}

func FromDecimal(d decimal.Decimal) *Value {
	return &Value{Kind: DecimalKind, Decimal: &d}
}

func FromString(v string) *Value {
	return &Value{Kind: StringKind, String: v}
}

func FromTime(t time.Time) *Value {
	return &Value{Kind: TimeKind, Time: &t}
}

func FromSlice(vs []*Value) *Value {
	res := &Value{Kind: ArrayKind}
	res.Values = make([]*Value, len(vs))
	copy(res.Values, vs)
	return res
}

// FromMap builds an object with fields in sorted key order.
func FromMap(m map[string]*Value) *Value {
	res := &Value{Kind: ObjectKind}
	res.Fields = slices.Sorted(maps.Keys(m))
	res.Values = make([]*Value, len(res.Fields))
	for i, k := range res.Fields {
		res.Values[i] = m[k]
	}
	return res
}

// KeyVal pairs an object key with its value.
type KeyVal struct {
	Key string
	Val *Value
}

// FromKeyVals builds an object preserving the given field order.
func FromKeyVals(kvs []KeyVal) *Value {
	res := &Value{Kind: ObjectKind}
	res.Fields = make([]string, len(kvs))
	res.Values = make([]*Value, len(kvs))
	for i := range kvs {
		res.Fields[i] = kvs[i].Key
		res.Values[i] = kvs[i].Val
	}
	return res
}

func ToMap(v *Value) map[string]*Value {
	if v.Kind != ObjectKind {
		return nil
	}
	res := make(map[string]*Value, len(v.Fields))
	for i, f := range v.Fields {
		res[f] = v.Values[i]
	}
	return res
}

// Get returns the value of an object field, or nil if absent.
func (v *Value) Get(field string) *Value {
	if v == nil || v.Kind != ObjectKind {
		return nil
	}
	for i, f := range v.Fields {
		if f == field {
			return v.Values[i]
		}
	}
	return nil
}

// Set replaces the value of field, appending the field if absent.
func (v *Value) Set(field string, val *Value) {
	for i, f := range v.Fields {
		if f == field {
			v.Values[i] = val
			return
		}
	}
	v.Fields = append(v.Fields, field)
	v.Values = append(v.Values, val)
}

// Delete removes an object field, preserving the order of the rest. It
// reports whether the field was present.
func (v *Value) Delete(field string) bool {
	for i, f := range v.Fields {
		if f == field {
			v.Fields = append(v.Fields[:i], v.Fields[i+1:]...)
			v.Values = append(v.Values[:i], v.Values[i+1:]...)
			return true
		}
	}
	return false
}

func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	res := &Value{Kind: v.Kind, Bool: v.Bool, String: v.String}
	if v.Int64 != nil {
		i := *v.Int64
		res.Int64 = &i
	}
	if v.Float64 != nil {
		f := *v.Float64
		res.Float64 = &f
	}
	if v.Decimal != nil {
		d := *v.Decimal
		res.Decimal = &d
	}
	if v.Time != nil {
		t := *v.Time
		res.Time = &t
	}
	if v.Fields != nil {
		res.Fields = make([]string, len(v.Fields))
		copy(res.Fields, v.Fields)
	}
	if v.Values != nil {
		res.Values = make([]*Value, len(v.Values))
		for i, vv := range v.Values {
			res.Values[i] = vv.Clone()
		}
	}
	return res
}

// Visit walks v depth first, calling f before and after each value's
// children. f returning false on the pre call skips the children.
func (v *Value) Visit(f func(v *Value, isPost bool) (bool, error)) error {
	dive, err := f(v, false)
	if err != nil {
		return err
	}
	if dive {
		for _, vv := range v.Values {
			if err := vv.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(v, true)
	return err
}
