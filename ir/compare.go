package ir

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two values.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Values of different kinds order by kind rank; object field order is
// not significant, fields compare in sorted key order.
func Compare(a, b *Value) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Kind)
	rankB := rank(b.Kind)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Kind {
	case NullKind:
		return 0
	case BoolKind:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case IntKind:
		return cmp.Compare(*a.Int64, *b.Int64)
	case FloatKind:
		return cmp.Compare(*a.Float64, *b.Float64)
	case DecimalKind:
		return a.Decimal.Cmp(*b.Decimal)
	case StringKind:
		return strings.Compare(a.String, b.String)
	case TimeKind:
		return a.Time.Compare(*b.Time)
	case ArrayKind:
		return compareArrays(a, b)
	case ObjectKind:
		return compareObjects(a, b)
	}
	return 0
}

// Equal reports whether a and b represent the same value.
func Equal(a, b *Value) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a kind.
// Order: Null < Bool < Int < Float < Decimal < String < Time < Array < Object
func rank(k Kind) int {
	switch k {
	case NullKind:
		return 0
	case BoolKind:
		return 1
	case IntKind:
		return 2
	case FloatKind:
		return 3
	case DecimalKind:
		return 4
	case StringKind:
		return 5
	case TimeKind:
		return 6
	case ArrayKind:
		return 7
	case ObjectKind:
		return 8
	}
	return 100
}

func compareArrays(a, b *Value) int {
	lenA := len(a.Values)
	lenB := len(b.Values)
	minLen := min(lenA, lenB)

	for i := 0; i < minLen; i++ {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(lenA, lenB)
}

func compareObjects(a, b *Value) int {
	keysA := sortedFields(a)
	keysB := sortedFields(b)
	minLen := min(len(keysA), len(keysB))

	for i := 0; i < minLen; i++ {
		if c := strings.Compare(keysA[i], keysB[i]); c != 0 {
			return c
		}
		if c := Compare(a.Get(keysA[i]), b.Get(keysB[i])); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(keysA), len(keysB))
}

func sortedFields(v *Value) []string {
	keys := make([]string, len(v.Fields))
	copy(keys, v.Fields)
	slices.Sort(keys)
	return keys
}
