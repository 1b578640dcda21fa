package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

// Normalize coerces a value decoded from an interchange document to the
// kind declared for a path's field. Interchange formats carry decimals
// and times as strings and cannot distinguish them from plain strings on
// their own; the schema supplies the missing kind.
//
// Only single-segment paths can be re-kinded: a path descending into a
// composite field keeps the decoded value as is, since leaf kinds inside
// composites are not declared.
func (s *Schema) Normalize(p fieldpath.Path, v *ir.Value) (*ir.Value, error) {
	if err := s.Check(p); err != nil {
		return nil, err
	}
	if len(p) != 1 {
		return v, nil
	}
	kind, _ := s.Kind(p.Root())
	return coerce(kind, v)
}

func coerce(kind ir.Kind, v *ir.Value) (*ir.Value, error) {
	if v == nil || v.Kind == ir.NullKind || v.Kind == kind {
		return v, nil
	}
	switch kind {
	case ir.FloatKind:
		if v.Kind == ir.IntKind {
			return ir.FromFloat(float64(*v.Int64)), nil
		}
	case ir.DecimalKind:
		switch v.Kind {
		case ir.StringKind:
			d, err := decimal.NewFromString(v.String)
			if err != nil {
				return nil, fmt.Errorf("bad decimal %q: %w", v.String, err)
			}
			return ir.FromDecimal(d), nil
		case ir.IntKind:
			return ir.FromDecimal(decimal.NewFromInt(*v.Int64)), nil
		case ir.FloatKind:
			return ir.FromDecimal(decimal.NewFromFloat(*v.Float64)), nil
		}
	case ir.TimeKind:
		if v.Kind == ir.StringKind {
			t, err := time.Parse(time.RFC3339Nano, v.String)
			if err != nil {
				return nil, fmt.Errorf("bad time %q: %w", v.String, err)
			}
			return ir.FromTime(t), nil
		}
	}
	return nil, fmt.Errorf("cannot use %s value for %s field", v.Kind, kind)
}
