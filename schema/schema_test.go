package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

func TestNew(t *testing.T) {
	s, err := New("Account",
		Field{Name: "balance", Kind: ir.DecimalKind},
		Field{Name: "name", Kind: ir.StringKind},
	)
	if err != nil {
		t.Fatal(err)
	}
	if s.TypeName() != "Account" {
		t.Errorf("type name %q", s.TypeName())
	}
	fields := s.Fields()
	if len(fields) != 2 || fields[0].Name != "balance" || fields[1].Name != "name" {
		t.Errorf("fields %v", fields)
	}
	if k, ok := s.Kind("balance"); !ok || k != ir.DecimalKind {
		t.Errorf("Kind(balance) = %v, %v", k, ok)
	}
	if s.Has("owner") {
		t.Errorf("Has(owner)")
	}

	if _, err := New("", Field{Name: "a"}); err == nil {
		t.Errorf("empty type name accepted")
	}
	if _, err := New("T", Field{Name: "a"}, Field{Name: "a"}); err == nil {
		t.Errorf("duplicate field accepted")
	}
	if _, err := New("T", Field{Name: ""}); err == nil {
		t.Errorf("empty field name accepted")
	}
}

func TestCheck(t *testing.T) {
	s := MustNew("Account", Field{Name: "balance", Kind: ir.IntKind})
	ok, err := fieldpath.Parse("balance.sub")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Check(ok); err != nil {
		t.Errorf("Check(balance.sub): %v", err)
	}
	bad, err := fieldpath.Parse("owner")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Check(bad); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Check(owner): %v", err)
	}
}

func TestFromValue(t *testing.T) {
	obj := ir.FromKeyVals([]ir.KeyVal{
		{Key: "z", Val: ir.FromInt(1)},
		{Key: "a", Val: ir.FromString("x")},
	})
	s, err := FromValue("Doc", obj)
	if err != nil {
		t.Fatal(err)
	}
	fields := s.Fields()
	// object order, not sorted order
	if fields[0].Name != "z" || fields[0].Kind != ir.IntKind ||
		fields[1].Name != "a" || fields[1].Kind != ir.StringKind {
		t.Errorf("derived fields %v", fields)
	}
	if _, err := FromValue("Doc", ir.FromInt(1)); err == nil {
		t.Errorf("derived a schema from a non-object")
	}
}

func TestNormalize(t *testing.T) {
	s := MustNew("Account",
		Field{Name: "balance", Kind: ir.DecimalKind},
		Field{Name: "opened", Kind: ir.TimeKind},
		Field{Name: "ratio", Kind: ir.FloatKind},
		Field{Name: "meta", Kind: ir.ObjectKind},
	)
	path := func(p string) fieldpath.Path {
		res, err := fieldpath.Parse(p)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	v, err := s.Normalize(path("balance"), ir.FromString("10.010"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ir.DecimalKind || !v.Decimal.Equal(decimal.RequireFromString("10.010")) {
		t.Errorf("decimal normalize: %v", v)
	}

	v, err = s.Normalize(path("opened"), ir.FromString("2026-08-23T10:00:00Z"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ir.TimeKind || !v.Time.Equal(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("time normalize: %v", v)
	}

	v, err = s.Normalize(path("ratio"), ir.FromInt(2))
	if err != nil || v.Kind != ir.FloatKind || *v.Float64 != 2 {
		t.Errorf("int->float normalize: %v %v", v, err)
	}

	// nulls pass through, composite subpaths are left alone
	if v, err = s.Normalize(path("balance"), ir.Null()); err != nil || v.Kind != ir.NullKind {
		t.Errorf("null normalize: %v %v", v, err)
	}
	sub := ir.FromString("anything")
	if v, err = s.Normalize(path("meta.k"), sub); err != nil || v != sub {
		t.Errorf("subpath normalize: %v %v", v, err)
	}

	if _, err := s.Normalize(path("balance"), ir.FromString("not-a-number")); err == nil {
		t.Errorf("bad decimal accepted")
	}
	if _, err := s.Normalize(path("opened"), ir.FromInt(3)); err == nil {
		t.Errorf("int time accepted")
	}
	if _, err := s.Normalize(path("missing"), ir.FromInt(3)); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field: %v", err)
	}
}
