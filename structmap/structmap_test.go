package structmap

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/ir"
)

type address struct {
	City string
	Zip  string `strain:"postal_code"`
}

type testAccount struct {
	Balance decimal.Decimal `strain:"balance"`
	Name    string
	Opened  time.Time
	Tags    []string
	Home    address
	secret  string `strain:"hidden"` // unexported, ignored
	Skipped int    `strain:"-"`
}

func newTestAccount() *testAccount {
	return &testAccount{
		Balance: decimal.RequireFromString("100"),
		Name:    "A",
		Opened:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Tags:    []string{"prod"},
		Home:    address{City: "Lyon", Zip: "69001"},
	}
}

func TestBindSchema(t *testing.T) {
	b, err := Bind(newTestAccount())
	if err != nil {
		t.Fatal(err)
	}
	if b.PatchType() != "testAccount" {
		t.Errorf("type %q", b.PatchType())
	}
	fields := b.Schema().Fields()
	want := []struct {
		name string
		kind ir.Kind
	}{
		{"balance", ir.DecimalKind},
		{"name", ir.StringKind},
		{"opened", ir.TimeKind},
		{"tags", ir.ArrayKind},
		{"home", ir.ObjectKind},
	}
	if len(fields) != len(want) {
		t.Fatalf("%d fields, want %d: %v", len(fields), len(want), fields)
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Kind != w.kind {
			t.Errorf("field %d: %v, want %v", i, fields[i], w)
		}
	}
}

func TestBindErrors(t *testing.T) {
	if _, err := Bind(testAccount{}); err == nil {
		t.Errorf("bound a non-pointer")
	}
	var nilPtr *testAccount
	if _, err := Bind(nilPtr); err == nil {
		t.Errorf("bound a nil pointer")
	}
	type chanField struct {
		C chan int
	}
	if _, err := Bind(&chanField{}); err == nil {
		t.Errorf("bound an unsupported field type")
	}
}

func TestFieldSetField(t *testing.T) {
	acct := newTestAccount()
	b, err := Bind(acct)
	if err != nil {
		t.Fatal(err)
	}

	v, err := b.Field("balance")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ir.DecimalKind || !v.Decimal.Equal(decimal.RequireFromString("100")) {
		t.Errorf("balance: %v", v)
	}

	v, err = b.Field("home")
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ir.ObjectKind || v.Get("city").String != "Lyon" || v.Get("postal_code").String != "69001" {
		t.Errorf("home: %v", v)
	}

	if err := b.SetField("name", ir.FromString("B")); err != nil {
		t.Fatal(err)
	}
	if acct.Name != "B" {
		t.Errorf("name after set: %q", acct.Name)
	}
	if err := b.SetField("name", ir.FromInt(3)); err == nil {
		t.Errorf("set a string field from an int")
	}
	if _, err := b.Field("secret"); !errors.Is(err, strain.ErrUnknownField) {
		t.Errorf("unexported field visible: %v", err)
	}
	if _, err := b.Field("skipped"); !errors.Is(err, strain.ErrUnknownField) {
		t.Errorf("skipped field visible: %v", err)
	}
}

func TestTrackedHistory(t *testing.T) {
	acct := newTestAccount()
	tr, err := Track(acct)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strain.Set(tr, "balance", ir.FromDecimal(decimal.RequireFromString("150"))); err != nil {
		t.Fatal(err)
	}
	if !acct.Balance.Equal(decimal.RequireFromString("150")) {
		t.Errorf("balance after set: %s", acct.Balance)
	}
	if tr.History().Len() != 1 {
		t.Fatalf("history: %d entries", tr.History().Len())
	}
	if _, err := strain.Pop(tr); err != nil {
		t.Fatal(err)
	}
	if !acct.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("balance after pop: %s", acct.Balance)
	}
}

func TestNestedFieldPatch(t *testing.T) {
	acct := newTestAccount()
	tr, err := Track(acct)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strain.Set(tr, "home.city", ir.FromString("Nice")); err != nil {
		t.Fatal(err)
	}
	if acct.Home.City != "Nice" || acct.Home.Zip != "69001" {
		t.Errorf("nested set: %+v", acct.Home)
	}
	if _, err := strain.Pop(tr); err != nil {
		t.Fatal(err)
	}
	if acct.Home.City != "Lyon" {
		t.Errorf("nested pop: %+v", acct.Home)
	}
}

func TestDiffBound(t *testing.T) {
	a, err := Bind(newTestAccount())
	if err != nil {
		t.Fatal(err)
	}
	other := newTestAccount()
	other.Balance = decimal.RequireFromString("150")
	other.Tags = []string{"prod", "eu"}
	b, err := Bind(other)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := strain.Diff(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps.Patches) != 2 {
		t.Fatalf("diff: %s", ps)
	}
	if ps.Patches[0].Field.String() != "balance" || ps.Patches[1].Field.String() != "tags" {
		t.Errorf("diff fields: %s, %s", ps.Patches[0].Field, ps.Patches[1].Field)
	}
	if err := strain.Apply(a, ps); err != nil {
		t.Fatal(err)
	}
	if again, err := strain.Diff(a, b); err != nil || !again.IsEmpty() {
		t.Errorf("apply did not converge: %v %v", again, err)
	}
}
