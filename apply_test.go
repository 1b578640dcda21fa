package strain

import (
	"errors"
	"testing"

	"github.com/strain-format/strain/ir"
)

func TestSetScenario(t *testing.T) {
	// Account{balance: 100, name: "A"}: set balance to 150, check the
	// history entry, pop, and check the restore.
	acct := newAccount(100, "A")
	p, err := Set(acct, "balance", ir.FromInt(150))
	if err != nil {
		t.Fatal(err)
	}
	if *p.Old.Int64 != 100 || *p.New.Int64 != 150 {
		t.Errorf("shorthand patch: %s", p)
	}
	if acct.balance != 150 {
		t.Errorf("balance after set: %d", acct.balance)
	}
	hist := acct.History().List()
	if len(hist) != 1 {
		t.Fatalf("history has %d entries", len(hist))
	}
	entry := hist[0].Patches
	if len(entry) != 1 || entry[0].Field.String() != "balance" ||
		*entry[0].Old.Int64 != 100 || *entry[0].New.Int64 != 150 {
		t.Errorf("history entry: %s", hist[0])
	}

	popped, err := Pop(acct)
	if err != nil {
		t.Fatal(err)
	}
	if !popped.Equal(hist[0]) {
		t.Errorf("pop returned %s, want %s", popped, hist[0])
	}
	if acct.balance != 100 {
		t.Errorf("balance after pop: %d", acct.balance)
	}
	if acct.History().Len() != 0 {
		t.Errorf("history not empty after pop")
	}
}

func TestApplyStaleConflict(t *testing.T) {
	acct := newAccount(100, "A")
	p, err := NewPatch(accountSchema, "balance", ir.FromInt(90), ir.FromInt(150))
	if err != nil {
		t.Fatal(err)
	}
	err = ApplyPatch(acct, p)
	if !errors.Is(err, ErrStaleConflict) {
		t.Fatalf("got %v, want ErrStaleConflict", err)
	}
	if acct.balance != 100 || acct.History().Len() != 0 {
		t.Errorf("instance changed on stale conflict: balance=%d history=%d",
			acct.balance, acct.History().Len())
	}
}

func TestApplyUnknownField(t *testing.T) {
	acct := newAccount(100, "A")
	ps := newPatchSet("Account")
	p, _ := NewPatch(accountSchema, "balance", ir.FromInt(100), ir.FromInt(150))
	ps.Patches = append(ps.Patches, p, &Patch{
		Field: p.Field.Dot("missing"),
		Old:   ir.Null(),
		New:   ir.FromInt(1),
	})
	err := Apply(acct, ps)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
	if acct.balance != 100 {
		t.Errorf("partial application observable: balance=%d", acct.balance)
	}
}

func TestApplyAtomicRollback(t *testing.T) {
	acct := newAccount(100, "A")
	target := &flaky{account: acct, failOn: "name"}
	p1, _ := NewPatch(accountSchema, "balance", ir.FromInt(100), ir.FromInt(150))
	p2, _ := NewPatch(accountSchema, "name", ir.FromString("A"), ir.FromString("B"))
	ps, err := Combine(accountSchema, p1, p2)
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(target, ps); err == nil {
		t.Fatal("expected mutator failure")
	}
	if acct.balance != 100 || acct.name != "A" {
		t.Errorf("rollback failed: balance=%d name=%q", acct.balance, acct.name)
	}
	if acct.History().Len() != 0 {
		t.Errorf("failed apply entered history")
	}
}

func TestApplyChainedSet(t *testing.T) {
	acct := newAccount(1, "A")
	p1, _ := NewPatch(accountSchema, "balance", ir.FromInt(1), ir.FromInt(2))
	p2, _ := NewPatch(accountSchema, "balance", ir.FromInt(2), ir.FromInt(3))
	ps, err := Combine(accountSchema, p1, p2)
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(acct, ps); err != nil {
		t.Fatal(err)
	}
	if acct.balance != 3 {
		t.Errorf("chained apply: balance=%d", acct.balance)
	}
}

func TestPopEmptyHistory(t *testing.T) {
	acct := newAccount(100, "A")
	_, err := Pop(acct)
	if !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("got %v, want ErrEmptyHistory", err)
	}
	if acct.balance != 100 || acct.name != "A" {
		t.Errorf("pop on empty history changed the instance")
	}
}

func TestPopAllRestoresOriginal(t *testing.T) {
	acct := newAccount(100, "A")
	steps := []struct {
		field string
		val   *ir.Value
	}{
		{"balance", ir.FromInt(150)},
		{"name", ir.FromString("B")},
		{"balance", ir.FromInt(-25)},
		{"name", ir.FromString("C")},
	}
	for _, step := range steps {
		if _, err := Set(acct, step.field, step.val); err != nil {
			t.Fatal(err)
		}
	}
	if got := acct.History().Len(); got != len(steps) {
		t.Fatalf("history has %d entries, want %d", got, len(steps))
	}
	// entries list in application order
	list := acct.History().List()
	for i, step := range steps {
		if list[i].Patches[0].Field.String() != step.field {
			t.Errorf("entry %d: field %s, want %s", i, list[i].Patches[0].Field, step.field)
		}
	}
	for range steps {
		if _, err := Pop(acct); err != nil {
			t.Fatal(err)
		}
	}
	if acct.balance != 100 || acct.name != "A" {
		t.Errorf("pops did not restore original: balance=%d name=%q", acct.balance, acct.name)
	}
	if acct.History().Len() != 0 {
		t.Errorf("history not empty after full unwind")
	}
}

func TestSetUnknownField(t *testing.T) {
	acct := newAccount(100, "A")
	_, err := Set(acct, "owner", ir.FromString("x"))
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
}

func TestApplyTypeMismatch(t *testing.T) {
	acct := newAccount(100, "A")
	ps := newPatchSet("Order")
	if err := Apply(acct, ps); err == nil {
		t.Fatal("applied an Order patch set to an Account")
	}
}
