package strain

import (
	"fmt"

	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

// account is a hand-written Patchwork implementation: private fields,
// all access through Field/SetField.
type account struct {
	balance int64
	name    string
	history *History
}

var accountSchema = schema.MustNew("Account",
	schema.Field{Name: "balance", Kind: ir.IntKind},
	schema.Field{Name: "name", Kind: ir.StringKind},
)

func newAccount(balance int64, name string) *account {
	return &account{balance: balance, name: name, history: NewHistory()}
}

func (a *account) PatchType() string {
	return "Account"
}

func (a *account) Schema() *schema.Schema {
	return accountSchema
}

func (a *account) Field(name string) (*ir.Value, error) {
	switch name {
	case "balance":
		return ir.FromInt(a.balance), nil
	case "name":
		return ir.FromString(a.name), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (a *account) SetField(name string, v *ir.Value) error {
	switch name {
	case "balance":
		if v.Kind != ir.IntKind {
			return fmt.Errorf("balance needs an int, got %s", v.Kind)
		}
		a.balance = *v.Int64
		return nil
	case "name":
		if v.Kind != ir.StringKind {
			return fmt.Errorf("name needs a string, got %s", v.Kind)
		}
		a.name = v.String
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

func (a *account) History() *History {
	return a.history
}

// otherThing has a schema type other than Account.
type otherThing struct{}

var orderSchema = schema.MustNew("Order",
	schema.Field{Name: "qty", Kind: ir.IntKind},
)

func (o *otherThing) PatchType() string      { return "Order" }
func (o *otherThing) Schema() *schema.Schema { return orderSchema }

func (o *otherThing) Field(name string) (*ir.Value, error) {
	if name != "qty" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return ir.FromInt(0), nil
}

func (o *otherThing) SetField(name string, v *ir.Value) error {
	if name != "qty" {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// objectFixture exposes one object-valued field so nested diffs have
// something to descend into.
type objectFixture struct {
	obj *ir.Value
}

var profileSchema = schema.MustNew("Profile",
	schema.Field{Name: "address", Kind: ir.ObjectKind},
)

func (o *objectFixture) PatchType() string      { return "Profile" }
func (o *objectFixture) Schema() *schema.Schema { return profileSchema }

func (o *objectFixture) Field(name string) (*ir.Value, error) {
	if name != "address" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return o.obj.Get("address").Clone(), nil
}

func (o *objectFixture) SetField(name string, v *ir.Value) error {
	if name != "address" {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	o.obj.Set(name, v.Clone())
	return nil
}

// flaky is an account whose mutator rejects writes on demand, for
// rollback tests.
type flaky struct {
	*account
	failOn string
}

func (f *flaky) SetField(name string, v *ir.Value) error {
	if name == f.failOn {
		return fmt.Errorf("mutator down for %q", name)
	}
	return f.account.SetField(name, v)
}
