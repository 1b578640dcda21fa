// Package structmap binds Go structs to the Patchwork capability with
// reflection, deriving the schema and accessor/mutator pairs so that
// structs need no hand-written boilerplate.
//
//	type Account struct {
//	    Balance decimal.Decimal `strain:"balance"`
//	    Name    string          `strain:"name"`
//	}
//	acct := &Account{...}
//	bound, err := structmap.Track(acct)
//	strain.Set(bound, "balance", ir.FromDecimal(d))
//
// Field names default to the Go name with the first rune lowered; the
// strain tag overrides, and `strain:"-"` hides a field. Supported field
// types: bool, the integer and float types, string, decimal.Decimal,
// time.Time, pointers, slices, string-keyed maps and nested structs.
package structmap

import (
	"fmt"
	"reflect"
	"unicode"
	"unicode/utf8"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

// Bound is a reflection-backed Patchwork over one struct instance.
type Bound struct {
	schema *schema.Schema
	val    reflect.Value
	byName map[string]int
}

var _ strain.Patchwork = (*Bound)(nil)

// Tracked is a Bound that also retains history.
type Tracked struct {
	*Bound
	history *strain.History
}

var _ strain.Historic = (*Tracked)(nil)

// Bind derives a Patchwork from a pointer to a struct. The binder reads
// and writes the struct through reflection; the caller must not mutate
// bound fields directly while patches are in flight.
func Bind(ptr any) (*Bound, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("structmap: need a non-nil struct pointer, got %T", ptr)
	}
	elem := rv.Elem()
	t := elem.Type()
	var fields []schema.Field
	byName := map[string]int{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		kind, err := kindOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("structmap: field %s.%s: %w", t.Name(), f.Name, err)
		}
		fields = append(fields, schema.Field{Name: name, Kind: kind})
		byName[name] = i
	}
	s, err := schema.New(t.Name(), fields...)
	if err != nil {
		return nil, fmt.Errorf("structmap: %w", err)
	}
	return &Bound{schema: s, val: elem, byName: byName}, nil
}

// Track is Bind plus an owned history, yielding a Historic.
func Track(ptr any) (*Tracked, error) {
	b, err := Bind(ptr)
	if err != nil {
		return nil, err
	}
	return &Tracked{Bound: b, history: strain.NewHistory()}, nil
}

func (b *Bound) PatchType() string {
	return b.schema.TypeName()
}

func (b *Bound) Schema() *schema.Schema {
	return b.schema
}

func (b *Bound) Field(name string) (*ir.Value, error) {
	i, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (type %s)", strain.ErrUnknownField, name, b.PatchType())
	}
	return toValue(b.val.Field(i))
}

func (b *Bound) SetField(name string, v *ir.Value) error {
	i, ok := b.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q (type %s)", strain.ErrUnknownField, name, b.PatchType())
	}
	fv := b.val.Field(i)
	nv, err := fromValue(v, fv.Type())
	if err != nil {
		return fmt.Errorf("field %q: %w", name, err)
	}
	fv.Set(nv)
	return nil
}

func (t *Tracked) History() *strain.History {
	return t.history
}

func fieldName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("strain")
	if ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	r, size := utf8.DecodeRuneInString(f.Name)
	return string(unicode.ToLower(r)) + f.Name[size:]
}
