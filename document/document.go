// Package document provides a dynamic Patchwork over a plain object
// value, for tracking JSON/YAML documents whose shape is only known at
// runtime. The strain CLI and RPC server are built on it.
package document

import (
	"fmt"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

// Document tracks an object value with history. Its schema is derived
// from the object at creation: the object's keys, in order, become the
// fields. Field kinds are taken from the initial values but a field may
// change kind later; dynamic documents carry no declared types beyond
// their initial shape.
type Document struct {
	schema  *schema.Schema
	obj     *ir.Value
	history *strain.History
}

var _ strain.Historic = (*Document)(nil)

// New copies obj into a tracked document. obj must be an object value.
func New(typeName string, obj *ir.Value) (*Document, error) {
	s, err := schema.FromValue(typeName, obj)
	if err != nil {
		return nil, err
	}
	return &Document{
		schema:  s,
		obj:     obj.Clone(),
		history: strain.NewHistory(),
	}, nil
}

// FromJSON builds a document from a JSON object.
func FromJSON(typeName string, data []byte) (*Document, error) {
	obj, err := ir.FromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	return New(typeName, obj)
}

func (d *Document) PatchType() string {
	return d.schema.TypeName()
}

func (d *Document) Schema() *schema.Schema {
	return d.schema
}

func (d *Document) Field(name string) (*ir.Value, error) {
	if !d.schema.Has(name) {
		return nil, fmt.Errorf("%w: %q (type %s)", strain.ErrUnknownField, name, d.PatchType())
	}
	return d.obj.Get(name).Clone(), nil
}

func (d *Document) SetField(name string, v *ir.Value) error {
	if !d.schema.Has(name) {
		return fmt.Errorf("%w: %q (type %s)", strain.ErrUnknownField, name, d.PatchType())
	}
	d.obj.Set(name, v.Clone())
	return nil
}

func (d *Document) History() *strain.History {
	return d.history
}

// Value returns a copy of the document's current state.
func (d *Document) Value() *ir.Value {
	return d.obj.Clone()
}
