// Package schema holds the field registry of a patchable structure: the
// ordered set of field names and kinds a structure exposes through its
// accessors. Declaration order is the canonical field order for diffs.
package schema

import (
	"errors"
	"fmt"

	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

// ErrUnknownField is returned when a field identifier does not name a
// field of the target structure's schema.
var ErrUnknownField = errors.New("unknown field")

// Field declares one structure field.
type Field struct {
	Name string
	Kind ir.Kind
}

// Schema is an immutable, ordered field registry for one structure type.
type Schema struct {
	typeName string
	fields   []Field
	index    map[string]int
}

// New builds a schema with fields in declaration order.
func New(typeName string, fields ...Field) (*Schema, error) {
	if typeName == "" {
		return nil, fmt.Errorf("schema needs a type name")
	}
	s := &Schema{
		typeName: typeName,
		fields:   make([]Field, len(fields)),
		index:    make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema %s: empty field name at %d", typeName, i)
		}
		if _, ok := s.index[f.Name]; ok {
			return nil, fmt.Errorf("schema %s: duplicate field %q", typeName, f.Name)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// MustNew is New for schemas built from literals.
func MustNew(typeName string, fields ...Field) *Schema {
	s, err := New(typeName, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromValue derives a dynamic schema from an object value, with fields
// in the object's order and kinds taken from the current values.
func FromValue(typeName string, obj *ir.Value) (*Schema, error) {
	if obj == nil || obj.Kind != ir.ObjectKind {
		return nil, fmt.Errorf("schema %s: need an object, got %v", typeName, obj)
	}
	fields := make([]Field, len(obj.Fields))
	for i, name := range obj.Fields {
		fields[i] = Field{Name: name, Kind: obj.Values[i].Kind}
	}
	return New(typeName, fields...)
}

func (s *Schema) TypeName() string {
	return s.typeName
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	res := make([]Field, len(s.fields))
	copy(res, s.fields)
	return res
}

func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Schema) Kind(name string) (ir.Kind, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.fields[i].Kind, true
}

// Check validates that a path's root segment names a schema field.
func (s *Schema) Check(p fieldpath.Path) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty path (type %s)", ErrUnknownField, s.typeName)
	}
	if !s.Has(p.Root()) {
		return fmt.Errorf("%w: %q (type %s)", ErrUnknownField, p.Root(), s.typeName)
	}
	return nil
}
