// Package fieldpath implements the dot notation strain uses to identify
// fields, such as "balance" or "owner.address[0].city". A path is a
// sequence of object field and array index segments.
package fieldpath

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/strain-format/strain/ir"
)

// Segment is one step of a path: either an object field or an array
// index, never both.
type Segment struct {
	Field string
	Index *int
}

func (s Segment) IsIndex() bool {
	return s.Index != nil
}

func (s Segment) String() string {
	if s.Index != nil {
		return "[" + strconv.Itoa(*s.Index) + "]"
	}
	if quoteField(s.Field) {
		return strconv.Quote(s.Field)
	}
	return s.Field
}

// Path locates a value within a structure instance. The first segment is
// always a field naming one of the structure's schema fields; deeper
// segments navigate into composite field values.
type Path []Segment

// New builds a single-field path.
func New(field string) Path {
	return Path{{Field: field}}
}

func (p Path) Dot(field string) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, Segment{Field: field})
}

func (p Path) At(index int) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, Segment{Index: &index})
}

// Root returns the name of the leading field segment.
func (p Path) Root() string {
	if len(p) == 0 {
		return ""
	}
	return p[0].Field
}

func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i].IsIndex() != q[i].IsIndex() {
			return false
		}
		if p[i].IsIndex() {
			if *p[i].Index != *q[i].Index {
				return false
			}
			continue
		}
		if p[i].Field != q[i].Field {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if i > 0 && !seg.IsIndex() {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// Parse is the inverse of String.
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty field path")
	}
	var res Path
	i := 0
	expectField := true
	for i < len(s) {
		switch {
		case s[i] == '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("unterminated index in %q", s)
			}
			idx, err := strconv.Atoi(s[i+1 : i+j])
			if err != nil {
				return nil, fmt.Errorf("bad index in %q: %w", s, err)
			}
			if idx < 0 {
				return nil, fmt.Errorf("negative index in %q", s)
			}
			res = append(res, Segment{Index: &idx})
			i += j + 1
			expectField = false
		case s[i] == '.':
			if expectField {
				return nil, fmt.Errorf("empty segment in %q", s)
			}
			i++
			expectField = true
		case s[i] == '"':
			field, rest, err := unquoteField(s[i:])
			if err != nil {
				return nil, fmt.Errorf("bad quoted field in %q: %w", s, err)
			}
			res = append(res, Segment{Field: field})
			i = len(s) - len(rest)
			expectField = false
		default:
			j := i
			for j < len(s) && s[j] != '.' && s[j] != '[' {
				j++
			}
			if j == i {
				return nil, fmt.Errorf("empty segment in %q", s)
			}
			res = append(res, Segment{Field: s[i:j]})
			i = j
			expectField = false
		}
	}
	if expectField {
		return nil, fmt.Errorf("trailing separator in %q", s)
	}
	if len(res) == 0 || res[0].IsIndex() {
		return nil, fmt.Errorf("path %q must begin with a field", s)
	}
	return res, nil
}

func quoteField(f string) bool {
	if f == "" {
		return true
	}
	return strings.ContainsAny(f, ".[]\" \t")
}

func unquoteField(s string) (field, rest string, err error) {
	// s begins with a double quote; find its unescaped closing quote
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			f, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return "", "", err
			}
			return f, s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated quote")
}

// Lookup navigates from a field value along the path segments after the
// root. The root segment itself is resolved by the structure's accessor,
// so Lookup is given the root field's value and p[1:] applies.
func Lookup(v *ir.Value, p Path) (*ir.Value, error) {
	res := v
	for _, seg := range p {
		if seg.IsIndex() {
			if res == nil || res.Kind != ir.ArrayKind {
				return nil, fmt.Errorf("expected array at %s, got %s", seg, kindOf(res))
			}
			if *seg.Index >= len(res.Values) {
				return nil, fmt.Errorf("index %d out of bounds (len %d)", *seg.Index, len(res.Values))
			}
			res = res.Values[*seg.Index]
			continue
		}
		if res == nil || res.Kind != ir.ObjectKind {
			return nil, fmt.Errorf("expected object at %q, got %s", seg.Field, kindOf(res))
		}
		next := res.Get(seg.Field)
		if next == nil {
			return nil, fmt.Errorf("no field %q", seg.Field)
		}
		res = next
	}
	return res, nil
}

// Store sets the value reached by the path segments within v, which must
// be a composite. As with Lookup, the root segment is not included.
func Store(v *ir.Value, p Path, val *ir.Value) error {
	if len(p) == 0 {
		return fmt.Errorf("empty subpath")
	}
	parent, err := Lookup(v, p[:len(p)-1])
	if err != nil {
		return err
	}
	last := p[len(p)-1]
	if last.IsIndex() {
		if parent.Kind != ir.ArrayKind {
			return fmt.Errorf("expected array at %s, got %s", last, parent.Kind)
		}
		if *last.Index >= len(parent.Values) {
			return fmt.Errorf("index %d out of bounds (len %d)", *last.Index, len(parent.Values))
		}
		parent.Values[*last.Index] = val
		return nil
	}
	if parent.Kind != ir.ObjectKind {
		return fmt.Errorf("expected object at %q, got %s", last.Field, parent.Kind)
	}
	parent.Set(last.Field, val)
	return nil
}

func kindOf(v *ir.Value) string {
	if v == nil {
		return "nothing"
	}
	return v.Kind.String()
}
