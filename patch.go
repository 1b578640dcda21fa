package strain

import (
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/oklog/ulid/v2"

	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

// Patch records one atomic change to a single field: the value the field
// held when the patch was made and the value it changes to. Patches are
// immutable once created.
type Patch struct {
	Field fieldpath.Path
	Old   *ir.Value
	New   *ir.Value
}

// NewPatch builds a patch for a field of the given schema. The field is
// dot notation, see package fieldpath. Old and new are cloned.
func NewPatch(s *schema.Schema, field string, old, new *ir.Value) (*Patch, error) {
	p, err := fieldpath.Parse(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	if err := s.Check(p); err != nil {
		return nil, err
	}
	return &Patch{Field: p, Old: old.Clone(), New: new.Clone()}, nil
}

// Invert returns the patch that undoes p. It is pure: p is not changed
// and the result shares no state with it.
func (p *Patch) Invert() *Patch {
	return &Patch{
		Field: append(fieldpath.Path(nil), p.Field...),
		Old:   p.New.Clone(),
		New:   p.Old.Clone(),
	}
}

func (p *Patch) Clone() *Patch {
	return &Patch{
		Field: append(fieldpath.Path(nil), p.Field...),
		Old:   p.Old.Clone(),
		New:   p.New.Clone(),
	}
}

// Equal ignores nothing: field, old and new must all match.
func (p *Patch) Equal(q *Patch) bool {
	return p.Field.Equal(q.Field) && ir.Equal(p.Old, q.Old) && ir.Equal(p.New, q.New)
}

func (p *Patch) String() string {
	oldJSON, _ := ir.ToJSON(p.Old)
	newJSON, _ := ir.ToJSON(p.New)
	return fmt.Sprintf("%s: %s -> %s", p.Field, oldJSON, newJSON)
}

// PatchSet is an ordered group of patches representing one logical
// mutation, applied all-or-nothing. The ULID id doubles as ordering
// metadata: ids of later sets sort after earlier ones.
type PatchSet struct {
	ID      ulid.ULID
	Type    string
	At      time.Time
	Patches []*Patch
}

func newPatchSet(typeName string) *PatchSet {
	return &PatchSet{
		ID:   ulid.Make(),
		Type: typeName,
		At:   time.Now().UTC(),
	}
}

// Combine groups patches into a set for the given schema. Two patches
// may target the same field only when they chain, the second taking up
// exactly where the first left off; overlapping paths into the same
// field never combine.
func Combine(s *schema.Schema, patches ...*Patch) (*PatchSet, error) {
	ps := newPatchSet(s.TypeName())
	seen := mapset.NewThreadUnsafeSet[string]()
	lastNew := map[string]*ir.Value{}
	for _, p := range patches {
		if err := s.Check(p.Field); err != nil {
			return nil, err
		}
		key := p.Field.String()
		if seen.Contains(key) {
			if !ir.Equal(lastNew[key], p.Old) {
				return nil, fmt.Errorf("%w: two patches for %s with inconsistent base state", ErrCombine, key)
			}
		} else {
			for other := range seen.Iter() {
				if overlap(key, other) {
					return nil, fmt.Errorf("%w: %s overlaps %s", ErrCombine, key, other)
				}
			}
			seen.Add(key)
		}
		lastNew[key] = p.New
		ps.Patches = append(ps.Patches, p.Clone())
	}
	return ps, nil
}

// overlap reports whether one path is a proper prefix of the other.
func overlap(a, b string) bool {
	if a == b {
		return false
	}
	longer, shorter := a, b
	if len(a) < len(b) {
		longer, shorter = b, a
	}
	if !strings.HasPrefix(longer, shorter) {
		return false
	}
	switch longer[len(shorter)] {
	case '.', '[':
		return true
	}
	return false
}

// Invert returns the set that undoes ps: each patch inverted, in reverse
// order, under a fresh id and timestamp.
func (ps *PatchSet) Invert() *PatchSet {
	res := newPatchSet(ps.Type)
	res.Patches = make([]*Patch, len(ps.Patches))
	for i, p := range ps.Patches {
		res.Patches[len(ps.Patches)-1-i] = p.Invert()
	}
	return res
}

func (ps *PatchSet) Clone() *PatchSet {
	res := &PatchSet{ID: ps.ID, Type: ps.Type, At: ps.At}
	res.Patches = make([]*Patch, len(ps.Patches))
	for i, p := range ps.Patches {
		res.Patches[i] = p.Clone()
	}
	return res
}

// Equal compares type and patches, ignoring id and timestamp: two diffs
// of the same inputs are equal even though each run mints its own id.
func (ps *PatchSet) Equal(qs *PatchSet) bool {
	if ps.Type != qs.Type || len(ps.Patches) != len(qs.Patches) {
		return false
	}
	for i := range ps.Patches {
		if !ps.Patches[i].Equal(qs.Patches[i]) {
			return false
		}
	}
	return true
}

func (ps *PatchSet) IsEmpty() bool {
	return len(ps.Patches) == 0
}

func (ps *PatchSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", ps.Type, ps.ID)
	for _, p := range ps.Patches {
		b.WriteString("\n  ")
		b.WriteString(p.String())
	}
	return b.String()
}
