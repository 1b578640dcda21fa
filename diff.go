package strain

import (
	"fmt"
	"slices"

	"github.com/strain-format/strain/debug"
	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

// Diff compares two instances of the same structure type field by field,
// in schema declaration order, and returns the minimal patch set that
// transforms a into b. Equal fields produce no entry. Object-valued
// fields with identical key sets recurse, producing dot-path patches for
// just the differing members; everything else is replaced atomically.
//
// Diff only reads its inputs. Equal inputs produce a set with the same
// patches every time (ids and timestamps aside).
func Diff(a, b Patchwork) (*PatchSet, error) {
	sa, sb := a.Schema(), b.Schema()
	if sa.TypeName() != sb.TypeName() {
		return nil, fmt.Errorf("cannot diff %s against %s", sa.TypeName(), sb.TypeName())
	}
	ps := newPatchSet(sa.TypeName())
	for _, f := range sa.Fields() {
		av, err := a.Field(f.Name)
		if err != nil {
			return nil, err
		}
		bv, err := b.Field(f.Name)
		if err != nil {
			return nil, err
		}
		diffValue(ps, fieldpath.New(f.Name), av, bv)
	}
	if debug.Diff() {
		debug.Logf("diff %s: %d patches\n", sa.TypeName(), len(ps.Patches))
	}
	return ps, nil
}

func diffValue(ps *PatchSet, path fieldpath.Path, av, bv *ir.Value) {
	if ir.Equal(av, bv) {
		return
	}
	if av != nil && bv != nil &&
		av.Kind == ir.ObjectKind && bv.Kind == ir.ObjectKind &&
		slices.Equal(av.Fields, bv.Fields) {
		for i, f := range av.Fields {
			diffValue(ps, path.Dot(f), av.Values[i], bv.Values[i])
		}
		return
	}
	ps.Patches = append(ps.Patches, &Patch{
		Field: path,
		Old:   av.Clone(),
		New:   bv.Clone(),
	})
}
