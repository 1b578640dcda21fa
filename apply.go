package strain

import (
	"fmt"

	"github.com/strain-format/strain/debug"
	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

// Apply applies a patch set to target. Every patch's old value is
// checked against the target's current state before anything is written
// (patches within the set chain, each seeing the staged effect of the
// ones before it); a mismatch returns ErrStaleConflict with the target
// untouched. Application is all-or-nothing.
//
// When target is Historic, the applied set is appended to its history as
// part of the same operation.
func Apply(target Patchwork, ps *PatchSet) error {
	if err := apply(target, ps); err != nil {
		return err
	}
	if h, ok := target.(Historic); ok {
		h.History().append(ps.Clone())
	}
	return nil
}

// ApplyPatch applies a single patch as a one-element set.
func ApplyPatch(target Patchwork, p *Patch) error {
	ps, err := Combine(target.Schema(), p)
	if err != nil {
		return err
	}
	return Apply(target, ps)
}

// Set is the shorthand for a single key/value mutation: it builds the
// patch from the field's current value, applies it, and returns it. The
// returned patch is exactly what NewPatch would have built.
func Set(target Patchwork, field string, value *ir.Value) (*Patch, error) {
	p, err := fieldpath.Parse(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	old, err := resolve(target, p)
	if err != nil {
		return nil, err
	}
	patch := &Patch{Field: p, Old: old.Clone(), New: value.Clone()}
	if err := ApplyPatch(target, patch); err != nil {
		return nil, err
	}
	return patch, nil
}

// Pop removes the most recent history entry, applies its inverse to the
// instance, and returns the removed entry. The inverse application does
// not itself enter the history. On any failure the instance and its
// history are unchanged.
func Pop(h Historic) (*PatchSet, error) {
	last, ok := h.History().peek()
	if !ok {
		return nil, fmt.Errorf("%w (type %s)", ErrEmptyHistory, h.PatchType())
	}
	if debug.Pop() {
		debug.Logf("pop %s from %s\n", last.ID, h.PatchType())
	}
	if err := apply(h, last.Invert()); err != nil {
		return nil, err
	}
	h.History().removeLast()
	return last, nil
}

// resolve reads the current value at a path through the target's
// accessor.
func resolve(target Patchwork, p fieldpath.Path) (*ir.Value, error) {
	if err := target.Schema().Check(p); err != nil {
		return nil, err
	}
	root, err := target.Field(p.Root())
	if err != nil {
		return nil, err
	}
	v, err := fieldpath.Lookup(root, p[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownField, p, err)
	}
	return v, nil
}

func apply(target Patchwork, ps *PatchSet) error {
	s := target.Schema()
	if ps.Type != "" && ps.Type != s.TypeName() {
		return fmt.Errorf("patch set for type %s cannot apply to %s", ps.Type, s.TypeName())
	}
	if debug.Apply() {
		debug.Logf("apply %d patches to %s\n", len(ps.Patches), s.TypeName())
	}

	// Stage every change against cloned field values first; nothing
	// touches the target until all old values have checked out.
	staged := map[string]*ir.Value{}
	var order []string
	for _, p := range ps.Patches {
		if err := s.Check(p.Field); err != nil {
			return err
		}
		root := p.Field.Root()
		cur, ok := staged[root]
		if !ok {
			live, err := target.Field(root)
			if err != nil {
				return err
			}
			cur = live.Clone()
			order = append(order, root)
		}
		leaf, err := fieldpath.Lookup(cur, p.Field[1:])
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnknownField, p.Field, err)
		}
		if !ir.Equal(leaf, p.Old) {
			leafJSON, _ := ir.ToJSON(leaf)
			oldJSON, _ := ir.ToJSON(p.Old)
			return fmt.Errorf("%w: %s is %s, patch expects %s",
				ErrStaleConflict, p.Field, leafJSON, oldJSON)
		}
		if len(p.Field) == 1 {
			cur = p.New.Clone()
		} else if err := fieldpath.Store(cur, p.Field[1:], p.New.Clone()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnknownField, p.Field, err)
		}
		staged[root] = cur
	}

	// Commit. A mutator failure rolls back fields already written so
	// partial application is never observable.
	written := make([]string, 0, len(order))
	originals := make(map[string]*ir.Value, len(order))
	for _, root := range order {
		live, err := target.Field(root)
		if err != nil {
			rollback(target, written, originals)
			return err
		}
		originals[root] = live.Clone()
		if err := target.SetField(root, staged[root]); err != nil {
			rollback(target, written, originals)
			return err
		}
		written = append(written, root)
	}
	return nil
}

func rollback(target Patchwork, written []string, originals map[string]*ir.Value) {
	for i := len(written) - 1; i >= 0; i-- {
		// best effort: the mutator accepted this value moments ago
		_ = target.SetField(written[i], originals[written[i]])
	}
}
