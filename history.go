package strain

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/strain-format/strain/ir"
)

// History is the append-only log of patch sets applied to one instance,
// oldest first. It is owned by the instance: only Apply, Set and Pop on
// the owner mutate it. Create one per instance with NewHistory and hand
// it out from the Historic implementation.
type History struct {
	entries []*PatchSet
}

func NewHistory() *History {
	return &History{}
}

// HistoryOf rebuilds a history from persisted entries, oldest first. The
// entries are cloned; the caller keeps its slice.
func HistoryOf(entries ...*PatchSet) *History {
	h := &History{entries: make([]*PatchSet, len(entries))}
	for i, ps := range entries {
		h.entries[i] = ps.Clone()
	}
	return h
}

func (h *History) Len() int {
	return len(h.entries)
}

// List returns the applied sets oldest first. The result is a deep copy;
// mutating it cannot disturb the log.
func (h *History) List() []*PatchSet {
	res := make([]*PatchSet, len(h.entries))
	for i, ps := range h.entries {
		res[i] = ps.Clone()
	}
	return res
}

// Select returns the entries matching an expr-lang predicate, oldest
// first. The predicate sees id, type, at, fields (the field paths the
// entry touches) and patches (field/old/new maps).
//
//	h.Select(`"balance" in fields`)
//	h.Select(`at > date("2026-01-01")`)
func (h *History) Select(predicate string) ([]*PatchSet, error) {
	program, err := expr.Compile(predicate, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("bad predicate %q: %w", predicate, err)
	}
	var res []*PatchSet
	for _, ps := range h.entries {
		out, err := vm.Run(program, selectEnv(ps))
		if err != nil {
			return nil, fmt.Errorf("predicate %q: %w", predicate, err)
		}
		if out.(bool) {
			res = append(res, ps.Clone())
		}
	}
	return res, nil
}

func selectEnv(ps *PatchSet) map[string]any {
	fields := make([]string, len(ps.Patches))
	patches := make([]map[string]any, len(ps.Patches))
	for i, p := range ps.Patches {
		fields[i] = p.Field.String()
		patches[i] = map[string]any{
			"field": p.Field.String(),
			"old":   ir.ToGo(p.Old),
			"new":   ir.ToGo(p.New),
		}
	}
	return map[string]any{
		"id":      ps.ID.String(),
		"type":    ps.Type,
		"at":      ps.At,
		"fields":  fields,
		"patches": patches,
	}
}

func (h *History) append(ps *PatchSet) {
	h.entries = append(h.entries, ps)
}

func (h *History) peek() (*PatchSet, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) removeLast() {
	h.entries = h.entries[:len(h.entries)-1]
}
