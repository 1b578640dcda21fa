package encode

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/wI2L/jsondiff"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
)

// rfcOp is one RFC 6902 operation.
type rfcOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// ToJSONPatch exports a patch set as an RFC 6902 JSON Patch: each strain
// patch becomes a test op on the old value followed by a replace op to
// the new one, so conforming appliers get the same optimistic
// concurrency check Apply performs. The result is validated before it is
// returned.
func ToJSONPatch(ps *strain.PatchSet) ([]byte, error) {
	ops := make([]rfcOp, 0, 2*len(ps.Patches))
	for _, p := range ps.Patches {
		ptr, err := jsonPointer(p.Field)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
		}
		oldJSON, err := ir.ToJSON(p.Old)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, p.Field, err)
		}
		newJSON, err := ir.ToJSON(p.New)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, p.Field, err)
		}
		ops = append(ops,
			rfcOp{Op: "test", Path: ptr, Value: oldJSON},
			rfcOp{Op: "replace", Path: ptr, Value: newJSON},
		)
	}
	d, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	if _, err := jsonpatch.DecodePatch(d); err != nil {
		return nil, fmt.Errorf("%w: invalid RFC 6902 output: %v", strain.ErrSerialization, err)
	}
	return d, nil
}

// JSONDiff computes an RFC 6902 patch between two JSON documents, for
// consumers that speak JSON Patch rather than strain's wire form.
func JSONDiff(a, b []byte) ([]byte, error) {
	patch, err := jsondiff.CompareJSON(a, b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	d, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	return d, nil
}

func jsonPointer(p fieldpath.Path) (string, error) {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		if seg.IsIndex() {
			fmt.Fprintf(&b, "%d", *seg.Index)
			continue
		}
		f := strings.ReplaceAll(seg.Field, "~", "~0")
		f = strings.ReplaceAll(f, "/", "~1")
		b.WriteString(f)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty field path")
	}
	return b.String(), nil
}
