// Package encode serializes patches and patch sets to and from
// interchange formats: JSON, YAML, and RFC 6902 JSON Patch.
//
// The wire form of a patch set is a self-describing object:
//
//	{
//	  "id": "01JFZY6KQ30DB0W1GZ0YDC8B7V",
//	  "type": "Account",
//	  "at": "2026-08-23T10:00:00Z",
//	  "patches": [
//	    {"field": "balance", "old": "100", "new": "150"}
//	  ]
//	}
//
// Old and new values encode in their natural JSON form; decimals and
// times travel as strings and are re-kinded on decode when a schema is
// supplied (see DecodeSchema). Without a schema they decode as the JSON
// kinds alone can express, which round-trips bools, ints, floats,
// strings, arrays and objects exactly.
package encode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	strain "github.com/strain-format/strain"
	"github.com/strain-format/strain/fieldpath"
	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

type wireSet struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	At      time.Time   `json:"at"`
	Patches []wirePatch `json:"patches"`
}

type wirePatch struct {
	Field string          `json:"field"`
	Old   json.RawMessage `json:"old"`
	New   json.RawMessage `json:"new"`
}

// DecodeConfig carries decoding options.
type DecodeConfig struct {
	Schema *schema.Schema
}

type DecodeOption func(*DecodeConfig)

// DecodeSchema re-kinds decoded values against a schema, recovering
// decimal and time fields from their string wire form.
func DecodeSchema(s *schema.Schema) DecodeOption {
	return func(c *DecodeConfig) { c.Schema = s }
}

// JSON encodes a patch set in the JSON wire form.
func JSON(ps *strain.PatchSet) ([]byte, error) {
	ws := wireSet{
		ID:      ps.ID.String(),
		Type:    ps.Type,
		At:      ps.At,
		Patches: make([]wirePatch, len(ps.Patches)),
	}
	for i, p := range ps.Patches {
		oldJSON, err := ir.ToJSON(p.Old)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, p.Field, err)
		}
		newJSON, err := ir.ToJSON(p.New)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, p.Field, err)
		}
		ws.Patches[i] = wirePatch{Field: p.Field.String(), Old: oldJSON, New: newJSON}
	}
	d, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	return d, nil
}

// FromJSON decodes the JSON wire form.
func FromJSON(d []byte, opts ...DecodeOption) (*strain.PatchSet, error) {
	cfg := &DecodeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	ws := wireSet{}
	if err := json.Unmarshal(d, &ws); err != nil {
		return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
	}
	id, err := ulid.ParseStrict(ws.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad id %q: %v", strain.ErrSerialization, ws.ID, err)
	}
	ps := &strain.PatchSet{
		ID:      id,
		Type:    ws.Type,
		At:      ws.At,
		Patches: make([]*strain.Patch, len(ws.Patches)),
	}
	for i, wp := range ws.Patches {
		path, err := fieldpath.Parse(wp.Field)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", strain.ErrSerialization, err)
		}
		oldV, err := decodeValue(cfg, path, wp.Old)
		if err != nil {
			return nil, err
		}
		newV, err := decodeValue(cfg, path, wp.New)
		if err != nil {
			return nil, err
		}
		ps.Patches[i] = &strain.Patch{Field: path, Old: oldV, New: newV}
	}
	return ps, nil
}

func decodeValue(cfg *DecodeConfig, path fieldpath.Path, raw json.RawMessage) (*ir.Value, error) {
	v, err := ir.FromJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, path, err)
	}
	if cfg.Schema == nil {
		return v, nil
	}
	nv, err := cfg.Schema.Normalize(path, v)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %v", strain.ErrSerialization, path, err)
	}
	return nv, nil
}
