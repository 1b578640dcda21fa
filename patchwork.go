// Package strain tracks field-level mutations to structures as
// replayable, invertible patch records.
//
// A structure opts in by implementing Patchwork: it publishes a schema
// of its fields and routes all field access through accessor/mutator
// pairs, so every mutation can be represented as a Patch. Patches group
// into atomically applied PatchSets; Diff computes the PatchSet between
// two instances; Historic instances additionally retain an ordered log
// of applied sets which Pop unwinds one entry at a time.
//
// Instances and their histories are single-writer: Apply, Set and Pop
// require exclusive access to the target for their duration. Diff only
// reads. Callers using an instance across goroutines must serialize
// mutation themselves.
package strain

import (
	"github.com/strain-format/strain/ir"
	"github.com/strain-format/strain/schema"
)

// Patchwork is the capability to accept patches and be diffed. All field
// mutation of an implementing structure must flow through SetField so
// that it can be intercepted and recorded.
//
// Field returns the current value of a schema field. SetField replaces
// it. Both return an error for names outside the schema; SetField may
// also reject values of the wrong kind.
type Patchwork interface {
	PatchType() string
	Schema() *schema.Schema
	Field(name string) (*ir.Value, error)
	SetField(name string, v *ir.Value) error
}

// Historic is a Patchwork that retains the ordered history of patch
// sets applied to it. The history is owned by the instance: successful
// Apply and Set calls append to it, Pop removes from it, and nothing
// else mutates it.
type Historic interface {
	Patchwork
	History() *History
}
