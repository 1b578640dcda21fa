package strain

import (
	"errors"

	"github.com/strain-format/strain/schema"
)

var (
	// ErrUnknownField reports a field identifier not present in the
	// target structure's schema.
	ErrUnknownField = schema.ErrUnknownField

	// ErrStaleConflict reports that a patch's recorded old value no
	// longer matches the instance's current value for that field.
	ErrStaleConflict = errors.New("stale conflict")

	// ErrEmptyHistory reports a Pop on an instance with no history.
	ErrEmptyHistory = errors.New("empty history")

	// ErrSerialization reports a patch value that cannot be encoded or
	// decoded in the interchange format.
	ErrSerialization = errors.New("serialization error")

	// ErrCombine reports patches that cannot be grouped into one set,
	// such as two patches for the same field with inconsistent base
	// state.
	ErrCombine = errors.New("cannot combine patches")
)
