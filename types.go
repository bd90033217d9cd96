package pack

import "reflect"

// types with a dedicated wire kind

// Monostate is the empty alternative. It occupies no bytes on the wire.
type Monostate struct{}

// Char is a single byte character, distinct from uint8 in the type literal.
type Char byte

// Compatible is a field that may be missing on the wire. A reader built
// before the field was added skips it; a reader built after decodes it as
// absent from buffers that predate it.
//
// Compatible fields must be the trailing fields of the last top-level
// argument (or of a record nested last inside it), and never the first
// field of a nested record.
type Compatible[T any] struct {
	Value T
	Valid bool
}

// NewCompatible returns a present Compatible holding v.
func NewCompatible[T any](v T) Compatible[T] {
	return Compatible[T]{Value: v, Valid: true}
}

// Get returns the value and whether it is present.
func (c Compatible[T]) Get() (T, bool) {
	return c.Value, c.Valid
}

func (Compatible[T]) compatiblePayload() reflect.Type {
	return reflect.TypeFor[T]()
}

type compatibleField interface {
	compatiblePayload() reflect.Type
}

var (
	monostateType  = reflect.TypeFor[Monostate]()
	charType       = reflect.TypeFor[Char]()
	emptyStruct    = reflect.TypeFor[struct{}]()
	compatibleType = reflect.TypeFor[compatibleField]()
	variantType    = reflect.TypeFor[variant]()
)

// field indexes inside Compatible
const (
	compatValueField = 0
	compatValidField = 1
)
