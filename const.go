package pack

import "strconv"

// Kind is the wire kind of a type: the closed category that decides how its
// values are laid out and how its type literal is rendered.
type Kind uint8

const (
	KindInt32     Kind = 0
	KindUInt32    Kind = 1
	KindInt64     Kind = 2
	KindUInt64    Kind = 3
	KindInt8      Kind = 4
	KindUInt8     Kind = 5
	KindInt16     Kind = 6
	KindUInt16    Kind = 7
	KindBool      Kind = 10
	KindChar      Kind = 11
	KindFloat32   Kind = 16
	KindFloat64   Kind = 17
	KindString    Kind = 128
	KindArray     Kind = 129
	KindMap       Kind = 130
	KindSet       Kind = 131
	KindContainer Kind = 132
	KindOptional  Kind = 133
	KindVariant   Kind = 134
	KindMonostate Kind = 250
	KindRecord    Kind = 253
	KindRecordEnd Kind = 255
)

var kindNames = map[Kind]string{
	KindInt32:     "int32",
	KindUInt32:    "uint32",
	KindInt64:     "int64",
	KindUInt64:    "uint64",
	KindInt8:      "int8",
	KindUInt8:     "uint8",
	KindInt16:     "int16",
	KindUInt16:    "uint16",
	KindBool:      "bool",
	KindChar:      "char",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindArray:     "array",
	KindMap:       "map",
	KindSet:       "set",
	KindContainer: "container",
	KindOptional:  "optional",
	KindVariant:   "variant",
	KindMonostate: "monostate",
	KindRecord:    "record",
	KindRecordEnd: "record_end",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

const (
	typeCodeSize    = 4
	totalLengthSize = 8
	countSize       = 4 // length prefix of strings and containers
	presenceSize    = 1 // optional / compatible presence flag
	variantTagSize  = 1 // active alternative index

	// compatHeaderSize is the full header when a compatible field is present.
	compatHeaderSize = typeCodeSize + totalLengthSize

	compatBit = uint32(1)

	// maxVariantAlternatives bounds the one-byte alternative index.
	maxVariantAlternatives = 255

	// maxZeroWidthElems caps the count of a container whose elements take
	// no wire bytes but do take memory.
	maxZeroWidthElems = 1 << 16
)
