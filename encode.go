package pack

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"slices"
)

func reflectValueOf(v any) reflect.Value {
	rv, ok := v.(reflect.Value)
	if !ok {
		rv = reflect.ValueOf(v)
	}
	return rv
}

// Encoder packs argument lists into messages. The zero value is ready to use.
type Encoder struct {
	// Deterministic sorts map and set keys of ordered kinds, so equal
	// values always give identical bytes.
	Deterministic bool
}

var defaultEncoder Encoder

// NeededSize returns the exact size of the message Serialize would produce.
func NeededSize(args ...any) (int, error) {
	m, vals, err := prepare(args)
	if err != nil {
		return 0, err
	}
	return messageSize(m, vals), nil
}

// SerializeTo writes one message into buf and returns its length. Nothing is
// written when buf is too small.
func SerializeTo(buf []byte, args ...any) (int, error) {
	return defaultEncoder.SerializeTo(buf, args...)
}

// Append appends one message to dst.
func Append(dst []byte, args ...any) ([]byte, error) {
	return defaultEncoder.Append(dst, args...)
}

// Serialize returns a new buffer holding one message.
func Serialize(args ...any) ([]byte, error) {
	return defaultEncoder.Serialize(args...)
}

func (e *Encoder) SerializeTo(buf []byte, args ...any) (int, error) {
	m, vals, err := prepare(args)
	if err != nil {
		return 0, err
	}

	needed := messageSize(m, vals)
	if needed > len(buf) {
		return 0, shortBuffer(OpEncode, needed, len(buf))
	}

	b := e.pack(buf[:0], m, vals, needed)
	return len(b), nil
}

func (e *Encoder) Append(dst []byte, args ...any) ([]byte, error) {
	m, vals, err := prepare(args)
	if err != nil {
		return dst, err
	}

	needed := messageSize(m, vals)
	return e.pack(slices.Grow(dst, needed), m, vals, needed), nil
}

func (e *Encoder) Serialize(args ...any) ([]byte, error) {
	m, vals, err := prepare(args)
	if err != nil {
		return nil, err
	}

	needed := messageSize(m, vals)
	return e.pack(make([]byte, 0, needed), m, vals, needed), nil
}

func prepare(args []any) (*messagePlan, []reflect.Value, error) {
	vals := make([]reflect.Value, len(args))
	types := make([]reflect.Type, len(args))
	for i, a := range args {
		rv := reflectValueOf(a)
		if !rv.IsValid() {
			return nil, nil, newError(OpEncode, ErrInvalidArgument, "argument %d is nil", i)
		}
		vals[i] = rv
		types[i] = rv.Type()
	}

	m, err := messageFor(types)
	if err != nil {
		return nil, nil, err
	}
	return m, vals, nil
}

func messageSize(m *messagePlan, vals []reflect.Value) int {
	size := m.headerSize()
	for i, p := range m.args {
		size += sizeOf(p, vals[i])
	}
	return size
}

func (e *Encoder) pack(b []byte, m *messagePlan, vals []reflect.Value, total int) []byte {
	b = binary.LittleEndian.AppendUint32(b, m.code)
	if m.compat {
		b = binary.LittleEndian.AppendUint64(b, uint64(total))
	}

	for i, p := range m.args {
		b = e.encode(b, p, vals[i])
	}
	return b
}

func (e *Encoder) encode(b []byte, p *typePlan, v reflect.Value) []byte {
	switch p.kind {
	case KindMonostate:
		return b

	case KindBool, KindChar, KindInt8, KindUInt8, KindInt16, KindUInt16,
		KindInt32, KindUInt32, KindInt64, KindUInt64, KindFloat32, KindFloat64:
		return encodeScalar(b, p.kind, v)

	case KindString:
		b = encodeCount(b, v.Len())
		return append(b, v.String()...)

	case KindContainer:
		n := v.Len()
		b = encodeCount(b, n)
		if isByteKind(p.elem.kind) {
			return append(b, v.Bytes()...)
		}
		return e.encodeElems(b, p.elem, v, n)

	case KindArray:
		return e.encodeElems(b, p.elem, v, p.length)

	case KindSet:
		b = encodeCount(b, v.Len())
		if e.Deterministic {
			for _, ent := range sortedEntries(p.key, v) {
				b = e.encode(b, p.key, ent.key)
			}
			return b
		}
		iter := v.MapRange()
		for iter.Next() {
			b = e.encode(b, p.key, iter.Key())
		}
		return b

	case KindMap:
		b = encodeCount(b, v.Len())
		if e.Deterministic {
			for _, ent := range sortedEntries(p.key, v) {
				b = e.encode(b, p.key, ent.key)
				b = e.encode(b, p.elem, ent.value)
			}
			return b
		}
		iter := v.MapRange()
		for iter.Next() {
			b = e.encode(b, p.key, iter.Key())
			b = e.encode(b, p.elem, iter.Value())
		}
		return b

	case KindOptional:
		payload, ok := optionalPayload(p, v)
		if !ok {
			return append(b, 0)
		}
		b = append(b, 1)
		return e.encode(b, p.elem, payload)

	case KindVariant:
		i, av := variantValue(p, v)
		b = append(b, byte(i))
		return e.encode(b, p.alts[i], av)

	case KindRecord:
		for _, f := range p.fields {
			b = e.encode(b, f.plan, v.Field(f.index))
		}
		return b
	}

	panic(fmt.Sprintf("pack: no encoder for kind %s", p.kind))
}

// encodeElems writes n elements of a slice or array. Scalar elements skip
// the kind dispatch.
func (e *Encoder) encodeElems(b []byte, elem *typePlan, v reflect.Value, n int) []byte {
	if isScalarKind(elem.kind) {
		for i := 0; i < n; i++ {
			b = encodeScalar(b, elem.kind, v.Index(i))
		}
		return b
	}
	for i := 0; i < n; i++ {
		b = e.encode(b, elem, v.Index(i))
	}
	return b
}

func encodeCount(b []byte, n int) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(checkCount(n)))
}

func encodeScalar(b []byte, k Kind, v reflect.Value) []byte {
	switch k {
	case KindBool:
		if v.Bool() {
			return append(b, 1)
		}
		return append(b, 0)
	case KindInt8:
		return append(b, byte(v.Int()))
	case KindChar, KindUInt8:
		return append(b, byte(v.Uint()))
	case KindInt16:
		return binary.LittleEndian.AppendUint16(b, uint16(v.Int()))
	case KindUInt16:
		return binary.LittleEndian.AppendUint16(b, uint16(v.Uint()))
	case KindInt32:
		return binary.LittleEndian.AppendUint32(b, uint32(v.Int()))
	case KindUInt32:
		return binary.LittleEndian.AppendUint32(b, uint32(v.Uint()))
	case KindInt64:
		return binary.LittleEndian.AppendUint64(b, uint64(v.Int()))
	case KindUInt64:
		return binary.LittleEndian.AppendUint64(b, v.Uint())
	case KindFloat32:
		return binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v.Float())))
	case KindFloat64:
		return binary.LittleEndian.AppendUint64(b, math.Float64bits(v.Float()))
	}
	panic(fmt.Sprintf("pack: %s is not a scalar kind", k))
}

func isScalarKind(k Kind) bool {
	return k <= KindFloat64
}

func isByteKind(k Kind) bool {
	return k == KindUInt8 || k == KindChar
}

type mapEntry struct {
	key, value reflect.Value
}

// sortedEntries returns the entries of a map or set, sorted by key when the
// key kind has an order. Other key kinds keep map order. Entries are read
// with MapRange since NaN keys cannot be looked up again.
func sortedEntries(key *typePlan, v reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{key: iter.Key(), value: iter.Value()})
	}

	var compare func(a, b reflect.Value) int
	switch key.kind {
	case KindInt8, KindInt16, KindInt32, KindInt64:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }
	case KindUInt8, KindUInt16, KindUInt32, KindUInt64, KindChar:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) }
	case KindFloat32, KindFloat64:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) }
	case KindString:
		compare = func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) }
	case KindBool:
		compare = func(a, b reflect.Value) int {
			switch {
			case a.Bool() == b.Bool():
				return 0
			case b.Bool():
				return -1
			}
			return 1
		}
	default:
		return entries
	}

	slices.SortFunc(entries, func(a, b mapEntry) int { return compare(a.key, b.key) })
	return entries
}
