package pack

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"go.uber.org/zap"
)

// Decoder unpacks messages into Go values. The zero value is ready to use.
type Decoder struct {
	// MaxContainerLen caps the element count of any string, slice, map or
	// set read from the wire. Zero leaves only the bound implied by the
	// bytes available.
	MaxContainerLen int
}

var defaultDecoder Decoder

// DeserializeTo decodes one message into the values pointed to by outs.
// The outputs are left untouched when an error is returned.
func DeserializeTo(data []byte, outs ...any) error {
	_, err := defaultDecoder.DeserializeToN(data, outs...)
	return err
}

// DeserializeToN is DeserializeTo that also reports how many bytes the
// message occupied.
func DeserializeToN(data []byte, outs ...any) (int, error) {
	return defaultDecoder.DeserializeToN(data, outs...)
}

// Deserialize decodes a message holding a single T.
func Deserialize[T any](data []byte) (T, error) {
	var v T
	err := DeserializeTo(data, &v)
	return v, err
}

// GetField decodes only field index of a message holding a single record
// T, skipping the fields before it.
func GetField[T, F any](data []byte, index int) (F, error) {
	var out F

	p, err := planFor(reflect.TypeFor[T]())
	if err != nil {
		return out, err
	}
	if p.kind != KindRecord {
		return out, newError(OpDecode, ErrInvalidArgument, "%s is not a record", p.typ)
	}
	if index < 0 || index >= len(p.fields) {
		return out, newError(OpDecode, ErrInvalidArgument, "field index %d out of range for %s", index, p.typ)
	}

	target := p.fields[index]
	if want := reflect.TypeFor[F](); target.typ != want {
		return out, newError(OpDecode, ErrInvalidArgument, "field %s is %s, not %s", target.name, target.typ, want)
	}

	m, err := messageFor([]reflect.Type{p.typ})
	if err != nil {
		return out, err
	}

	u, err := defaultDecoder.open(data, m)
	if err != nil {
		return out, err
	}

	for _, f := range p.fields[:index] {
		if err := u.unpack(f.plan, reflect.Value{}); err != nil {
			return out, withPath(err, f.name)
		}
	}

	v := reflect.New(target.typ).Elem()
	if err := u.unpack(target.plan, v); err != nil {
		return out, withPath(err, target.name)
	}
	return v.Interface().(F), nil
}

func (d *Decoder) DeserializeTo(data []byte, outs ...any) error {
	_, err := d.DeserializeToN(data, outs...)
	return err
}

func (d *Decoder) DeserializeToN(data []byte, outs ...any) (int, error) {
	ptrs := make([]reflect.Value, len(outs))
	types := make([]reflect.Type, len(outs))
	for i, o := range outs {
		rv := reflectValueOf(o)
		if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
			return 0, newError(OpDecode, ErrInvalidArgument, "output %d is not a non-nil pointer", i)
		}
		ptrs[i] = rv
		types[i] = rv.Type().Elem()
	}

	m, err := messageFor(types)
	if err != nil {
		return 0, err
	}

	u, err := d.open(data, m)
	if err != nil {
		return 0, err
	}

	vals := make([]reflect.Value, len(m.args))
	for i, p := range m.args {
		vals[i] = reflect.New(p.typ).Elem()
		if err := u.unpack(p, vals[i]); err != nil {
			return 0, withPath(err, "arg"+strconv.Itoa(i))
		}
	}

	for i, v := range vals {
		ptrs[i].Elem().Set(v)
	}
	return u.consumed(), nil
}

// open checks the message header against m and returns an unpacker
// positioned at the payload and bounded by the stored total length.
func (d *Decoder) open(data []byte, m *messagePlan) (*unpacker, error) {
	if len(data) < typeCodeSize {
		return nil, shortBuffer(OpDecode, typeCodeSize, len(data))
	}

	code := binary.LittleEndian.Uint32(data)
	if !SchemaCompatible(code, m.code) {
		Logger().Debug("schema mismatch",
			zap.Uint32("stored", code),
			zap.Uint32("expected", m.code))
		return nil, newError(OpDecode, ErrInvalidArgument, "type code %#08x, want %#08x", code, m.code)
	}

	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	u := &unpacker{b: data, off: h.PayloadOffset, max: d.MaxContainerLen}
	if h.Compatible {
		u.b = data[:h.TotalLength]
		u.bounded = true
	}
	return u, nil
}

// unpacker walks one message. A zero reflect.Value destination selects skip
// mode: the bytes are consumed and checked but nothing is materialized.
type unpacker struct {
	b       []byte
	off     int
	max     int
	bounded bool
}

// consumed is the stored total length when the message carries one, since
// a newer writer may have appended fields this reader does not know.
func (u *unpacker) consumed() int {
	if u.bounded {
		return len(u.b)
	}
	return u.off
}

func (u *unpacker) remaining() int {
	return len(u.b) - u.off
}

func (u *unpacker) take(n int) ([]byte, error) {
	if n > u.remaining() {
		return nil, shortBuffer(OpDecode, n, u.remaining())
	}
	s := u.b[u.off : u.off+n]
	u.off += n
	return s, nil
}

// count reads a 4-byte element count and checks it against the bytes left,
// given the smallest wire width of one element.
func (u *unpacker) count(minElem int) (int, error) {
	s, err := u.take(countSize)
	if err != nil {
		return 0, err
	}

	n := uint64(binary.LittleEndian.Uint32(s))
	if u.max > 0 && n > uint64(u.max) {
		return 0, newError(OpDecode, ErrNoBufferSpace, "count %d exceeds limit %d", n, u.max)
	}
	if minElem > 0 && n > uint64(u.remaining()/minElem) {
		return 0, newError(OpDecode, ErrNoBufferSpace, "count %d cannot fit in %d bytes", n, u.remaining())
	}
	if n > math.MaxInt32 && strconv.IntSize == 32 {
		return 0, newError(OpDecode, ErrNoBufferSpace, "count %d too large", n)
	}
	return int(n), nil
}

func (u *unpacker) unpack(p *typePlan, v reflect.Value) error {
	if !v.IsValid() && p.fixed >= 0 {
		_, err := u.take(p.fixed)
		return err
	}

	switch p.kind {
	case KindMonostate:
		return nil

	case KindBool, KindChar, KindInt8, KindUInt8, KindInt16, KindUInt16,
		KindInt32, KindUInt32, KindInt64, KindUInt64, KindFloat32, KindFloat64:
		s, err := u.take(p.fixed)
		if err != nil {
			return err
		}
		decodeScalar(s, p.kind, v)
		return nil

	case KindString:
		n, err := u.count(1)
		if err != nil {
			return err
		}
		s, _ := u.take(n)
		if v.IsValid() {
			v.SetString(string(s))
		}
		return nil

	case KindContainer:
		return u.unpackContainer(p, v)

	case KindArray:
		for i := 0; i < p.length; i++ {
			if err := u.unpack(p.elem, indexOf(v, i)); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
		return nil

	case KindMap, KindSet:
		return u.unpackMap(p, v)

	case KindOptional:
		return u.unpackOptional(p, v)

	case KindVariant:
		s, err := u.take(variantTagSize)
		if err != nil {
			return err
		}
		i := int(s[0])
		if i >= len(p.alts) {
			return newError(OpDecode, ErrInvalidArgument, "variant index %d out of range for %d alternatives", i, len(p.alts))
		}
		if !v.IsValid() {
			return u.unpack(p.alts[i], reflect.Value{})
		}
		av := reflect.New(p.alts[i].typ).Elem()
		if err := u.unpack(p.alts[i], av); err != nil {
			return err
		}
		v.Addr().Interface().(variantSetter).setActive(i, av.Interface())
		return nil

	case KindRecord:
		for _, f := range p.fields {
			if err := u.unpack(f.plan, fieldOf(v, f.index)); err != nil {
				return withPath(err, f.name)
			}
		}
		return nil
	}

	panic(fmt.Sprintf("pack: no decoder for kind %s", p.kind))
}

func (u *unpacker) unpackContainer(p *typePlan, v reflect.Value) error {
	n, err := u.count(p.elem.min)
	if err != nil {
		return err
	}
	if p.elem.min == 0 && p.elem.typ.Size() > 0 && n > maxZeroWidthElems {
		return newError(OpDecode, ErrNoBufferSpace, "%d zero-width elements exceed limit %d", n, maxZeroWidthElems)
	}

	if !v.IsValid() {
		if p.elem.fixed >= 0 {
			_, err := u.take(n * p.elem.fixed)
			return err
		}
		for i := 0; i < n; i++ {
			if err := u.unpack(p.elem, reflect.Value{}); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
		return nil
	}

	if n == 0 {
		return nil
	}

	s := reflect.MakeSlice(p.typ, n, n)
	switch {
	case isByteKind(p.elem.kind):
		raw, _ := u.take(n)
		copy(s.Bytes(), raw)

	case p.elem.fixed == 0:
		// zero-width elements carry no bytes

	default:
		for i := 0; i < n; i++ {
			if err := u.unpack(p.elem, s.Index(i)); err != nil {
				return withPath(err, "["+strconv.Itoa(i)+"]")
			}
		}
	}
	v.Set(s)
	return nil
}

func (u *unpacker) unpackMap(p *typePlan, v reflect.Value) error {
	valuePlan := p.elem
	entryMin := p.key.min
	if valuePlan != nil {
		entryMin += valuePlan.min
	}

	n, err := u.count(entryMin)
	if err != nil {
		return err
	}
	// entries of zero width can only repeat one key
	if entryMin == 0 && n > 1 {
		n = 1
	}

	var m reflect.Value
	if v.IsValid() && n > 0 {
		m = reflect.MakeMapWithSize(p.typ, n)
	}

	for i := 0; i < n; i++ {
		var k, val reflect.Value
		if m.IsValid() {
			k = reflect.New(p.typ.Key()).Elem()
			val = reflect.New(p.typ.Elem()).Elem()
		}
		if err := u.unpack(p.key, k); err != nil {
			return withPath(err, "key")
		}
		if valuePlan != nil {
			if err := u.unpack(valuePlan, val); err != nil {
				return withPath(err, "value")
			}
		}
		if m.IsValid() {
			m.SetMapIndex(k, val)
		}
	}

	if m.IsValid() {
		v.Set(m)
	}
	return nil
}

func (u *unpacker) unpackOptional(p *typePlan, v reflect.Value) error {
	// buffers written before a Compatible field existed end where it starts
	if p.compat && u.remaining() == 0 {
		return nil
	}

	s, err := u.take(presenceSize)
	if err != nil {
		return err
	}

	switch s[0] {
	case 0:
		return nil
	case 1:
	default:
		return newError(OpDecode, ErrInvalidArgument, "presence flag %d", s[0])
	}

	if !v.IsValid() {
		return u.unpack(p.elem, reflect.Value{})
	}

	if p.compat {
		if err := u.unpack(p.elem, v.Field(compatValueField)); err != nil {
			return err
		}
		v.Field(compatValidField).SetBool(true)
		return nil
	}

	ptr := reflect.New(p.elem.typ)
	if err := u.unpack(p.elem, ptr.Elem()); err != nil {
		return err
	}
	v.Set(ptr)
	return nil
}

func decodeScalar(s []byte, k Kind, v reflect.Value) {
	switch k {
	case KindBool:
		v.SetBool(s[0] != 0)
	case KindInt8:
		v.SetInt(int64(int8(s[0])))
	case KindChar, KindUInt8:
		v.SetUint(uint64(s[0]))
	case KindInt16:
		v.SetInt(int64(int16(binary.LittleEndian.Uint16(s))))
	case KindUInt16:
		v.SetUint(uint64(binary.LittleEndian.Uint16(s)))
	case KindInt32:
		v.SetInt(int64(int32(binary.LittleEndian.Uint32(s))))
	case KindUInt32:
		v.SetUint(uint64(binary.LittleEndian.Uint32(s)))
	case KindInt64:
		v.SetInt(int64(binary.LittleEndian.Uint64(s)))
	case KindUInt64:
		v.SetUint(binary.LittleEndian.Uint64(s))
	case KindFloat32:
		v.SetFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(s))))
	case KindFloat64:
		v.SetFloat(math.Float64frombits(binary.LittleEndian.Uint64(s)))
	}
}

// fieldOf and indexOf keep skip mode flowing through records and arrays.
func fieldOf(v reflect.Value, i int) reflect.Value {
	if !v.IsValid() {
		return v
	}
	return v.Field(i)
}

func indexOf(v reflect.Value, i int) reflect.Value {
	if !v.IsValid() {
		return v
	}
	return v.Index(i)
}
