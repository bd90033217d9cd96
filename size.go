package pack

import (
	"fmt"
	"math"
	"reflect"
)

// sizeOf returns the number of payload bytes v takes on the wire.
func sizeOf(p *typePlan, v reflect.Value) int {
	if p.fixed >= 0 {
		return p.fixed
	}

	switch p.kind {
	case KindString:
		return countSize + checkCount(v.Len())

	case KindContainer:
		n := checkCount(v.Len())
		if p.elem.fixed >= 0 {
			return countSize + n*p.elem.fixed
		}
		size := countSize
		for i := 0; i < n; i++ {
			size += sizeOf(p.elem, v.Index(i))
		}
		return size

	case KindArray:
		size := 0
		for i := 0; i < p.length; i++ {
			size += sizeOf(p.elem, v.Index(i))
		}
		return size

	case KindSet:
		n := checkCount(v.Len())
		if p.key.fixed >= 0 {
			return countSize + n*p.key.fixed
		}
		size := countSize
		iter := v.MapRange()
		for iter.Next() {
			size += sizeOf(p.key, iter.Key())
		}
		return size

	case KindMap:
		checkCount(v.Len())
		size := countSize
		iter := v.MapRange()
		for iter.Next() {
			size += sizeOf(p.key, iter.Key()) + sizeOf(p.elem, iter.Value())
		}
		return size

	case KindOptional:
		payload, ok := optionalPayload(p, v)
		if !ok {
			return presenceSize
		}
		return presenceSize + sizeOf(p.elem, payload)

	case KindVariant:
		i, av := variantValue(p, v)
		return variantTagSize + sizeOf(p.alts[i], av)

	case KindRecord:
		size := 0
		for _, f := range p.fields {
			size += sizeOf(f.plan, v.Field(f.index))
		}
		return size
	}

	panic(fmt.Sprintf("pack: no size for kind %s", p.kind))
}

// checkCount panics when n does not fit the 4-byte count prefix. Such a
// value cannot be written at all.
func checkCount(n int) int {
	if uint64(n) > math.MaxUint32 {
		panic(fmt.Sprintf("pack: length %d exceeds the 32-bit count limit", n))
	}
	return n
}

// optionalPayload returns the value carried by a pointer or Compatible.
func optionalPayload(p *typePlan, v reflect.Value) (reflect.Value, bool) {
	if p.compat {
		if !v.Field(compatValidField).Bool() {
			return reflect.Value{}, false
		}
		return v.Field(compatValueField), true
	}
	if v.IsNil() {
		return reflect.Value{}, false
	}
	return v.Elem(), true
}

// variantValue returns the active alternative of a variant. A valueless
// variant is corrupt memory, not bad input, and panics.
func variantValue(p *typePlan, v reflect.Value) (int, reflect.Value) {
	i, x := v.Interface().(variant).active()
	if i < 0 || i >= len(p.alts) {
		panic(fmt.Sprintf("pack: valueless variant %s", p.typ))
	}
	if x == nil {
		return i, reflect.Zero(p.alts[i].typ)
	}
	return i, reflect.ValueOf(x)
}
