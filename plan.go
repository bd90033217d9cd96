package pack

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// typePlan is the compiled form of a Go type: its wire kind, the plans of
// its components and the facts the size calculator, packer and unpacker
// need without looking at the reflect.Type again.
type typePlan struct {
	id   uint64
	typ  reflect.Type
	kind Kind

	// compat marks a Compatible[T] wrapper; kind is then KindOptional.
	compat bool

	elem   *typePlan // optional payload, array/container element, map value
	key    *typePlan // map and set key
	fields []fieldPlan
	alts   []*typePlan
	length int // array length

	// fixed is the wire width shared by every value of the type, or -1.
	fixed int
	// min is the smallest wire width a value of the type can take.
	min int

	literal []byte

	// hasCompat reports a Compatible somewhere inside the type.
	hasCompat bool
}

type fieldPlan struct {
	field
	plan *typePlan
}

var (
	plans  sync.Map // reflect.Type -> *typePlan
	planID atomic.Uint64
)

// planFor returns the cached plan for t, compiling it on first use.
func planFor(t reflect.Type) (*typePlan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*typePlan), nil
	}

	c := compiler{visiting: make(map[reflect.Type]bool)}
	return c.compile(t)
}

type compiler struct {
	visiting map[reflect.Type]bool
}

func (c *compiler) compile(t reflect.Type) (*typePlan, error) {
	if p, ok := plans.Load(t); ok {
		return p.(*typePlan), nil
	}

	if c.visiting[t] {
		return nil, unsupported(t.String(), "recursive type")
	}
	c.visiting[t] = true
	defer delete(c.visiting, t)

	p, err := c.build(t)
	if err != nil {
		return nil, err
	}

	p.id = planID.Add(1)
	p.literal = typeLiteral(p)

	actual, loaded := plans.LoadOrStore(t, p)
	if !loaded {
		Logger().Debug("compiled type plan",
			zap.Stringer("type", t),
			zap.Stringer("kind", p.kind),
			zap.Int("fixed", p.fixed),
			zap.Binary("literal", p.literal))
	}
	return actual.(*typePlan), nil
}

// build classifies t and compiles its components. The order of the checks
// matters: later, broader categories would swallow earlier ones.
func (c *compiler) build(t reflect.Type) (*typePlan, error) {
	p := &typePlan{typ: t, fixed: -1}

	switch {
	case t == monostateType:
		p.kind = KindMonostate
		p.fixed = 0
		return p, nil

	case t == charType:
		p.kind = KindChar
		p.fixed = 1
		p.min = 1
		return p, nil
	}

	if k, width, ok := scalarKind(t.Kind()); ok {
		p.kind = k
		p.fixed = width
		p.min = width
		return p, nil
	}

	switch {
	case isOwnGeneric(t, "Compatible[") && t.Implements(compatibleType):
		payload := reflect.Zero(t).Interface().(compatibleField).compatiblePayload()
		elem, err := c.compile(payload)
		if err != nil {
			return nil, withPath(err, "Value")
		}
		p.kind = KindOptional
		p.compat = true
		p.elem = elem
		p.hasCompat = true
		return p, nil

	case t.Kind() == reflect.Pointer:
		elem, err := c.compile(t.Elem())
		if err != nil {
			return nil, withPath(err, "*")
		}
		p.kind = KindOptional
		p.elem = elem
		p.min = presenceSize
		p.hasCompat = elem.hasCompat
		return p, nil

	case isOwnGeneric(t, "Variant") && t.Implements(variantType):
		return c.buildVariant(p)

	case t.Kind() == reflect.String:
		p.kind = KindString
		p.min = countSize
		return p, nil

	case t.Kind() == reflect.Array:
		elem, err := c.compile(t.Elem())
		if err != nil {
			return nil, withPath(err, "[]")
		}
		p.kind = KindArray
		p.elem = elem
		p.length = t.Len()
		p.min = p.length * elem.min
		if elem.fixed >= 0 || p.length == 0 {
			p.fixed = p.length * max(elem.fixed, 0)
		}
		p.hasCompat = elem.hasCompat
		return p, nil

	case t.Kind() == reflect.Map:
		key, err := c.compile(t.Key())
		if err != nil {
			return nil, withPath(err, "key")
		}
		p.key = key
		p.min = countSize
		if t.Elem() == emptyStruct {
			p.kind = KindSet
			p.hasCompat = key.hasCompat
			return p, nil
		}
		elem, err := c.compile(t.Elem())
		if err != nil {
			return nil, withPath(err, "value")
		}
		p.kind = KindMap
		p.elem = elem
		p.hasCompat = key.hasCompat || elem.hasCompat
		return p, nil

	case t.Kind() == reflect.Slice:
		elem, err := c.compile(t.Elem())
		if err != nil {
			return nil, withPath(err, "[]")
		}
		p.kind = KindContainer
		p.elem = elem
		p.min = countSize
		p.hasCompat = elem.hasCompat
		return p, nil

	case t.Kind() == reflect.Struct:
		return c.buildRecord(p)
	}

	return nil, unsupported(t.String(), "no wire kind for "+t.Kind().String())
}

func (c *compiler) buildVariant(p *typePlan) (*typePlan, error) {
	alts := reflect.Zero(p.typ).Interface().(variant).alternatives()
	if len(alts) == 0 || len(alts) > maxVariantAlternatives {
		return nil, unsupported(p.typ.String(), "bad alternative count")
	}

	p.kind = KindVariant
	p.alts = make([]*typePlan, len(alts))
	minAlt := -1
	for i, at := range alts {
		ap, err := c.compile(at)
		if err != nil {
			return nil, withPath(err, "alt"+strconv.Itoa(i))
		}
		p.alts[i] = ap
		p.hasCompat = p.hasCompat || ap.hasCompat
		if minAlt < 0 || ap.min < minAlt {
			minAlt = ap.min
		}
	}
	p.min = variantTagSize + minAlt
	return p, nil
}

func (c *compiler) buildRecord(p *typePlan) (*typePlan, error) {
	fields := structFields.Get(p.typ)
	if len(fields) == 0 && p.typ.NumField() > 0 {
		return nil, unsupported(p.typ.String(), "no exported fields to serialize")
	}

	p.kind = KindRecord
	p.fields = make([]fieldPlan, len(fields))
	fixed := 0
	for i, f := range fields {
		fp, err := c.compile(f.typ)
		if err != nil {
			return nil, withPath(err, f.name)
		}
		p.fields[i] = fieldPlan{field: f, plan: fp}
		p.min += fp.min
		p.hasCompat = p.hasCompat || fp.hasCompat
		if fixed >= 0 && fp.fixed >= 0 {
			fixed += fp.fixed
		} else {
			fixed = -1
		}
	}
	p.fixed = fixed
	return p, nil
}

// scalarKind maps the fixed-width reflect kinds. Named types classify as
// their underlying kind, so enums travel as integers.
func scalarKind(k reflect.Kind) (Kind, int, bool) {
	switch k {
	case reflect.Bool:
		return KindBool, 1, true
	case reflect.Int8:
		return KindInt8, 1, true
	case reflect.Uint8:
		return KindUInt8, 1, true
	case reflect.Int16:
		return KindInt16, 2, true
	case reflect.Uint16:
		return KindUInt16, 2, true
	case reflect.Int32:
		return KindInt32, 4, true
	case reflect.Uint32:
		return KindUInt32, 4, true
	case reflect.Int64, reflect.Int:
		return KindInt64, 8, true
	case reflect.Uint64, reflect.Uint:
		return KindUInt64, 8, true
	case reflect.Float32:
		return KindFloat32, 4, true
	case reflect.Float64:
		return KindFloat64, 8, true
	}
	return 0, 0, false
}

// isOwnGeneric reports whether t is an instantiation of one of this
// package's generic types, not a user type embedding one.
func isOwnGeneric(t reflect.Type, prefix string) bool {
	return t.Kind() == reflect.Struct &&
		t.PkgPath() == monostateType.PkgPath() &&
		strings.HasPrefix(t.Name(), prefix)
}
