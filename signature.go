package pack

import (
	"crypto/md5"
	"encoding/binary"
	"reflect"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

// typeLiteral builds the structural signature of a compiled plan from the
// literals of its components. Compatible wrappers contribute nothing.
func typeLiteral(p *typePlan) []byte {
	if p.compat {
		return nil
	}

	b := []byte{byte(p.kind)}

	switch p.kind {
	case KindOptional, KindContainer:
		b = append(b, p.elem.literal...)

	case KindString:
		b = append(b, byte(KindChar))

	case KindSet:
		b = append(b, p.key.literal...)

	case KindMap:
		b = append(b, p.key.literal...)
		b = append(b, p.elem.literal...)

	case KindArray:
		b = append(b, p.elem.literal...)
		b = binary.BigEndian.AppendUint64(b, uint64(p.length))

	case KindVariant:
		for _, a := range p.alts {
			b = append(b, a.literal...)
		}
		b = append(b, byte(KindRecordEnd))

	case KindRecord:
		for _, f := range p.fields {
			b = append(b, f.plan.literal...)
		}
		b = append(b, byte(KindRecordEnd))
	}

	return b
}

// hash32 is the first word of the MD5 digest, read big-endian.
func hash32(b []byte) uint32 {
	sum := md5.Sum(b)
	return binary.BigEndian.Uint32(sum[:4])
}

// messagePlan is what every operation needs for one combination of
// argument types.
type messagePlan struct {
	args   []*typePlan
	code   uint32
	compat bool
}

// header size of messages built from this plan
func (m *messagePlan) headerSize() int {
	if m.compat {
		return compatHeaderSize
	}
	return typeCodeSize
}

var messages sync.Map // *typePlan or string of plan ids -> *messagePlan

func messageFor(types []reflect.Type) (*messagePlan, error) {
	args := make([]*typePlan, len(types))
	for i, t := range types {
		if t == nil {
			return nil, newError(OpCompile, ErrInvalidArgument, "argument %d is nil", i)
		}
		p, err := planFor(t)
		if err != nil {
			return nil, withPath(err, "arg"+strconv.Itoa(i))
		}
		args[i] = p
	}

	var key any
	if len(args) == 1 {
		key = args[0]
	} else {
		b := make([]byte, 0, 8*len(args))
		for _, p := range args {
			b = binary.LittleEndian.AppendUint64(b, p.id)
		}
		key = string(b)
	}

	if m, ok := messages.Load(key); ok {
		return m.(*messagePlan), nil
	}

	compat, err := scanFields(args, argNames(len(args)), true, 0)
	if err != nil {
		return nil, err
	}

	var lit []byte
	for _, p := range args {
		lit = append(lit, p.literal...)
	}

	code := hash32(lit) &^ compatBit
	if compat {
		code |= compatBit
	}

	m := &messagePlan{args: args, code: code, compat: compat}
	actual, loaded := messages.LoadOrStore(key, m)
	if !loaded {
		Logger().Debug("cached message code",
			zap.Int("args", len(args)),
			zap.Uint32("code", code),
			zap.Bool("compatible", compat))
	}
	return actual.(*messagePlan), nil
}

func argNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "arg" + strconv.Itoa(i)
	}
	return names
}

// scanFields checks where Compatible fields sit in a field list and reports
// whether any was found. The argument list is depth 0; the fields of a
// top-level record are depth 1.
func scanFields(ps []*typePlan, names []string, tail bool, depth int) (bool, error) {
	found := false

	for i, p := range ps {
		if !p.hasCompat {
			continue
		}

		if p.compat {
			switch {
			case !tail:
				return false, badCompatible(names[i], "not in the trailing argument")
			case depth >= 2 && i == 0:
				return false, badCompatible(names[i], "first field of a nested record")
			case p.elem.hasCompat:
				return false, badCompatible(names[i], "compatible inside compatible")
			}
			for j := i + 1; j < len(ps); j++ {
				if !ps[j].compat {
					return false, badCompatible(names[i], "followed by non-compatible "+names[j])
				}
			}
			found = true
			continue
		}

		if p.kind != KindRecord {
			return false, badCompatible(names[i], "inside "+p.kind.String())
		}

		sub := make([]*typePlan, len(p.fields))
		subNames := make([]string, len(p.fields))
		for j, f := range p.fields {
			sub[j] = f.plan
			subNames[j] = f.name
		}

		ok, err := scanFields(sub, subNames, tail && i == len(ps)-1, depth+1)
		if err != nil {
			return false, withPath(err, names[i])
		}
		found = found || ok
	}

	return found, nil
}

func badCompatible(name, detail string) *Error {
	e := newError(OpCompile, ErrBadCompatible, detail)
	e.Path = []string{name}
	return e
}

// TypeLiteral returns the structural signature of t.
func TypeLiteral(t reflect.Type) ([]byte, error) {
	p, err := planFor(t)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, p.literal...), nil
}

// TypeCode returns the type code written in front of a message whose
// arguments have the given types.
func TypeCode(types ...reflect.Type) (uint32, error) {
	m, err := messageFor(types)
	if err != nil {
		return 0, err
	}
	return m.code, nil
}

// TypeCodeFor is TypeCode for a single argument type.
func TypeCodeFor[T any]() (uint32, error) {
	return TypeCode(reflect.TypeFor[T]())
}

// SchemaCompatible reports whether two type codes describe the same schema,
// ignoring the compatibility bit.
func SchemaCompatible(a, b uint32) bool {
	return a>>1 == b>>1
}

// Register compiles the plans of the given values' types as one argument
// list, surfacing unsupported types and misplaced Compatible fields before
// first use. reflect.Type arguments are taken as the type itself.
func Register(types ...any) error {
	ts := make([]reflect.Type, len(types))
	for i, v := range types {
		if t, ok := v.(reflect.Type); ok {
			ts[i] = t
			continue
		}
		ts[i] = reflect.TypeOf(v)
	}
	_, err := messageFor(ts)
	return err
}

// MustRegister is like Register but panics on error.
func MustRegister(types ...any) {
	if err := Register(types...); err != nil {
		panic(err)
	}
}
