package pack

import "reflect"

// variant is implemented by the VariantN types. alternatives lists the
// alternative types in declaration order; active returns the index and value
// of the held alternative, or -1 when the variant is valueless.
type variant interface {
	alternatives() []reflect.Type
	active() (int, any)
}

type variantSetter interface {
	setActive(i int, v any)
}

// variantState is shared by every VariantN. The zero value holds the zero
// value of the first alternative.
type variantState struct {
	index uint8
	value any
}

func (s variantState) active(n int) (int, any) {
	if int(s.index) >= n {
		return -1, nil
	}
	return int(s.index), s.value
}

func (s *variantState) setActive(i int, v any) {
	s.index = uint8(i)
	s.value = v
}

func alt[T any](s variantState, i uint8) (T, bool) {
	var zero T
	if s.index != i {
		return zero, false
	}
	if s.value == nil {
		return zero, true
	}
	v, ok := s.value.(T)
	return v, ok
}

func typeList(ts ...reflect.Type) []reflect.Type { return ts }

// Variant2 holds exactly one of A or B.
type Variant2[T0, T1 any] struct{ variantState }

func (v Variant2[T0, T1]) Index() int         { return int(v.index) }
func (v Variant2[T0, T1]) A() (T0, bool)      { return alt[T0](v.variantState, 0) }
func (v Variant2[T0, T1]) B() (T1, bool)      { return alt[T1](v.variantState, 1) }
func (v *Variant2[T0, T1]) SetA(x T0)         { v.setActive(0, x) }
func (v *Variant2[T0, T1]) SetB(x T1)         { v.setActive(1, x) }
func (v Variant2[T0, T1]) active() (int, any) { return v.variantState.active(2) }
func (Variant2[T0, T1]) alternatives() []reflect.Type {
	return typeList(reflect.TypeFor[T0](), reflect.TypeFor[T1]())
}

// Variant3 holds exactly one of A, B or C.
type Variant3[T0, T1, T2 any] struct{ variantState }

func (v Variant3[T0, T1, T2]) Index() int         { return int(v.index) }
func (v Variant3[T0, T1, T2]) A() (T0, bool)      { return alt[T0](v.variantState, 0) }
func (v Variant3[T0, T1, T2]) B() (T1, bool)      { return alt[T1](v.variantState, 1) }
func (v Variant3[T0, T1, T2]) C() (T2, bool)      { return alt[T2](v.variantState, 2) }
func (v *Variant3[T0, T1, T2]) SetA(x T0)         { v.setActive(0, x) }
func (v *Variant3[T0, T1, T2]) SetB(x T1)         { v.setActive(1, x) }
func (v *Variant3[T0, T1, T2]) SetC(x T2)         { v.setActive(2, x) }
func (v Variant3[T0, T1, T2]) active() (int, any) { return v.variantState.active(3) }
func (Variant3[T0, T1, T2]) alternatives() []reflect.Type {
	return typeList(reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// Variant4 holds exactly one of A, B, C or D.
type Variant4[T0, T1, T2, T3 any] struct{ variantState }

func (v Variant4[T0, T1, T2, T3]) Index() int         { return int(v.index) }
func (v Variant4[T0, T1, T2, T3]) A() (T0, bool)      { return alt[T0](v.variantState, 0) }
func (v Variant4[T0, T1, T2, T3]) B() (T1, bool)      { return alt[T1](v.variantState, 1) }
func (v Variant4[T0, T1, T2, T3]) C() (T2, bool)      { return alt[T2](v.variantState, 2) }
func (v Variant4[T0, T1, T2, T3]) D() (T3, bool)      { return alt[T3](v.variantState, 3) }
func (v *Variant4[T0, T1, T2, T3]) SetA(x T0)         { v.setActive(0, x) }
func (v *Variant4[T0, T1, T2, T3]) SetB(x T1)         { v.setActive(1, x) }
func (v *Variant4[T0, T1, T2, T3]) SetC(x T2)         { v.setActive(2, x) }
func (v *Variant4[T0, T1, T2, T3]) SetD(x T3)         { v.setActive(3, x) }
func (v Variant4[T0, T1, T2, T3]) active() (int, any) { return v.variantState.active(4) }
func (Variant4[T0, T1, T2, T3]) alternatives() []reflect.Type {
	return typeList(reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}

// Variant5 holds exactly one of A, B, C, D or E.
type Variant5[T0, T1, T2, T3, T4 any] struct{ variantState }

func (v Variant5[T0, T1, T2, T3, T4]) Index() int         { return int(v.index) }
func (v Variant5[T0, T1, T2, T3, T4]) A() (T0, bool)      { return alt[T0](v.variantState, 0) }
func (v Variant5[T0, T1, T2, T3, T4]) B() (T1, bool)      { return alt[T1](v.variantState, 1) }
func (v Variant5[T0, T1, T2, T3, T4]) C() (T2, bool)      { return alt[T2](v.variantState, 2) }
func (v Variant5[T0, T1, T2, T3, T4]) D() (T3, bool)      { return alt[T3](v.variantState, 3) }
func (v Variant5[T0, T1, T2, T3, T4]) E() (T4, bool)      { return alt[T4](v.variantState, 4) }
func (v *Variant5[T0, T1, T2, T3, T4]) SetA(x T0)         { v.setActive(0, x) }
func (v *Variant5[T0, T1, T2, T3, T4]) SetB(x T1)         { v.setActive(1, x) }
func (v *Variant5[T0, T1, T2, T3, T4]) SetC(x T2)         { v.setActive(2, x) }
func (v *Variant5[T0, T1, T2, T3, T4]) SetD(x T3)         { v.setActive(3, x) }
func (v *Variant5[T0, T1, T2, T3, T4]) SetE(x T4)         { v.setActive(4, x) }
func (v Variant5[T0, T1, T2, T3, T4]) active() (int, any) { return v.variantState.active(5) }
func (Variant5[T0, T1, T2, T3, T4]) alternatives() []reflect.Type {
	return typeList(reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2](),
		reflect.TypeFor[T3](), reflect.TypeFor[T4]())
}

// Variant6 holds exactly one of A, B, C, D, E or F.
type Variant6[T0, T1, T2, T3, T4, T5 any] struct{ variantState }

func (v Variant6[T0, T1, T2, T3, T4, T5]) Index() int         { return int(v.index) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) A() (T0, bool)      { return alt[T0](v.variantState, 0) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) B() (T1, bool)      { return alt[T1](v.variantState, 1) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) C() (T2, bool)      { return alt[T2](v.variantState, 2) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) D() (T3, bool)      { return alt[T3](v.variantState, 3) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) E() (T4, bool)      { return alt[T4](v.variantState, 4) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) F() (T5, bool)      { return alt[T5](v.variantState, 5) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetA(x T0)         { v.setActive(0, x) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetB(x T1)         { v.setActive(1, x) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetC(x T2)         { v.setActive(2, x) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetD(x T3)         { v.setActive(3, x) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetE(x T4)         { v.setActive(4, x) }
func (v *Variant6[T0, T1, T2, T3, T4, T5]) SetF(x T5)         { v.setActive(5, x) }
func (v Variant6[T0, T1, T2, T3, T4, T5]) active() (int, any) { return v.variantState.active(6) }
func (Variant6[T0, T1, T2, T3, T4, T5]) alternatives() []reflect.Type {
	return typeList(reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2](),
		reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5]())
}
