// Package fuzzcheck holds the document schema and the round-trip oracle
// shared by the fuzz tests and the dmfuzz command.
package fuzzcheck

import (
	"math/rand"
	"slices"

	"github.com/dmtypes/pack"
)

// V is the variant carried by S.
type V = pack.Variant3[int32, string, pack.Monostate]

// S exercises every wire kind. R is the trailing Compatible field.
type S struct {
	A int
	B string
	C float64
	D bool
	E uint8
	F []byte
	G V
	H map[string]int64
	I map[string]string
	J []S1
	K []string
	L S1
	M *S1
	N *int
	O **int
	P map[uint16]struct{}
	Q [3]int16
	T pack.Char
	R pack.Compatible[S1]
}

type S1 struct {
	A int
	B string
}

const letters = "abcdefghijklmnopqrstuvwxyz0123456789"

func randString(r *rand.Rand) string {
	b := make([]byte, r.Intn(12))
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}

func randS1(r *rand.Rand) S1 {
	return S1{A: r.Int() - r.Int(), B: randString(r)}
}

// Random builds a document with every optional part present or absent at
// random.
func Random(r *rand.Rand) S {
	s := S{
		A: r.Int() - r.Int(),
		B: randString(r),
		C: r.NormFloat64(),
		D: r.Intn(2) == 1,
		E: uint8(r.Intn(256)),
		L: randS1(r),
		Q: [3]int16{int16(r.Intn(1 << 16)), int16(r.Intn(1 << 16)), int16(r.Intn(1 << 16))},
		T: pack.Char(letters[r.Intn(len(letters))]),
	}

	if n := r.Intn(8); n > 0 {
		s.F = make([]byte, n)
		r.Read(s.F)
	}

	switch r.Intn(3) {
	case 0:
		s.G.SetA(r.Int31())
	case 1:
		s.G.SetB(randString(r))
	case 2:
		s.G.SetC(pack.Monostate{})
	}

	if n := r.Intn(4); n > 0 {
		s.H = make(map[string]int64, n)
		s.I = make(map[string]string, n)
		for i := 0; i < n; i++ {
			s.H[randString(r)] = r.Int63()
			s.I[randString(r)] = randString(r)
		}
	}

	for i := r.Intn(4); i > 0; i-- {
		s.J = append(s.J, randS1(r))
		s.K = append(s.K, randString(r))
	}

	if r.Intn(2) == 1 {
		m := randS1(r)
		s.M = &m
	}
	if r.Intn(2) == 1 {
		n := r.Int()
		s.N = &n
		if r.Intn(2) == 1 {
			o := s.N
			s.O = &o
		}
	}

	if n := r.Intn(5); n > 0 {
		s.P = make(map[uint16]struct{}, n)
		for i := 0; i < n; i++ {
			s.P[uint16(r.Intn(1<<16))] = struct{}{}
		}
	}

	if r.Intn(2) == 1 {
		s.R = pack.NewCompatible(randS1(r))
	}

	return s
}

// Mutate returns a copy of b with a few bytes flipped, dropped or
// duplicated. The type code is left alone so the decoder gets past it.
func Mutate(r *rand.Rand, b []byte) []byte {
	out := append([]byte(nil), b...)
	if len(out) <= 4 {
		return out
	}

	for i := r.Intn(3) + 1; i > 0 && len(out) > 4; i-- {
		pos := 4 + r.Intn(len(out)-4)
		switch r.Intn(3) {
		case 0:
			out[pos] ^= byte(1 << r.Intn(8))
		case 1:
			out = slices.Delete(out, pos, pos+1)
		case 2:
			out = slices.Insert(out, pos, out[pos])
		}
	}
	return out
}
