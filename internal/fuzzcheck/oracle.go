package fuzzcheck

import (
	"math/rand"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dmtypes/pack"
)

// kIndex is the position of S.K among the serialized fields of S.
const kIndex = 10

var cmpOpts = []cmp.Option{
	cmpopts.EquateEmpty(),
	cmpopts.EquateNaNs(),
	cmp.Comparer(func(a, b V) bool {
		if a.Index() != b.Index() {
			return false
		}
		switch a.Index() {
		case 0:
			x, _ := a.A()
			y, _ := b.A()
			return x == y
		case 1:
			x, _ := a.B()
			y, _ := b.B()
			return x == y
		}
		return true
	}),
}

// Diff reports the differences between two documents, or "" when they are
// equal. Nil and empty containers compare equal.
func Diff(a, b S) string {
	return cmp.Diff(a, b, cmpOpts...)
}

// Failure is a broken round trip.
type Failure struct {
	Stage  string
	Detail string
}

func (f *Failure) Error() string {
	return "fuzzcheck: " + f.Stage + ": " + f.Detail
}

var encoder = pack.Encoder{Deterministic: true}

// Check runs the oracle on one input. It reports whether data decoded as an
// S at all; a non-nil error means the codec broke its own contract.
func Check(data []byte) (bool, error) {
	s, err := pack.Deserialize[S](data)
	if err != nil {
		return false, nil
	}

	enc, err := encoder.Serialize(s)
	if err != nil {
		return true, &Failure{Stage: "encode", Detail: err.Error()}
	}

	if n, err := pack.NeededSize(s); err != nil || n != len(enc) {
		return true, &Failure{Stage: "size", Detail: "needed size disagrees with encoded length"}
	}

	s2, err := pack.Deserialize[S](enc)
	if err != nil {
		return true, &Failure{Stage: "decode", Detail: err.Error()}
	}
	if d := Diff(s, s2); d != "" {
		return true, &Failure{Stage: "compare", Detail: d}
	}

	k, err := pack.GetField[S, []string](enc, kIndex)
	if err != nil {
		return true, &Failure{Stage: "field", Detail: err.Error()}
	}
	if d := cmp.Diff(s.K, k, cmpopts.EquateEmpty()); d != "" {
		return true, &Failure{Stage: "field", Detail: d}
	}

	if _, err := pack.Deserialize[S](enc[:len(enc)-1]); err == nil {
		return true, &Failure{Stage: "truncate", Detail: "short message decoded"}
	}

	return true, nil
}

// Seeds returns n encoded random documents, the same ones for a given seed.
func Seeds(seed int64, n int) [][]byte {
	r := rand.New(rand.NewSource(seed))

	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := encoder.Serialize(Random(r))
		if err != nil {
			panic(err)
		}
		out = append(out, b)
	}
	return out
}
