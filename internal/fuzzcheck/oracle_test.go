package fuzzcheck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmtypes/pack"
)

func TestSeedsRoundtrip(t *testing.T) {
	for i, b := range Seeds(1, 64) {
		ok, err := Check(b)
		require.NoError(t, err, "seed %d", i)
		assert.True(t, ok, "seed %d did not decode", i)
	}
}

func TestSeedsAreStable(t *testing.T) {
	assert.Equal(t, Seeds(7, 8), Seeds(7, 8))
}

func TestMutations(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	seeds := Seeds(2, 16)

	for i := 0; i < 2000; i++ {
		in := Mutate(r, seeds[r.Intn(len(seeds))])
		_, err := Check(in)
		require.NoError(t, err, "input %x", in)
	}
}

func TestDiff(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	a := Random(r)
	b := a

	assert.Empty(t, Diff(a, b))

	b.G.SetB("other")
	if a.G.Index() == 1 {
		b.G.SetA(1)
	}
	assert.NotEmpty(t, Diff(a, b))

	var x, y S
	y.K = []string{}
	assert.Empty(t, Diff(x, y))
}

func TestCheckRejectsGarbage(t *testing.T) {
	ok, err := Check([]byte{1, 2, 3})
	assert.False(t, ok)
	assert.NoError(t, err)

	b, err := pack.Serialize(S1{A: 1, B: "x"})
	require.NoError(t, err)

	ok, err = Check(b)
	assert.False(t, ok)
	assert.NoError(t, err)
}

func FuzzCheck(f *testing.F) {
	for _, b := range Seeds(1, 8) {
		f.Add(b)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		if _, err := Check(data); err != nil {
			t.Fatal(err)
		}
	})
}
