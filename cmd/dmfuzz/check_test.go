package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmtypes/pack/internal/fuzzcheck"
)

func TestInputID(t *testing.T) {
	a := inputID([]byte("abc"))
	assert.Equal(t, a, inputID([]byte("abc")))
	assert.NotEqual(t, a, inputID([]byte("abd")))
}

func TestCheckSeeds(t *testing.T) {
	for _, b := range fuzzcheck.Seeds(5, 4) {
		ok, err := check(b)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := check(nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
