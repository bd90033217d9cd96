package pack

import (
	"crypto/md5"
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeLiteral(t *testing.T) {
	type pair struct {
		A int32
		B string
	}

	tests := []struct {
		typ  reflect.Type
		want []byte
	}{
		{reflect.TypeFor[int32](), []byte{0}},
		{reflect.TypeFor[uint32](), []byte{1}},
		{reflect.TypeFor[int](), []byte{2}},
		{reflect.TypeFor[uint](), []byte{3}},
		{reflect.TypeFor[int8](), []byte{4}},
		{reflect.TypeFor[uint8](), []byte{5}},
		{reflect.TypeFor[int16](), []byte{6}},
		{reflect.TypeFor[color](), []byte{6}},
		{reflect.TypeFor[uint16](), []byte{7}},
		{reflect.TypeFor[bool](), []byte{10}},
		{reflect.TypeFor[Char](), []byte{11}},
		{reflect.TypeFor[float32](), []byte{16}},
		{reflect.TypeFor[float64](), []byte{17}},
		{reflect.TypeFor[Monostate](), []byte{250}},
		{reflect.TypeFor[string](), []byte{128, 11}},
		{reflect.TypeFor[[]int32](), []byte{132, 0}},
		{reflect.TypeFor[[]byte](), []byte{132, 5}},
		{reflect.TypeFor[[3]int8](), []byte{129, 4, 0, 0, 0, 0, 0, 0, 0, 3}},
		{reflect.TypeFor[map[string]int64](), []byte{130, 128, 11, 2}},
		{reflect.TypeFor[map[uint16]struct{}](), []byte{131, 7}},
		{reflect.TypeFor[*bool](), []byte{133, 10}},
		{reflect.TypeFor[Variant2[int32, string]](), []byte{134, 0, 128, 11, 255}},
		{reflect.TypeFor[pair](), []byte{253, 0, 128, 11, 255}},
		{reflect.TypeFor[struct{}](), []byte{253, 255}},
		{reflect.TypeFor[Compatible[int]](), []byte{}},
		{reflect.TypeFor[withNote](), []byte{253, 0, 255}},
	}

	for _, tt := range tests {
		got, err := TypeLiteral(tt.typ)
		require.NoError(t, err, "%s", tt.typ)
		assert.Equal(t, tt.want, got, "%s", tt.typ)
	}
}

func TestTypeLiteralIsCopy(t *testing.T) {
	typ := reflect.TypeFor[string]()
	lit, err := TypeLiteral(typ)
	require.NoError(t, err)
	lit[0] = 0

	again, err := TypeLiteral(typ)
	require.NoError(t, err)
	assert.Equal(t, []byte{128, 11}, again)
}

func TestHash32(t *testing.T) {
	sum := md5.Sum([]byte{0})
	assert.Equal(t, binary.BigEndian.Uint32(sum[:4]), hash32([]byte{0}))

	code, err := TypeCodeFor[int32]()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x93b885ac), code)

	code, err = TypeCode()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xd41d8cd8), code)
}

func TestTypeCodeStructural(t *testing.T) {
	type a struct {
		X int32
		Y []string
	}
	type b struct {
		P int32
		Q []string
	}
	type c struct {
		Y []string
		X int32
	}

	ca, err := TypeCodeFor[a]()
	require.NoError(t, err)
	cb, err := TypeCodeFor[b]()
	require.NoError(t, err)
	cc, err := TypeCodeFor[c]()
	require.NoError(t, err)

	assert.Equal(t, ca, cb)
	assert.NotEqual(t, ca, cc)
	assert.Equal(t, uint32(0), ca&1)

	// an argument list is not a record
	args, err := TypeCode(reflect.TypeFor[int32](), reflect.TypeFor[[]string]())
	require.NoError(t, err)
	assert.NotEqual(t, ca, args)

	again, err := TypeCode(reflect.TypeFor[int32](), reflect.TypeFor[[]string]())
	require.NoError(t, err)
	assert.Equal(t, args, again)

	_, err = TypeCode(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSchemaCompatible(t *testing.T) {
	assert.True(t, SchemaCompatible(0x10, 0x11))
	assert.True(t, SchemaCompatible(0x11, 0x11))
	assert.False(t, SchemaCompatible(0x10, 0x12))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "record", KindRecord.String())
	assert.Equal(t, "uint16", KindUInt16.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestPlanWidths(t *testing.T) {
	tests := []struct {
		typ        reflect.Type
		fixed, min int
	}{
		{reflect.TypeFor[int](), 8, 8},
		{reflect.TypeFor[point](), 8, 8},
		{reflect.TypeFor[[4]point](), 32, 32},
		{reflect.TypeFor[Monostate](), 0, 0},
		{reflect.TypeFor[string](), -1, 4},
		{reflect.TypeFor[*int](), -1, 1},
		{reflect.TypeFor[Variant2[int64, Monostate]](), -1, 1},
		{reflect.TypeFor[message](), -1, 12},
		{reflect.TypeFor[withNote](), -1, 4},
	}

	for _, tt := range tests {
		p, err := planFor(tt.typ)
		require.NoError(t, err)
		assert.Equal(t, tt.fixed, p.fixed, "fixed width of %s", tt.typ)
		assert.Equal(t, tt.min, p.min, "min width of %s", tt.typ)
	}
}
