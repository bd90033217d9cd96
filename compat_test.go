package pack

import (
	"encoding/binary"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reader schema before Note was added
type withoutNote struct {
	ID int32
}

type withNote struct {
	ID   int32
	Note Compatible[string]
}

type withNoteAndTags struct {
	ID   int32
	Note Compatible[string]
	Tags Compatible[[]string]
}

func TestCompatibleWire(t *testing.T) {
	b, err := Serialize(withNote{ID: 7, Note: NewCompatible("hi")})
	require.NoError(t, err)
	require.Len(t, b, 4+8+4+1+4+2)

	code := binary.LittleEndian.Uint32(b)
	assert.Equal(t, uint32(1), code&1)
	assert.Equal(t, uint64(len(b)), binary.LittleEndian.Uint64(b[4:]))

	empty, err := Serialize(withNote{ID: 7})
	require.NoError(t, err)
	require.Len(t, empty, 4+8+4+1)
	assert.Equal(t, byte(0), empty[len(empty)-1])
}

func TestCompatibleCodes(t *testing.T) {
	oldCode, err := TypeCodeFor[withoutNote]()
	require.NoError(t, err)
	newCode, err := TypeCodeFor[withNote]()
	require.NoError(t, err)
	newerCode, err := TypeCodeFor[withNoteAndTags]()
	require.NoError(t, err)

	assert.Equal(t, uint32(0), oldCode&1)
	assert.Equal(t, uint32(1), newCode&1)
	assert.True(t, SchemaCompatible(oldCode, newCode))
	assert.True(t, SchemaCompatible(newCode, newerCode))
	assert.Equal(t, newCode, newerCode)

	lit, err := TypeLiteral(reflect.TypeFor[withNote]())
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(KindRecord), byte(KindInt32), byte(KindRecordEnd)}, lit)
}

func TestCompatibleOldReaderNewWriter(t *testing.T) {
	b, err := Serialize(withNoteAndTags{
		ID:   11,
		Note: NewCompatible("note"),
		Tags: NewCompatible([]string{"a", "b"}),
	})
	require.NoError(t, err)

	var old withoutNote
	n, err := DeserializeToN(b, &old)
	require.NoError(t, err)
	assert.Equal(t, int32(11), old.ID)
	assert.Equal(t, len(b), n)

	var mid withNote
	n, err = DeserializeToN(b, &mid)
	require.NoError(t, err)
	assert.Equal(t, withNote{ID: 11, Note: NewCompatible("note")}, mid)
	assert.Equal(t, len(b), n)
}

func TestCompatibleNewReaderOldWriter(t *testing.T) {
	b, err := Serialize(withoutNote{ID: 5})
	require.NoError(t, err)

	var got withNoteAndTags
	n, err := DeserializeToN(b, &got)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, int32(5), got.ID)

	_, ok := got.Note.Get()
	assert.False(t, ok)
	_, ok = got.Tags.Get()
	assert.False(t, ok)

	b, err = Serialize(withNote{ID: 6, Note: NewCompatible("x")})
	require.NoError(t, err)
	require.NoError(t, DeserializeTo(b, &got))
	note, ok := got.Note.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", note)
	assert.False(t, got.Tags.Valid)
}

func TestCompatibleTopLevelArgs(t *testing.T) {
	b, err := Serialize(int32(1), "s", NewCompatible(2.5))
	require.NoError(t, err)

	var (
		i int32
		s string
	)
	n, err := DeserializeToN(b, &i, &s)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, "s", s)

	var c Compatible[float64]
	require.NoError(t, DeserializeTo(b, &i, &s, &c))
	assert.Equal(t, NewCompatible(2.5), c)
}

func TestCompatibleNestedTail(t *testing.T) {
	type inner struct {
		X    int
		Tail Compatible[int]
	}
	type outer struct {
		A  string
		In inner
	}
	type innerOld struct {
		X int
	}
	type outerOld struct {
		A  string
		In innerOld
	}

	b, err := Serialize(outer{A: "a", In: inner{X: 1, Tail: NewCompatible(9)}})
	require.NoError(t, err)

	got, err := Deserialize[outerOld](b)
	require.NoError(t, err)
	assert.Equal(t, outerOld{A: "a", In: innerOld{X: 1}}, got)

	back, err := Deserialize[outer](b)
	require.NoError(t, err)
	assert.Equal(t, 9, back.In.Tail.Value)
}

func TestCompatiblePlacement(t *testing.T) {
	type notLast struct {
		C Compatible[int]
		A int
	}
	type firstOfNested struct {
		A  int
		In struct {
			C Compatible[int]
		}
	}
	type notTailRecord struct {
		In struct {
			X int
			C Compatible[int]
		}
		A int
	}
	type inSlice struct {
		S []Compatible[int]
	}
	type inPointer struct {
		P *Compatible[int]
	}
	type inMap struct {
		M map[string]Compatible[int]
	}
	type inArray struct {
		A [2]Compatible[int]
	}
	type inVariant struct {
		V Variant2[int, Compatible[int]]
	}
	type nested struct {
		C Compatible[Compatible[int]]
	}

	bad := [][]any{
		{notLast{}},
		{firstOfNested{}},
		{notTailRecord{}},
		{inSlice{}},
		{inPointer{}},
		{inMap{}},
		{inArray{}},
		{inVariant{}},
		{nested{}},
		{withNote{}, int32(1)},
		{NewCompatible(1), 2},
	}
	for _, args := range bad {
		err := Register(args...)
		assert.ErrorIs(t, err, ErrBadCompatible, "%#v", args)

		_, err = Serialize(args...)
		assert.ErrorIs(t, err, ErrBadCompatible, "%#v", args)

		_, err = NeededSize(args...)
		assert.ErrorIs(t, err, ErrBadCompatible, "%#v", args)
	}

	assert.Panics(t, func() { MustRegister(notLast{}) })

	good := [][]any{
		{withNote{}},
		{withNoteAndTags{}},
		{int32(1), withNote{}},
		{int32(1), NewCompatible(1), NewCompatible("x")},
		{reflect.TypeFor[withNote]()},
	}
	for _, args := range good {
		assert.NoError(t, Register(args...), "%#v", args)
	}
	assert.NotPanics(t, func() { MustRegister(withNote{}) })
}
