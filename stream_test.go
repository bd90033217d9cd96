package pack

import (
	"encoding/binary"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	b, err := Serialize(message{ID: 1})
	require.NoError(t, err)

	h, err := ReadHeader(b)
	require.NoError(t, err)
	assert.False(t, h.Compatible)
	assert.Zero(t, h.TotalLength)
	assert.Equal(t, 4, h.PayloadOffset)
	assert.Equal(t, binary.LittleEndian.Uint32(b), h.TypeCode)

	b, err = Serialize(withNote{ID: 1})
	require.NoError(t, err)

	h, err = ReadHeader(b)
	require.NoError(t, err)
	assert.True(t, h.Compatible)
	assert.Equal(t, uint64(len(b)), h.TotalLength)
	assert.Equal(t, 12, h.PayloadOffset)

	_, err = ReadHeader(b[:3])
	assert.ErrorIs(t, err, ErrNoBufferSpace)
	_, err = ReadHeader(b[:11])
	assert.ErrorIs(t, err, ErrNoBufferSpace)
	_, err = ReadHeader(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrNoBufferSpace)

	binary.LittleEndian.PutUint64(b[4:], 11)
	_, err = ReadHeader(b)
	assert.ErrorIs(t, err, ErrNoBufferSpace)
}

func TestStream(t *testing.T) {
	var buf []byte
	var err error

	buf, err = Append(buf, message{ID: 1, Message: "one"})
	require.NoError(t, err)
	buf, err = Append(buf, withNote{ID: 2, Note: NewCompatible("two")})
	require.NoError(t, err)
	buf, err = Append(buf, withNoteAndTags{ID: 3, Tags: NewCompatible([]string{"t"})})
	require.NoError(t, err)

	s := NewStream(buf)

	var m message
	require.NoError(t, s.Next(&m))
	assert.Equal(t, message{ID: 1, Message: "one"}, m)
	assert.Equal(t, 1, s.Count())

	// wrong schema leaves the stream where it was
	off := s.Offset()
	assert.ErrorIs(t, s.Next(&m), ErrInvalidArgument)
	assert.Equal(t, off, s.Offset())

	var n withNote
	require.NoError(t, s.Next(&n))
	assert.Equal(t, int32(2), n.ID)

	// an older reader steps over the newer message's extra field
	var old withoutNote
	require.NoError(t, s.Next(&old))
	assert.Equal(t, int32(3), old.ID)

	assert.Zero(t, s.Remaining())
	assert.Equal(t, len(buf), s.Offset())
	assert.ErrorIs(t, s.Next(&old), io.EOF)
	assert.Equal(t, 3, s.Count())
}

func TestStreamSkip(t *testing.T) {
	var buf []byte
	var err error

	buf, err = Append(buf, withNote{ID: 1})
	require.NoError(t, err)
	buf, err = Append(buf, int32(2))
	require.NoError(t, err)

	s := NewStream(buf)
	h, err := s.Skip()
	require.NoError(t, err)
	assert.True(t, h.Compatible)

	_, err = s.Skip()
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var i int32
	require.NoError(t, s.Next(&i))
	assert.Equal(t, int32(2), i)

	_, err = s.Skip()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamLimit(t *testing.T) {
	buf, err := Append(nil, []int{1, 2, 3})
	require.NoError(t, err)

	s := NewStream(buf)
	s.MaxContainerLen = 1

	var out []int
	assert.ErrorIs(t, s.Next(&out), ErrNoBufferSpace)
}

func BenchmarkStream(b *testing.B) {
	planets := []planet{
		{Pos: 1, Name: "Mercury", MassEarths: 0.055},
		{Pos: 3, Name: "Earth", MassEarths: 1.0, Satellites: []string{"Moon"}},
		{Pos: 4, Name: "Mars", MassEarths: 0.107, Satellites: []string{"Phobos", "Deimos"}, Ring: &point{}},
	}
	r := rand.New(rand.NewSource(1))

	var buf []byte
	for i := 0; i < 256; i++ {
		var err error
		buf, err = Append(buf, planets[r.Intn(len(planets))])
		if err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s := NewStream(buf)
		var p planet
		for s.Next(&p) == nil {
		}
	}
}

func TestStreamOlderWriter(t *testing.T) {
	var buf []byte
	var err error

	buf, err = Append(buf, withoutNote{ID: 1})
	require.NoError(t, err)
	buf, err = Append(buf, withoutNote{ID: 2})
	require.NoError(t, err)

	// mid-stream, the writer's shape finds the boundary
	s := NewStream(buf)
	var old withoutNote
	require.NoError(t, s.Next(&old))
	assert.Equal(t, int32(1), old.ID)

	// the last message ends the buffer, so the newer shape sees the field
	// as absent
	var n withNote
	require.NoError(t, s.Next(&n))
	assert.Equal(t, withNote{ID: 2}, n)
	assert.Zero(t, s.Remaining())
}
