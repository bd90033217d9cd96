package pack

import "encoding/binary"

// Header is the fixed part of a message, readable without knowing the
// argument types.
type Header struct {
	TypeCode   uint32
	Compatible bool
	// TotalLength is the size of the whole message, header included. It is
	// stored only when Compatible is set and is zero otherwise.
	TotalLength   uint64
	PayloadOffset int
}

// ReadHeader parses the header at the start of b.
func ReadHeader(b []byte) (Header, error) {
	if len(b) < typeCodeSize {
		return Header{}, shortBuffer(OpDecode, typeCodeSize, len(b))
	}

	h := Header{
		TypeCode:      binary.LittleEndian.Uint32(b),
		PayloadOffset: typeCodeSize,
	}
	if h.TypeCode&compatBit == 0 {
		return h, nil
	}

	h.Compatible = true
	if len(b) < compatHeaderSize {
		return Header{}, shortBuffer(OpDecode, compatHeaderSize, len(b))
	}

	h.TotalLength = binary.LittleEndian.Uint64(b[typeCodeSize:])
	if h.TotalLength < compatHeaderSize || h.TotalLength > uint64(len(b)) {
		return Header{}, newError(OpDecode, ErrNoBufferSpace, "total length %d outside [%d, %d]", h.TotalLength, compatHeaderSize, len(b))
	}
	h.PayloadOffset = compatHeaderSize

	return h, nil
}
