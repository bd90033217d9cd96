package pack

import "io"

// A Stream reads messages stored back to back in one buffer, as repeated
// calls to Append produce them.
type Stream struct {
	Decoder

	buf   []byte
	off   int
	count int
}

// NewStream returns a stream reading b from the start.
func NewStream(b []byte) *Stream {
	return &Stream{buf: b}
}

// Next decodes the next message into outs and advances past it. It returns
// io.EOF once the buffer is drained. On any other error the stream does not
// move, so the caller may retry with different outputs.
//
// A message written without Compatible fields stores no length. Reading one
// with outputs that do have Compatible fields only works when it is the last
// message in the stream; otherwise the first byte of the following message
// is taken as the presence flag of the first missing field. Read such
// messages with outputs shaped like the writer's.
func (s *Stream) Next(outs ...any) error {
	if s.off >= len(s.buf) {
		return io.EOF
	}

	n, err := s.DeserializeToN(s.buf[s.off:], outs...)
	if err != nil {
		return err
	}

	s.off += n
	s.count++
	return nil
}

// Skip advances past the next message without decoding it. Only messages
// that store their total length can be skipped blind.
func (s *Stream) Skip() (Header, error) {
	if s.off >= len(s.buf) {
		return Header{}, io.EOF
	}

	h, err := ReadHeader(s.buf[s.off:])
	if err != nil {
		return Header{}, err
	}
	if !h.Compatible {
		return h, newError(OpDecode, ErrInvalidArgument, "message at offset %d has no stored length", s.off)
	}

	s.off += int(h.TotalLength)
	s.count++
	return h, nil
}

// Remaining returns the number of bytes not yet consumed.
func (s *Stream) Remaining() int { return len(s.buf) - s.off }

// Offset returns the position of the next message.
func (s *Stream) Offset() int { return s.off }

// Count returns the number of messages consumed so far.
func (s *Stream) Count() int { return s.count }
