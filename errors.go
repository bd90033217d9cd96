package pack

import (
	"errors"
	"fmt"
	"strings"
)

// Errors
var (
	// ErrNoBufferSpace is returned when a buffer is too small to hold a
	// message, or a stored length runs past the bytes available.
	ErrNoBufferSpace = errors.New("pack: no buffer space")

	// ErrInvalidArgument is returned for a schema mismatch, an out-of-range
	// variant index, a malformed presence flag, or a bad destination.
	ErrInvalidArgument = errors.New("pack: invalid argument")

	ErrUnsupportedType = errors.New("pack: unsupported type")
	ErrBadCompatible   = errors.New("pack: compatible field in disallowed position")
)

// Op names the stage an Error was raised in.
type Op string

const (
	OpCompile Op = "compile"
	OpEncode  Op = "encode"
	OpDecode  Op = "decode"
)

// Error carries the context of a failed operation. Err is always one of the
// package sentinels, so errors.Is works on any returned error.
type Error struct {
	Op     Op
	Err    error
	Path   []string
	Type   string
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())
	b.WriteString(" [")
	b.WriteString(string(e.Op))
	b.WriteByte(']')

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Type != "" {
		b.WriteString(" (")
		b.WriteString(e.Type)
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op Op, sentinel error, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Op: op, Err: sentinel, Detail: detail}
}

func shortBuffer(op Op, need, have int) *Error {
	return newError(op, ErrNoBufferSpace, "need %d bytes, have %d", need, have)
}

func unsupported(typeName, detail string) *Error {
	e := newError(OpCompile, ErrUnsupportedType, detail)
	e.Type = typeName
	return e
}

// withPath prefixes seg to the path of a *Error travelling up the recursion.
func withPath(err error, seg string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Path = append([]string{seg}, e.Path...)
	}
	return err
}
