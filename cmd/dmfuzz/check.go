package main

import (
	"fmt"

	"github.com/dchest/siphash"

	"github.com/dmtypes/pack/internal/fuzzcheck"
)

// keys for input ids; fixed so ids are stable across runs
const (
	idKey0 = 0x646d7061636b6675
	idKey1 = 0x7a7a657273697068
)

func inputID(b []byte) uint64 {
	return siphash.Hash(idKey0, idKey1, b)
}

// check runs the oracle, turning a panic inside the codec into a failure.
func check(b []byte) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = true, fmt.Errorf("panic: %v", r)
		}
	}()
	return fuzzcheck.Check(b)
}
