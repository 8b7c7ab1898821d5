// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrProgramSize = errors.New(f("program too large for memory"))
)

// ErrAddress is returned for an access outside of memory.
type ErrAddress Word

func (ea ErrAddress) Error() string {
	return f("address 0x%02x out of range", int64(ea))
}

func (ea ErrAddress) Is(err error) (ok bool) {
	_, ok = err.(ErrAddress)
	return
}
