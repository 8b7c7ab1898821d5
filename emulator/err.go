// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"github.com/ezrec/ls8/memory"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     memory.Word
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d pc 0x%02x %v", err.LineNo, int64(err.Pc), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
