// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"iter"

	"github.com/ezrec/ls8/memory"
)

// Line is one source line and the words it generated.
type Line struct {
	LineNo int            // Source line number, from 1.
	Addr   int            // Memory address of the first word.
	Words  []string       // Source words.
	Codes  []memory.Word  // Generated memory words.
	Links  map[int]string // Index into Codes, to the label to patch there.
}

// Program is a listing of source lines, in address order.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug returns the line that generated the word at addr.
// Debug.Line is nil if no line covers addr.
func (prog *Program) Debug(addr memory.Word) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= memory.Word(line.Addr) && addr < memory.Word(line.Addr+len(line.Codes)) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(addr - memory.Word(line.Addr)),
			}
			break
		}
	}

	return
}

// Size returns the number of memory words spanned by the program.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size = max(size, line.Addr+len(line.Codes))
	}

	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (words []memory.Word) {
	words = make([]memory.Word, prog.Size())
	for addr, code := range prog.Codes() {
		words[addr] = code
	}

	return
}

// Codes iterates over every generated word, by address.
func (prog *Program) Codes() iter.Seq2[memory.Word, memory.Word] {
	return func(yield func(addr memory.Word, code memory.Word) bool) {
		for _, line := range prog.Lines {
			addr := memory.Word(line.Addr)
			for n, code := range line.Codes {
				if !yield(addr+memory.Word(n), code) {
					return
				}
			}
		}
	}
}
