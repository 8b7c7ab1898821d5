// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package memory

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// Word is the value held by a memory cell or a register.
// Arithmetic on words wraps at 64 bits.
type Word int64

const (
	SIZE         = 0x100 // Number of memory cells.
	STACK_TOP    = 0xF4  // Initial stack pointer.
	ADDR_KEY     = 0xF4  // Most recent key pressed.
	ADDR_VECTORS = 0xF8  // Interrupt vector table.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE":  fmt.Sprintf("%#x", SIZE),
	"STACK_TOP":    fmt.Sprintf("%#x", STACK_TOP),
	"ADDR_KEY":     fmt.Sprintf("%#x", ADDR_KEY),
	"ADDR_VECTORS": fmt.Sprintf("%#x", ADDR_VECTORS),
}

// Memory is the LS-8 RAM.
type Memory struct {
	Verbose bool // Set to log every write.

	Cell [SIZE]Word // Memory contents.
}

// NewMemory creates a cleared memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}

	return
}

// Defines for the memory map.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Reset clears all cells to zero.
func (mem *Memory) Reset() {
	clear(mem.Cell[:])
}

// InRange returns true if addr is a valid cell address.
func InRange(addr Word) bool {
	return addr >= 0 && addr < SIZE
}

// Read returns the cell at addr.
// ok is false, and value is zero, when addr is outside of memory.
func (mem *Memory) Read(addr Word) (value Word, ok bool) {
	if !InRange(addr) {
		return
	}

	return mem.Cell[addr], true
}

// Write stores value at addr.
func (mem *Memory) Write(addr Word, value Word) (err error) {
	if !InRange(addr) {
		err = ErrAddress(addr)
		return
	}

	if mem.Verbose {
		log.Printf("memory: [%02x] = %02x", int64(addr), int64(value))
	}

	mem.Cell[addr] = value

	return
}

// LoadProgram writes words in order, starting at address 0.
// Nothing is written if the program does not fit.
func (mem *Memory) LoadProgram(words []Word) (err error) {
	if len(words) > SIZE {
		err = ErrProgramSize
		return
	}

	if mem.Verbose {
		log.Printf("memory: load %d words", len(words))
	}

	copy(mem.Cell[:], words)

	return
}

// String returns a hex dump of memory, 16 cells per row.
func (mem *Memory) String() string {
	var sb strings.Builder

	for row := 0; row < SIZE; row += 16 {
		fmt.Fprintf(&sb, "%02X:", row)
		for _, cell := range mem.Cell[row : row+16] {
			fmt.Fprintf(&sb, " %02X", int64(cell))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
