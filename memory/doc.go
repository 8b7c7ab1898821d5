// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the 256 word random access memory of the LS-8.
//
// Memory map:
//
//	FF..F8  interrupt vectors
//	F7..F5  reserved
//	F4      key pressed, and the initial stack pointer
//	F3..    stack, growing down
//	..00    program, loaded upward from address 0
package memory
