// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the processor, program loader and assembler for the
// LS-8 system.
//
// The CPU consists of a program counter (PC), eight general-purpose registers
// (r0-r7, with r7 as the stack pointer), and a dispatch table that maps each
// opcode to the handler implementing it. Instructions are one opcode word
// followed by zero, one, or two operand words in memory.
//
// Programs are read either as numeric words, one per line (see Loader), or as
// mnemonic source with labels, equates, and compile-time expressions (see
// Assembler).
package cpu
