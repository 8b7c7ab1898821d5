// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"strings"

	"github.com/ezrec/ls8/memory"
)

// Opcode is the instruction word tag.
type Opcode memory.Word

//go:generate go tool stringer -linecomment -type=Opcode
const (
	HLT  = Opcode(0b0000_0001) // HLT
	RET  = Opcode(0b0001_0001) // RET
	PUSH = Opcode(0b0100_0101) // PUSH
	POP  = Opcode(0b0100_0110) // POP
	PRN  = Opcode(0b0100_0111) // PRN
	CALL = Opcode(0b0101_0000) // CALL
	LDI  = Opcode(0b1000_0010) // LDI
	ADD  = Opcode(0b1010_0000) // ADD
	MUL  = Opcode(0b1010_0010) // MUL
)

// Operand is the kind of an operand word.
type Operand int

const (
	OPERAND_REG = Operand(0) // Register index.
	OPERAND_IMM = Operand(1) // Immediate value.
)

// Handler executes a decoded instruction. It must leave Pc at the next
// instruction to fetch.
type Handler func(cpu *Cpu, a, b memory.Word) error

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Opcode   Opcode
	Operands []Operand
	Exec     Handler
}

// Width returns the number of memory words occupied by the instruction.
func (inst Instruction) Width() memory.Word {
	return memory.Word(1 + len(inst.Operands))
}

// instructionSet is the LS-8 instruction set.
var instructionSet = []Instruction{
	{HLT, nil, (*Cpu).opHlt},
	{RET, nil, (*Cpu).opRet},
	{PUSH, []Operand{OPERAND_REG}, (*Cpu).opPush},
	{POP, []Operand{OPERAND_REG}, (*Cpu).opPop},
	{PRN, []Operand{OPERAND_REG}, (*Cpu).opPrn},
	{CALL, []Operand{OPERAND_REG}, (*Cpu).opCall},
	{LDI, []Operand{OPERAND_REG, OPERAND_IMM}, (*Cpu).opLdi},
	{ADD, []Operand{OPERAND_REG, OPERAND_REG}, (*Cpu).opAdd},
	{MUL, []Operand{OPERAND_REG, OPERAND_REG}, (*Cpu).opMul},
}

// Lookup returns the instruction for an opcode.
func Lookup(op Opcode) (inst Instruction, ok bool) {
	for _, inst = range instructionSet {
		if inst.Opcode == op {
			ok = true
			return
		}
	}

	inst = Instruction{}
	return
}

// LookupMnemonic returns the instruction for a case-insensitive mnemonic.
func LookupMnemonic(name string) (inst Instruction, ok bool) {
	name = strings.ToUpper(name)
	for _, inst = range instructionSet {
		if inst.Opcode.String() == name {
			ok = true
			return
		}
	}

	inst = Instruction{}
	return
}

// Code is a decoded instruction: the opcode at Pc, and the words that follow.
type Code struct {
	Pc      memory.Word    // Address of the opcode.
	Opcode  Opcode         // Opcode word.
	Operand [2]memory.Word // Words at Pc+1 and Pc+2.
	Present int            // Number of operand words inside of memory.
}

// String returns the assembly language representation of this instruction.
func (code Code) String() string {
	inst, ok := Lookup(code.Opcode)
	if !ok {
		return fmt.Sprintf("%v", code.Opcode)
	}

	args := make([]string, 0, len(inst.Operands))
	for n, kind := range inst.Operands {
		switch {
		case n >= code.Present:
			args = append(args, "?")
		case kind == OPERAND_REG:
			args = append(args, fmt.Sprintf("R%d", int64(code.Operand[n])))
		default:
			args = append(args, fmt.Sprintf("0x%02x", int64(code.Operand[n])))
		}
	}

	if len(args) == 0 {
		return code.Opcode.String()
	}

	return code.Opcode.String() + " " + strings.Join(args, ",")
}
