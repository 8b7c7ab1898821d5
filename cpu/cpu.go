// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"os"

	"github.com/ezrec/ls8/memory"
)

const (
	REGISTERS = 8 // Size of the register bank.
	REG_SP    = 7 // Register reserved as the stack pointer.
)

var _cpu_defines = map[string]string{
	"REGISTERS": fmt.Sprintf("%v", REGISTERS),
	"REG_SP":    fmt.Sprintf("%v", REG_SP),
}

func init() {
	for _, inst := range instructionSet {
		_cpu_defines["OP_"+inst.Opcode.String()] = fmt.Sprintf("%#x", int64(inst.Opcode))
	}
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory // Reference to the memory simulation.

	Pc       memory.Word            // Address of the next instruction.
	Register [REGISTERS]memory.Word // Register bank.
	Output   io.Writer              // Destination of PRN.

	Ticks int // Instructions executed since reset.

	dispatch map[Opcode]Instruction // Opcode to instruction handler.
}

// NewCpu creates a new CPU attached to mem.
func NewCpu(mem *memory.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:   mem,
		Output:   os.Stdout,
		dispatch: make(map[Opcode]Instruction, len(instructionSet)),
	}

	for _, inst := range instructionSet {
		cpu.dispatch[inst.Opcode] = inst
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears r0-r6 and the program counter.
// - Points the stack pointer (r7) at the top of the stack.
// - Zeros the tick counter.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Register[REG_SP] = memory.STACK_TOP
	cpu.Pc = 0
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", int64(cpu.Pc))
	for n, val := range cpu.Register {
		reg := fmt.Sprintf("r%d", n)
		if n == REG_SP {
			reg = "sp"
		}
		text += fmt.Sprintf("% 5s: %02X\n", reg, int64(val))
	}
	text += fmt.Sprintf("% 5s: %d\n", "ticks", cpu.Ticks)

	return
}

// FetchCode reads the instruction at the program counter.
//
// Both operand words are always read. A program counter outside of
// memory is treated as a halt.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	word, ok := cpu.Memory.Read(cpu.Pc)
	if !ok {
		if cpu.Verbose {
			log.Printf("cpu: pc 0x%x outside of memory", int64(cpu.Pc))
		}
		err = ErrHalted
		return
	}

	code = Code{Pc: cpu.Pc, Opcode: Opcode(word)}
	for n := range code.Operand {
		value, ok := cpu.Memory.Read(cpu.Pc + memory.Word(1+n))
		if !ok {
			break
		}
		code.Operand[n] = value
		code.Present++
	}

	return
}

// Tick executes a single CPU instruction cycle.
// ErrHalted is returned once a HLT is fetched; the program counter is left
// at the HLT.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)

	return
}

// Run ticks the CPU until it halts, or faults.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrHalted) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// argErr names the operand that failed validation.
var argErr = [2]error{ErrOpcodeArg1, ErrOpcodeArg2}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, ErrHalted) {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%02x: %v", int64(code.Pc), code)
	}

	inst, ok := cpu.dispatch[code.Opcode]
	if !ok {
		err = ErrOpcodeUnsupported
		return
	}

	if code.Present < len(inst.Operands) {
		err = ErrOperandMissing
		return
	}

	for n, kind := range inst.Operands {
		if kind != OPERAND_REG {
			continue
		}
		reg := code.Operand[n]
		if reg < 0 || reg >= REGISTERS {
			err = errors.Join(ErrRegisterInvalid, argErr[n])
			return
		}
	}

	err = inst.Exec(cpu, code.Operand[0], code.Operand[1])
	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// opHlt stops the fetch loop. The program counter is not advanced.
func (cpu *Cpu) opHlt(a, b memory.Word) (err error) {
	return ErrHalted
}

// opLdi loads the immediate b into register a.
func (cpu *Cpu) opLdi(a, b memory.Word) (err error) {
	cpu.Register[a] = b
	cpu.Pc += 3
	return
}

// opPrn prints register a in decimal.
func (cpu *Cpu) opPrn(a, b memory.Word) (err error) {
	_, err = fmt.Fprintf(cpu.Output, "%d\n", int64(cpu.Register[a]))
	if err != nil {
		err = errors.Join(ErrOutput, err)
		return
	}
	cpu.Pc += 2
	return
}

// opPush decrements the stack pointer, then stores register a at it.
// PUSH SP stores the decremented stack pointer.
func (cpu *Cpu) opPush(a, b memory.Word) (err error) {
	sp := cpu.Register[REG_SP] - 1
	value := cpu.Register[a]
	if a == REG_SP {
		value = sp
	}
	err = cpu.Memory.Write(sp, value)
	if err != nil {
		err = errors.Join(ErrStackOverflow, err)
		return
	}
	cpu.Register[REG_SP] = sp
	cpu.Pc += 2
	return
}

// opPop loads register a from the stack pointer, then increments it.
func (cpu *Cpu) opPop(a, b memory.Word) (err error) {
	value, ok := cpu.Memory.Read(cpu.Register[REG_SP])
	if !ok {
		err = ErrStackEmpty
		return
	}
	cpu.Register[a] = value
	cpu.Register[REG_SP] += 1
	cpu.Pc += 2
	return
}

// opCall pushes the address after the CALL, and jumps to register a.
func (cpu *Cpu) opCall(a, b memory.Word) (err error) {
	target := cpu.Register[a]

	sp := cpu.Register[REG_SP] - 1
	err = cpu.Memory.Write(sp, cpu.Pc+2)
	if err != nil {
		err = errors.Join(ErrStackOverflow, err)
		return
	}
	cpu.Register[REG_SP] = sp
	cpu.Pc = target
	return
}

// opRet pops the return address into the program counter.
func (cpu *Cpu) opRet(a, b memory.Word) (err error) {
	target, ok := cpu.Memory.Read(cpu.Register[REG_SP])
	if !ok {
		err = ErrStackEmpty
		return
	}
	cpu.Register[REG_SP] += 1
	cpu.Pc = target
	return
}

// opAdd adds register b to register a.
func (cpu *Cpu) opAdd(a, b memory.Word) (err error) {
	cpu.Register[a] += cpu.Register[b]
	cpu.Pc += 3
	return
}

// opMul multiplies register a by register b.
func (cpu *Cpu) opMul(a, b memory.Word) (err error) {
	cpu.Register[a] *= cpu.Register[b]
	cpu.Pc += 3
	return
}
