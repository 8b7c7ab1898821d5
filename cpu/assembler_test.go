// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/memory"
)

func doAssemble(t *testing.T, asm *Assembler, program []string) (binary []memory.Word) {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	binary = prog.Binary()
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerMult(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"; mult.asm",
		"LDI R0, 8",
		"LDI R1,9",
		"MUL R0 R1",
		"PRN R0   # print 72",
		"HLT",
	}

	binary := doAssemble(t, asm, program)
	assert.Equal([]memory.Word{
		w(LDI), 0, 8,
		w(LDI), 1, 9,
		w(MUL), 0, 1,
		w(PRN), 0,
		w(HLT),
	}, binary)

	assert.Len(asm.Lines, 5)
	assert.Equal(Line{LineNo: 4, Addr: 6, Words: []string{"MUL", "R0", "R1"},
		Codes: []memory.Word{w(MUL), 0, 1}}, asm.Lines[2])
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"        LDI R1, MULT2PRINT ; forward reference",
		"        LDI R0, 10",
		"        CALL R1",
		"        HLT",
		"MULT2PRINT:",
		"        ADD R0, R0",
		"        PRN R0",
		"        RET",
		"BACK:   LDI R2, BACK",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(9, asm.Label["MULT2PRINT"])
	assert.Equal(15, asm.Label["BACK"])

	assert.Equal([]memory.Word{
		w(LDI), 1, 9,
		w(LDI), 0, 10,
		w(CALL), 1,
		w(HLT),
		w(ADD), 0, 0,
		w(PRN), 0,
		w(RET),
		w(LDI), 2, 15,
	}, prog.Binary())

	dbg := prog.Debug(9)
	assert.Equal(6, dbg.LineNo)
	assert.Equal(map[int]string{2: "MULT2PRINT"}, prog.Lines[0].Links)
	assert.Nil(prog.Lines[1].Links)
}

func TestAssemblerValues(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("STACK_TOP", "0xf4")

	program := []string{
		".equ COUNT 5",
		".equ COUNTER r3",
		"LDI R2, $(COUNT * 3)",
		"LDI COUNTER, 'A'",
		"LDI R4, STACK_TOP",
		"LDI R5, $(STACK_TOP - 1)",
		"ldi sp, 0b1010",
		"push SP",
		"LDI R0, '#' ; hash",
		"LDI R1, ';'",
		"LDI R6, LINENO",
		".byte 1 0x10 ~0",
		"DB -3, 0o17",
	}

	binary := doAssemble(t, asm, program)
	assert.Equal([]memory.Word{
		w(LDI), 2, 15,
		w(LDI), 3, 'A',
		w(LDI), 4, 0xf4,
		w(LDI), 5, 0xf3,
		w(LDI), 7, 10,
		w(PUSH), 7,
		w(LDI), 0, '#',
		w(LDI), 1, ';',
		w(LDI), 6, 11,
		1, 0x10, -1,
		-3, 0o17,
	}, binary)
}

func TestAssemblerExpressionLabel(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"START: LDI R0, 1",
		"       LDI R1, $(START + 3)",
		"       HLT",
	}

	binary := doAssemble(t, asm, program)
	assert.Equal([]memory.Word{w(LDI), 0, 1, w(LDI), 1, 3, w(HLT)}, binary)
}

func TestAssemblerByteLabels(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"TABLE: .byte TABLE, 7, AFTER",
		"       DB AFTER",
		"AFTER: HLT",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal([]memory.Word{0, 7, 4, 4, w(HLT)}, prog.Binary())
	assert.Equal(map[int]string{0: "TABLE", 2: "AFTER"}, prog.Lines[0].Links)
	assert.Equal(map[int]string{0: "AFTER"}, prog.Lines[1].Links)
}

func TestAssemblerExpressionForward(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	// Expressions are evaluated as their line is read.
	prog, err := asm.Parse(strings.NewReader("LDI R0, $(LATER + 1)\nLATER: HLT"))
	assert.Nil(prog)
	assert.Error(err)

	var syn *ErrSyntax
	assert.True(errors.As(err, &syn))
	if syn != nil {
		assert.Equal(1, syn.LineNo)
	}

	// A plain label operand is linked after the last line.
	binary := doAssemble(t, asm, []string{"LDI R0, LATER", "LATER: HLT"})
	assert.Equal([]memory.Word{w(LDI), 0, 3, w(HLT)}, binary)
}

func TestAssemblerReparse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	first := doAssemble(t, asm, []string{"X: LDI R0, X", "HLT"})
	second := doAssemble(t, asm, []string{"HLT", "X: LDI R0, X"})

	assert.Equal([]memory.Word{w(LDI), 0, 0, w(HLT)}, first)
	assert.Equal([]memory.Word{w(HLT), w(LDI), 0, 1}, second)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		lineno  int
		err     error
	}){
		{"invalid", []string{"HLT", "FOO R0"}, 2, ErrInstructionInvalid},
		{"missing", []string{"LDI R0"}, 1, ErrOpcodeMissing},
		{"extra", []string{"PRN R0, R1"}, 1, ErrOpcodeExtraArgs},
		{"extra_hlt", []string{"HLT 0"}, 1, ErrOpcodeExtraArgs},
		{"register", []string{"PRN R8"}, 1, ErrRegisterInvalid},
		{"register_imm", []string{"ADD R0, 3"}, 1, ErrRegisterInvalid},
		{"equ_syntax", []string{".equ A"}, 1, ErrEquateSyntax},
		{"equ_duplicate", []string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{"label_duplicate", []string{"X:", "HLT", "X: HLT"}, 3, ErrLabelDuplicate},
		{"label_missing", []string{"HLT", "LDI R0, NOWHERE", "HLT"}, 2, ErrLabelMissing("NOWHERE")},
		{"number", []string{"LDI R0, 12abc"}, 1, ErrParseNumber("12abc")},
		{"byte_empty", []string{".byte"}, 1, ErrOpcodeMissing},
		{"byte_number", []string{"DB 1 2x"}, 1, ErrParseNumber("2x")},
		{"byte_label_missing", []string{"HLT", "DB 1 NOWHERE"}, 2, ErrLabelMissing("NOWHERE")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syn *ErrSyntax
		assert.True(errors.As(err, &syn), entry.name)
		if syn != nil {
			assert.Equal(entry.lineno, syn.LineNo, entry.name)
		}
	}
}

func TestAssemblerExpressionError(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	for _, text := range []string{"LDI R0, $(1 +)", "LDI R0, $(UNKNOWN)", `LDI R0, $("x")`} {
		prog, err := asm.Parse(strings.NewReader(text))
		assert.Nil(prog, text)
		assert.Error(err, text)

		var syn *ErrSyntax
		assert.True(errors.As(err, &syn), text)
	}
}

func TestAssemblerTooLarge(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	line := "DB " + strings.Repeat("0 ", 16)
	var program []string
	for range memory.SIZE / 16 {
		program = append(program, line)
	}

	binary := doAssemble(t, asm, program)
	assert.Len(binary, memory.SIZE)

	program = append(program, "HLT")
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.Nil(prog)
	assert.ErrorIs(err, memory.ErrProgramSize)
}

func TestStripComment(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		line string
	}){
		{"HLT", "HLT"},
		{"HLT ; stop", "HLT "},
		{"HLT # stop", "HLT "},
		{"LDI R0, '#' # hash", "LDI R0, '#' "},
		{"LDI R0, ';'", "LDI R0, ';'"},
		{"LDI R0, '\\'' ; quote", "LDI R0, '\\'' "},
		{"; all comment", ""},
	}

	for _, entry := range table {
		assert.Equal(entry.line, stripComment(entry.text), entry.text)
	}
}
