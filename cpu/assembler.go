// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/ls8/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Assembler is a single pass assembler for LS-8 mnemonic source.
//
//	; comment            # comment
//	.equ NAME VALUE      ; equate
//	LABEL:               ; address label
//	LDI R0, LABEL        ; instruction, operands split by ',' or ' '
//	.byte 1 2 LABEL      ; raw words, also DB
//
// A label used as an immediate or a .byte word may be defined later in the
// source; it is patched in after the last line. A $(...) expression is
// evaluated when its line is read, so it only sees the labels and equates
// defined above it.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value memory.Word, err error) {
	invert := false
	if word[0] == '~' && len(word) > 1 {
		invert = true
		word = word[1:]
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = memory.Word(v64)
	if invert {
		value = ^value
	}

	return
}

// registerOf returns the register index named by word.
func registerOf(word string) (reg memory.Word, err error) {
	word = strings.ToUpper(word)
	if word == "SP" {
		reg = REG_SP
		return
	}

	if len(word) != 2 || word[0] != 'R' || word[1] < '0' || word[1] >= '0'+REGISTERS {
		err = ErrRegisterInvalid
		return
	}

	reg = memory.Word(word[1] - '0')
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value memory.Word, err error) {
	thread := starlark.Thread{Name: "ls8"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		equ, perr := asm.valueOf(str)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(equ))
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = memory.Word(st_int64)
	return
}

// stripComment removes a ';' or '#' comment that is not inside a
// character quote.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\\':
			if quoted {
				n++
			}
		case '\'':
			quoted = !quoted
		case ';', '#':
			if !quoted {
				return text[:n]
			}
		}
	}

	return text
}

// parseLine parses a single line into words, handling labels and equates.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#x", int64(value))
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdentifier.MatchString(label) {
			err = ErrInstructionInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddr gets the address of the next generated word.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Codes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]

		for index, label := range op.Links {
			addr, ok := asm.Label[label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			op.Codes[index] = memory.Word(addr)
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []memory.Word
	var links map[int]string

	// link defers word to the label pass, when it names a label.
	link := func(word string, err error) error {
		if err == nil || !reIdentifier.MatchString(word) {
			return err
		}
		if links == nil {
			links = make(map[int]string, 1)
		}
		links[len(codes)] = word
		return nil
	}

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	switch mnemonic := strings.ToUpper(words[0]); mnemonic {
	case ".BYTE", "DB":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for _, word := range words[1:] {
			var value memory.Word
			value, err = asm.valueOf(word)
			err = link(word, err)
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
	default:
		inst, ok := LookupMnemonic(mnemonic)
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		args := words[1:]
		if len(args) < len(inst.Operands) {
			err = ErrOpcodeMissing
			return
		}
		if len(args) > len(inst.Operands) {
			err = ErrOpcodeExtraArgs
			return
		}
		codes = append(codes, memory.Word(inst.Opcode))
		for n, kind := range inst.Operands {
			var value memory.Word
			switch kind {
			case OPERAND_REG:
				value, err = registerOf(args[n])
			case OPERAND_IMM:
				value, err = asm.valueOf(args[n])
				err = link(args[n], err)
			}
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
	}

	addr := asm.currentAddr()
	if addr+len(codes) > memory.SIZE {
		err = memory.ErrProgramSize
		return
	}

	if asm.Verbose {
		log.Printf("%02x: %v", addr, codes)
	}

	asm.Lines = append(asm.Lines, Line{
		LineNo: lineno,
		Addr:   addr,
		Words:  initial_words,
		Codes:  codes,
		Links:  links,
	})

	return
}
