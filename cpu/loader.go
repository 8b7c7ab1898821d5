// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/memory"
)

// BASE_DEFAULT is the numeric base of LS-8 program words.
const BASE_DEFAULT = 2

// Loader reads a program written as one numeric word per line.
//
// Text after a '#' is a comment. Blank lines are skipped. The leading token
// of every other line becomes the next memory word, from address 0.
type Loader struct {
	Verbose bool // If set, logs every word loaded.
	Base    int  // Numeric base of the words, BASE_DEFAULT if zero.
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	base := ld.Base
	if base == 0 {
		base = BASE_DEFAULT
	}

	var lines []Line
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		word := strings.Fields(line)[0]
		var value int64
		value, err = strconv.ParseInt(word, base, 64)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}

		if len(lines) >= memory.SIZE {
			err = memory.ErrProgramSize
			return
		}

		if ld.Verbose {
			log.Printf("loader: %02x: %v", len(lines), value)
		}

		lines = append(lines, Line{
			LineNo: lineno,
			Addr:   len(lines),
			Words:  []string{word},
			Codes:  []memory.Word{memory.Word(value)},
		})
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Lines: lines,
	}

	return
}
