// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [-v] [-asm] [-base N] program\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var verbose bool
	var assemble bool
	var base int

	flag.Usage = usage
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&assemble, "asm", false, "Assemble the program from mnemonics (default for .asm files)")
	flag.IntVar(&base, "base", cpu.BASE_DEFAULT, "Numeric base of program words")

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	if filepath.Ext(path) == ".asm" {
		assemble = true
	}

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	var prog *cpu.Program
	if assemble {
		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
	} else {
		ld := &cpu.Loader{Verbose: verbose, Base: base}
		prog, err = ld.Parse(inf)
	}
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	emu.Program = prog
	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Run()
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatal(err)
	}
}
