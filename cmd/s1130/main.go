// Copyright 2026, the s1130 authors

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/wrightmikea/s1130/cpu"
	"github.com/wrightmikea/s1130/emulator"
)

func main() {
	var compile string
	var listing bool
	var input string
	var steps uint64
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.BoolVar(&listing, "l", false, "Print listing, do not execute")
	flag.StringVar(&input, "i", "", "Keyboard input")
	flag.Uint64Var(&steps, "n", 1000000, "Maximum instructions to execute")
	flag.BoolVar(&dump, "dump", false, "Print register dump after execution")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}
	if len(compile) == 0 {
		log.Fatalf("%v: No source file, use -c", os.Args[0])
	}

	source, err := os.ReadFile(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	sys := emulator.NewSystem()
	sys.Verbose = verbose

	prog, err := sys.AssembleAndLoad(string(source))
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	if listing {
		for n, word := range prog.Words {
			fmt.Printf("%04x: %04x\n", prog.Origin+uint16(n), word)
		}
		for _, name := range slices.Sorted(maps.Keys(prog.Symbols)) {
			fmt.Printf("%-8v %04x\n", name, prog.Symbols[name])
		}
		return
	}

	sys.Keyboard.TypeString(input)

	ran, err := sys.Run(steps)
	if err != nil && !errors.Is(err, cpu.ErrWaitState) {
		log.Fatalf("%v: after %d instructions: %v", compile, ran, err)
	}

	os.Stdout.WriteString(sys.Printer.Output())

	if dump {
		entries := map[string]string{}
		for name, value := range sys.Dump() {
			entries[name] = value
		}
		for _, name := range slices.Sorted(maps.Keys(entries)) {
			fmt.Printf("%-8v %v\n", name, entries[name])
		}
	}
}
