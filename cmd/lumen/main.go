// Command lumen runs a single Lumen source file, or a program passed
// inline on the command line, and calls its `main` function if one is
// declared at the top level.
package main

import (
	"fmt"
	"os"

	lumen "github.com/lumen-lang/lumen"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file | source>\n", os.Args[0])
		os.Exit(2)
	}

	src := loadSource(os.Args[1])
	run(src)
}

// loadSource treats the argument as a file path only when it names a
// regular file; anything else (a directory, a nonexistent path, a
// one-liner typed directly on the command line) is treated as inline
// source text.
func loadSource(arg string) string {
	info, err := os.Stat(arg)
	if err == nil && info.Mode().IsRegular() {
		data, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lumen: could not read %q: %v\n", arg, err)
			os.Exit(1)
		}
		return string(data)
	}
	return arg
}

func run(src string) {
	defer func() {
		if r := recover(); r != nil {
			lumen.ExitWith(r, src)
		}
	}()

	toks := lumen.NewLexer(src).Scan()
	program := lumen.NewParser(toks).ParseProgram()

	ip := lumen.NewInterpreter()
	lumen.RegisterBuiltins(ip)
	ip.Run(program)
	ip.RunMain()
}
