package lumen

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// stdin is the single buffered reader every input builtin reads a line
// from; buffering it once avoids losing bytes across repeated calls the
// way re-wrapping os.Stdin on every call would.
var stdin = bufio.NewReader(os.Stdin)

func native(name string, fn func(ip *Interpreter, args []Value, env *Env, line int) Value) Value {
	return NativeVal(0, &NativeFn{Name: name, Fn: fn})
}

// RegisterBuiltins declares every global function the language exposes
// to user programs, each bound as a constant in the global frame, so a
// top-level redeclaration of, assignment to, or deletion of `print` is an
// error. A nested scope may still declare its own binding of the same
// name, which shadows the builtin inside that scope.
func RegisterBuiltins(ip *Interpreter) {
	g := ip.Global
	decl := func(name string, fn func(ip *Interpreter, args []Value, env *Env, line int) Value) {
		g.Declare(0, name, native(name, fn), true)
	}

	decl("print", biPrint)
	decl("println", biPrintln)
	decl("printf", biPrintf)
	decl("printfln", biPrintfln)
	decl("format", biFormat)

	decl("raise", biRaise)
	decl("assert", biAssert)
	decl("throw", biThrow)
	decl("exit", biExit)

	decl("input", biInput)
	decl("inputnum", biInputnum)
	decl("inputch", biInputch)

	decl("string", biString)
	decl("number", biNumber)
	decl("char", biChar)
	decl("bool", biBool)

	g.Declare(0, "true", BoolVal(0, true), true)
	g.Declare(0, "false", BoolVal(0, false), true)
	g.Declare(0, "null", NullVal(0), true)
}

func argAt(args []Value, i int) (Value, bool) {
	if i < len(args) {
		return args[i], true
	}
	return Value{}, false
}

// ---- print/format family ----

func biPrint(_ *Interpreter, args []Value, _ *Env, line int) Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.asString()
	}
	fmt.Print(strings.Join(parts, " "))
	return NullVal(line)
}

func biPrintln(ip *Interpreter, args []Value, env *Env, line int) Value {
	biPrint(ip, args, env, line)
	fmt.Println()
	return NullVal(line)
}

// substitutePlaceholders replaces "{}" in base left-to-right with args,
// leaving any unmatched trailing "{}" in place and ignoring extra args.
func substitutePlaceholders(base string, args []string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(base, "{}")
		if idx == -1 || i >= len(args) {
			b.WriteString(base)
			break
		}
		b.WriteString(base[:idx])
		b.WriteString(args[i])
		base = base[idx+2:]
		i++
	}
	return b.String()
}

func formatArgs(name string, args []Value, line int) (string, []string) {
	if len(args) == 0 || args[0].Kind != VString {
		typeErr(line, "'%s': expected at least one argument and expected the first argument to be a string", name)
	}
	base := args[0].Str
	rest := make([]string, len(args)-1)
	for i, a := range args[1:] {
		rest[i] = a.asString()
	}
	return base, rest
}

func biPrintf(_ *Interpreter, args []Value, _ *Env, line int) Value {
	base, rest := formatArgs("printf", args, line)
	fmt.Print(substitutePlaceholders(base, rest))
	return NullVal(line)
}

func biPrintfln(_ *Interpreter, args []Value, _ *Env, line int) Value {
	base, rest := formatArgs("printfln", args, line)
	fmt.Println(substitutePlaceholders(base, rest))
	return NullVal(line)
}

func biFormat(_ *Interpreter, args []Value, _ *Env, line int) Value {
	base, rest := formatArgs("format", args, line)
	return StringVal(line, substitutePlaceholders(base, rest))
}

// ---- error/exit family ----

func biRaise(_ *Interpreter, args []Value, _ *Env, line int) Value {
	base, rest := formatArgs("raise", args, line)
	panic(&RuntimeError{Line: line, Msg: substitutePlaceholders(base, rest)})
}

func biAssert(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) != 2 {
		typeErr(line, "'assert': expected two arguments")
	}
	if !args[0].truthy() {
		panic(&RuntimeError{Line: line, Msg: args[1].asString()})
	}
	return NullVal(line)
}

func biThrow(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 2 {
		typeErr(line, "'throw': expected at most two arguments")
	}
	msg := "Error thrown with no further description."
	if len(args) >= 1 {
		msg = args[0].asString()
	}
	code := 1
	if len(args) == 2 {
		code = int(args[1].asNumber())
	}
	panic(&ExitError{Line: LineNone, Code: code, Msg: msg, HasMsg: true})
}

func biExit(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'exit': expected no arguments or a single argument")
	}
	code := 0
	if len(args) == 1 {
		code = int(args[0].asNumber())
	}
	panic(&ExitError{Line: LineNone, Code: code})
}

// ---- input family ----

func readLine() string {
	line, _ := stdin.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func biInput(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'input': expected no arguments or a single argument")
	}
	if p, ok := argAt(args, 0); ok {
		fmt.Print(p.asString())
	}
	return StringVal(line, readLine())
}

func biInputnum(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'inputnum': expected no arguments or a single argument")
	}
	if p, ok := argAt(args, 0); ok {
		fmt.Print(p.asString())
	}
	text := strings.TrimSpace(readLine())
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		n = 0
	}
	return NumberVal(line, n)
}

func biInputch(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'inputch': expected no arguments or a single argument")
	}
	if p, ok := argAt(args, 0); ok {
		fmt.Print(p.asString())
	}
	text := readLine()
	if len(text) == 0 {
		return CharVal(line, 0)
	}
	return CharVal(line, text[0])
}

// ---- conversion family ----

func biString(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'string': expected no arguments or a single argument")
	}
	if v, ok := argAt(args, 0); ok {
		return StringVal(line, v.asString())
	}
	return StringVal(line, "")
}

func biNumber(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'number': expected no arguments or a single argument")
	}
	if v, ok := argAt(args, 0); ok {
		return NumberVal(line, v.asNumber())
	}
	return NumberVal(line, 0)
}

func biChar(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'char': expected no arguments or a single argument")
	}
	if v, ok := argAt(args, 0); ok {
		return CharVal(line, v.asChar())
	}
	return CharVal(line, 0)
}

func biBool(_ *Interpreter, args []Value, _ *Env, line int) Value {
	if len(args) > 1 {
		typeErr(line, "'bool': expected no arguments or a single argument")
	}
	if v, ok := argAt(args, 0); ok {
		return BoolVal(line, v.truthy())
	}
	return BoolVal(line, false)
}
