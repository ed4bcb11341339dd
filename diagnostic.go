package lumen

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
)

// ExitError is raised by exit/throw to terminate the program with a
// specific code, optionally carrying a message and source line the same
// way a RuntimeError does. A bare exit with no message skips the
// "Program exited due to..." preamble entirely, matching the original
// driver's distinction between a raised error and a plain exit.
type ExitError struct {
	Line   int // LineNone when no source context applies
	Code   int
	Msg    string
	HasMsg bool
}

// LineNone marks an error with no associated source line, so the
// diagnostic renderer skips the source excerpt.
const LineNone = -1

func (e *ExitError) Error() string { return e.Msg }

// Stderr is the process's diagnostic sink, wrapped so ANSI color codes
// still render correctly on Windows consoles; every other platform gets
// os.Stderr back untouched.
var Stderr io.Writer = colorable.NewColorableStderr()

// Render writes a diagnostic for err against src (the full program text,
// used to recover the one-to-three line excerpt around the failing
// line) and returns the process exit code the caller should use.
func Render(err any, src string) int {
	switch e := err.(type) {
	case *LexError:
		printError(e.Msg, e.Line, src)
		fmt.Fprintf(Stderr, "\n\033[91mProgram exited with exit code %d.\033[0m\n", 1)
		return 1
	case *ParseError:
		printError(e.Msg, e.Line, src)
		fmt.Fprintf(Stderr, "\n\033[91mProgram exited with exit code %d.\033[0m\n", 1)
		return 1
	case *RuntimeError:
		printError(e.Msg, e.Line, src)
		fmt.Fprintf(Stderr, "\n\033[91mProgram exited with exit code %d.\033[0m\n", 1)
		return 1
	case *ExitError:
		if e.HasMsg {
			printError(e.Msg, e.Line, src)
		}
		fmt.Fprintf(Stderr, "\n\033[91mProgram exited with exit code %d.\033[0m\n", e.Code)
		return e.Code
	default:
		fmt.Fprintf(Stderr, "Program exited due to the following error:\n \033[91m%v\033[0m\n", err)
		fmt.Fprintf(Stderr, "\n\033[91mProgram exited with exit code %d.\033[0m\n", 1)
		return 1
	}
}

// printError renders the "Program exited due to..." preamble, the
// message, and up to three lines of source context (previous/current/
// next) with the current line underlined by carets — the offending
// line only, never the whole excerpt.
func printError(msg string, line int, src string) {
	fmt.Fprintf(Stderr, "Program exited due to the following error:\n \033[91m%s\033[0m\n", msg)
	if line == LineNone || line <= 0 {
		return
	}

	lines := strings.Split(src, "\n")
	get := func(n int) (string, bool) {
		if n < 1 || n > len(lines) {
			return "", false
		}
		return lines[n-1], true
	}

	width := len(fmt.Sprintf("%d", line))
	if prev, ok := get(line - 1); ok && prev != "" {
		fmt.Fprintf(Stderr, "  %-*d '%s'\n", width, line-1, prev)
	}
	if cur, ok := get(line); ok && cur != "" {
		fmt.Fprintf(Stderr, "  %-*d '%s'\n", width, line, cur)
		fmt.Fprintf(Stderr, "  %-*s  \033[91m%s\033[0m\n", width, "", strings.Repeat("^", len(cur)))
	}
	if next, ok := get(line + 1); ok && next != "" {
		fmt.Fprintf(Stderr, "  %-*d '%s'\n", width, line+1, next)
	}
}

// ExitWith terminates the process with the appropriate code after
// rendering a diagnostic for err against src. It is only ever called
// from the CLI driver's single top-level recover site.
func ExitWith(err any, src string) {
	code := Render(err, src)
	os.Exit(code)
}
