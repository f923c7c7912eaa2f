package evaluator

import (
	"fmt"
	"strings"

	"github.com/LarsCG/spwn-core/internal/ast"
)

// StackFrame is one entry of an error's locatable trace (§7).
type StackFrame struct {
	File   string
	Pos    ast.Position
	Detail string
}

// RuntimeError covers arithmetic/index/type mismatches not specifically
// modeled by UndefinedErr or TypeError, plus unknown built-in features.
type RuntimeError struct {
	Message string
	Trace   []StackFrame
}

func (e *RuntimeError) Error() string {
	return "RuntimeError: " + e.Message + traceSuffix(e.Trace)
}

// UndefinedErr is raised when a symbol, member, macro argument, or type
// name cannot be resolved.
type UndefinedErr struct {
	Name       string
	Descriptor string // "variable" | "member" | "macro argument" | "type"
	Pos        ast.Position
	File       string
}

func (e *UndefinedErr) Error() string {
	return fmt.Sprintf("UndefinedErr: %s '%s' is not defined (%s:%s)", e.Descriptor, e.Name, e.File, e.Pos)
}

// TypeError is raised when a macro argument or operand fails a pattern
// check.
type TypeError struct {
	Expected string
	Found    string
	Pos      ast.Position
	File     string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("TypeError: expected %s, found %s (%s:%s)", e.Expected, e.Found, e.File, e.Pos)
}

// ImportError wraps a failure surfaced by the external import_module
// collaborator, propagated unchanged (§7).
type ImportError struct {
	Spec    ast.ImportSpec
	Wrapped error
}

func (e *ImportError) Error() string {
	return "ImportError: " + e.Wrapped.Error()
}
func (e *ImportError) Unwrap() error { return e.Wrapped }

// PackageSyntaxError likewise wraps a parser-level error surfaced through
// the import collaborator.
type PackageSyntaxError struct {
	File    string
	Wrapped error
}

func (e *PackageSyntaxError) Error() string {
	return "PackageSyntaxError: " + e.Wrapped.Error() + " (" + e.File + ")"
}
func (e *PackageSyntaxError) Unwrap() error { return e.Wrapped }

func traceSuffix(trace []StackFrame) string {
	if len(trace) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, f := range trace {
		b.WriteString("  at ")
		if f.Detail != "" {
			b.WriteString(f.Detail + " ")
		}
		b.WriteString(f.File + ":" + f.Pos.String() + "\n")
	}
	return b.String()
}

func newRuntimeErr(info ast.Info, format string, a ...interface{}) error {
	return &RuntimeError{Message: fmt.Sprintf(format, a...), Trace: traceFromInfo(info)}
}

func newUndefinedErr(info ast.Info, name, descriptor string) error {
	return &UndefinedErr{Name: name, Descriptor: descriptor, Pos: info.Pos, File: info.CurrentFile}
}

func newTypeErr(info ast.Info, expected, found string) error {
	return &TypeError{Expected: expected, Found: found, Pos: info.Pos, File: info.CurrentFile}
}

func traceFromInfo(info ast.Info) []StackFrame {
	frames := make([]StackFrame, 0, len(info.Path)+1)
	for _, p := range info.Path {
		frames = append(frames, StackFrame{File: info.CurrentFile, Pos: p})
	}
	frames = append(frames, StackFrame{File: info.CurrentFile, Pos: info.Pos})
	return frames
}
