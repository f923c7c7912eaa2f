package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// MacroArg is one formal parameter of a Macro record (§3).
type MacroArg struct {
	Name       string
	Default    ValueRef // valid only if HasDefault
	HasDefault bool
	Tag        string
	Pattern    ValueRef // valid only if HasPattern
	HasPattern bool
}

// Macro is the closure record of §3: its formal argument list, the
// captured defining context (by ValueRef, not by value — see §9 on
// closures), the source file, and the unexecuted body AST.
type Macro struct {
	Args       []MacroArg
	DefContext map[string]ValueRef
	File       string
	Body       ast.CmpStmt
}
