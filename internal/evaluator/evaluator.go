// Package evaluator implements the expression/variable evaluator and its
// context-splitting engine: the arena, Context, Globals, converter and
// pattern matcher, expression evaluator, variable/path walker, macro
// executor, and context merger.
package evaluator

import "github.com/LarsCG/spwn-core/internal/config"

// Evaluator bundles the process-wide Globals with nothing else — every
// call is a method taking the contexts it operates over explicitly, so
// recursion (macro bodies, imports) simply passes the same *Evaluator
// down, matching the single-threaded, single-borrow model of §5/§9.
type Evaluator struct {
	G *Globals
}

func New(limits config.RuntimeLimits) *Evaluator {
	return &Evaluator{G: NewGlobals(limits)}
}

func NewWithGlobals(g *Globals) *Evaluator {
	return &Evaluator{G: g}
}
