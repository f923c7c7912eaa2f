// Package spwncore is the public embedding surface over the evaluator
// core: construct a Globals+root Context, feed it hand-built AST, and
// read back the resulting Returns bag. It exists so a (not yet written)
// parser/driver can depend on a small, stable surface instead of every
// internal evaluator type.
package spwncore

import (
	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/LarsCG/spwn-core/internal/evaluator"
)

// Session owns one evaluator run: its Globals (arena, type registry,
// trigger accumulator) and the single root Context every top-level
// expression starts from.
type Session struct {
	eval *evaluator.Evaluator
	root *evaluator.Context
}

// New builds a fresh Session with the given resource limits.
func New(limits config.RuntimeLimits) *Session {
	return &Session{
		eval: evaluator.New(limits),
		root: evaluator.NewRootContext(),
	}
}

// NewDefault builds a Session using DefaultLimits.
func NewDefault() *Session {
	return New(config.DefaultLimits())
}

// SetLoader installs the module loader used to resolve import
// expressions (§6's import_module collaborator); a Session with no
// loader errors on any import it encounters.
func (s *Session) SetLoader(loader evaluator.ModuleLoader) {
	s.eval.G.Loader = loader
}

// Result is one (value, context) outcome of evaluating a top-level
// expression, described in terms a caller outside the evaluator package
// can inspect without reaching into Storage directly.
type Result struct {
	Value      evaluator.Value
	TypeName   string
	StartGroup evaluator.ID
}

// Eval evaluates expr against the session's root context, reports the
// resulting (value, context) bag, and folds any "inner returns" an
// embedded compound statement produced into the same bag (mirroring
// how a top-level statement compiler would treat them).
func (s *Session) Eval(expr *ast.Expression) ([]Result, error) {
	var inner evaluator.Returns
	rs, err := s.eval.EvalExpression(expr, s.root, &inner)
	if err != nil {
		return nil, err
	}
	rs = append(rs, inner...)

	out := make([]Result, 0, len(rs))
	for _, p := range rs {
		v := s.eval.G.Storage.Read(p.Value)
		out = append(out, Result{
			Value:      v,
			TypeName:   s.eval.G.TypeName(v.NumericType(s.eval.G.Storage)),
			StartGroup: p.Ctx.StartGroup,
		})
	}
	return out, nil
}

// LiveValueCount reports how many arena entries are currently live,
// exposed for driver-level reporting (e.g. cmd/spwncore's summary line).
func (s *Session) LiveValueCount() int {
	return s.eval.G.Storage.Len()
}

// ImportGeneration reports the cache token current for spec, so a caller
// holding a token from before a forced reimport can tell whether the
// reload actually ran.
func (s *Session) ImportGeneration(spec ast.ImportSpec) (string, bool) {
	return s.eval.G.ImportGeneration(spec)
}

// Globals exposes the underlying Globals for callers that need the full
// internal surface (tests, a future parser driver wiring its own
// built-ins). Prefer Eval for simple embedding.
func (s *Session) Globals() *evaluator.Globals { return s.eval.G }
