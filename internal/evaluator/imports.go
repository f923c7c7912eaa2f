package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/google/uuid"
)

// ModuleLoader is the (out of scope, §1) external collaborator that turns
// an ImportSpec into evaluator output. The core treats its result as
// opaque and only caches it by spec.
type ModuleLoader interface {
	ImportModule(spec ast.ImportSpec, ctx *Context, g *Globals, info ast.Info, forced bool) (Returns, error)
}

// ImportCacheEntry memoizes one import_module result. Token is a random
// identifier minted the first time a spec is resolved; forced re-imports
// mint a fresh token so any downstream component that compares tokens
// (e.g. a persistence layer keying on import generation) can tell a
// forced reload happened even though the cached Returns may be byte-equal.
type ImportCacheEntry struct {
	Token  string
	Result Returns
}

func importCacheKey(spec ast.ImportSpec) string {
	if spec.Path != "" {
		return "script:" + spec.Path
	}
	return "lib:" + spec.Lib
}

// Import resolves spec via the loader, memoizing the result. A forced
// import always re-invokes the loader and replaces the cache entry.
func (g *Globals) Import(spec ast.ImportSpec, ctx *Context, info ast.Info) (Returns, error) {
	key := importCacheKey(spec)
	if !spec.Forced {
		if entry, ok := g.importCache[key]; ok {
			return entry.Result, nil
		}
	}
	if g.Loader == nil {
		return nil, newRuntimeErr(info, "no module loader configured for import %q", key)
	}
	result, err := g.Loader.ImportModule(spec, ctx, g, info, spec.Forced)
	if err != nil {
		return nil, &ImportError{Spec: spec, Wrapped: err}
	}
	g.importCache[key] = &ImportCacheEntry{Token: uuid.NewString(), Result: result}
	return result, nil
}

// ImportGeneration reports the cache token current for spec, letting a
// caller detect a forced reload by comparing it against a token read
// before the reload instead of diffing the (possibly byte-equal) Returns.
func (g *Globals) ImportGeneration(spec ast.ImportSpec) (string, bool) {
	entry, ok := g.importCache[importCacheKey(spec)]
	if !ok {
		return "", false
	}
	return entry.Token, true
}
