package evaluator

// SpawnTriggerObjectID is the level-editor object id of a spawn trigger
// (§6). Used both here and by the (out-of-scope) trigger-function
// composer.
const SpawnTriggerObjectID = 1268

func spawnTriggerObj(ctxStartGroup ID, targetGroup ID) GDObj {
	return GDObj{
		ObjectID: SpawnTriggerObjectID,
		Params: map[int]int{
			51: int(targetGroup.Value),
			1:  SpawnTriggerObjectID,
		},
		Groups: []ID{ctxStartGroup},
	}
}

// mergable implements §4.2's definition: two contexts may be merged iff
// both are broken (or both are not), and every variable bound in either
// is bound in both to structurally-equal values.
func (g *Globals) mergable(a, b *Context) bool {
	if (a.Broken == nil) != (b.Broken == nil) {
		return false
	}
	keys := make(map[string]bool, len(a.Variables)+len(b.Variables))
	for k := range a.Variables {
		keys[k] = true
	}
	for k := range b.Variables {
		keys[k] = true
	}
	for k := range keys {
		refA, okA := a.Variables[k]
		refB, okB := b.Variables[k]
		if !okA || !okB {
			return false
		}
		if !StructurallyEqual(g.Storage, refA, refB) {
			return false
		}
	}
	return true
}

// MergeContexts is one pass of §4.2's merge_contexts: it finds the
// lowest-indexed context with at least one mergable peer, folds every
// mergable peer into it (emitting a spawn trigger per merged context,
// §4.2 steps 1-2), advances its function id, and reports whether a merge
// happened. Callers loop until it returns false to quiesce (§4.2).
func (g *Globals) MergeContexts(bag []*Context) ([]*Context, bool) {
	for i, r := range bag {
		var peers []int
		for j := i + 1; j < len(bag); j++ {
			if g.mergable(r, bag[j]) {
				peers = append(peers, j)
			}
		}
		if len(peers) == 0 {
			continue
		}

		target := g.ClosedIDs.NextGroup()

		g.EmitTrigger(r.FuncID, spawnTriggerObj(r.StartGroup, target))
		for _, j := range peers {
			g.EmitTrigger(bag[j].FuncID, spawnTriggerObj(bag[j].StartGroup, target))
		}

		r.StartGroup = target
		merged := g.Funcs.NextFnId(r)

		remove := make(map[int]bool, len(peers))
		for _, j := range peers {
			remove[j] = true
		}
		next := make([]*Context, 0, len(bag)-len(peers))
		for idx, c := range bag {
			if idx == i {
				next = append(next, merged)
				continue
			}
			if remove[idx] {
				continue
			}
			next = append(next, c)
		}
		return next, true
	}
	return bag, false
}

// Quiesce runs MergeContexts to a fixed point, enforced whenever a
// Returns bag would otherwise carry more than Limits.ContextMax contexts
// (§3 invariant, §5 Resource bounds).
func (g *Globals) Quiesce(bag []*Context) []*Context {
	for {
		next, did := g.MergeContexts(bag)
		bag = next
		if !did {
			return bag
		}
	}
}

// EnforceContextMax quiesces bag only if it exceeds the configured soft
// bound, matching the "on exceeding it, the caller must invoke the
// merger" rule of §3/§5 without forcing a merge pass on every call.
func (g *Globals) EnforceContextMax(bag []*Context) []*Context {
	if g.Limits.ContextMax > 0 && len(bag) > g.Limits.ContextMax {
		return g.Quiesce(bag)
	}
	return bag
}

// mergeReturnsOnce is MergeContexts's Returns-shaped sibling: expression
// evaluation fans out (value, context) pairs rather than bare contexts,
// so merging must carry each pair's value along with whichever context
// it survives under. Pairs are grouped by context pointer identity (a
// single context can own several pairs, e.g. after a dict/array
// literal); the first mergable pair of groups folds together, with the
// pairs of both groups repointed at the freshly merged context so no
// value is lost.
func (g *Globals) mergeReturnsOnce(r Returns) (Returns, bool) {
	type group struct {
		ctx  *Context
		idxs []int
	}
	var groups []*group
	pos := make(map[*Context]int)
	for i, p := range r {
		if gi, ok := pos[p.Ctx]; ok {
			groups[gi].idxs = append(groups[gi].idxs, i)
			continue
		}
		pos[p.Ctx] = len(groups)
		groups = append(groups, &group{ctx: p.Ctx, idxs: []int{i}})
	}

	for gi, grp := range groups {
		for gj := gi + 1; gj < len(groups); gj++ {
			peer := groups[gj]
			if !g.mergable(grp.ctx, peer.ctx) {
				continue
			}
			target := g.ClosedIDs.NextGroup()
			g.EmitTrigger(grp.ctx.FuncID, spawnTriggerObj(grp.ctx.StartGroup, target))
			g.EmitTrigger(peer.ctx.FuncID, spawnTriggerObj(peer.ctx.StartGroup, target))
			grp.ctx.StartGroup = target
			merged := g.Funcs.NextFnId(grp.ctx)

			absorbed := make(map[int]bool, len(peer.idxs))
			for _, idx := range peer.idxs {
				absorbed[idx] = true
			}
			repointed := make(map[int]bool, len(grp.idxs))
			for _, idx := range grp.idxs {
				repointed[idx] = true
			}

			out := make(Returns, 0, len(r))
			for i, p := range r {
				if absorbed[i] || repointed[i] {
					out = append(out, Pair{Value: p.Value, Ctx: merged})
					continue
				}
				out = append(out, p)
			}
			return out, true
		}
	}
	return r, false
}

// QuiesceReturns runs mergeReturnsOnce to a fixed point.
func (g *Globals) QuiesceReturns(r Returns) Returns {
	for {
		next, did := g.mergeReturnsOnce(r)
		r = next
		if !did {
			return r
		}
	}
}

// EnforceContextMaxReturns is EnforceContextMax's Returns-shaped
// sibling, counting distinct contexts (not pairs) against the bound.
func (g *Globals) EnforceContextMaxReturns(r Returns) Returns {
	if g.Limits.ContextMax <= 0 {
		return r
	}
	seen := make(map[*Context]bool, len(r))
	for _, p := range r {
		seen[p.Ctx] = true
	}
	if len(seen) <= g.Limits.ContextMax {
		return r
	}
	return g.QuiesceReturns(r)
}
