package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// BreakKind distinguishes why a Context is currently broken (§7).
type BreakKind int

const (
	BreakMacro BreakKind = iota
	BreakLoop
	BreakContinueLoop
)

// BreakInfo records where and why a Context broke.
type BreakInfo struct {
	Info ast.Info
	Kind BreakKind
}

// Context is a single branch of the compile-time trigger-graph
// construction (§3, §5): its own variable scope, start group, function id,
// break state, and spawn-synchronization bookkeeping.
type Context struct {
	StartGroup ID
	Variables  map[string]ValueRef
	FuncID     FnId
	Broken     *BreakInfo
	SyncGroup  int
	SyncPart   int
}

// NewRootContext is the evaluator's single initial context: start_group
// Group(0), no variables, func_id 0, not broken.
func NewRootContext() *Context {
	return &Context{
		StartGroup: SpecificID(ast.IDGroup, 0),
		Variables:  make(map[string]ValueRef),
		FuncID:     0,
	}
}

// Fork returns a context that inherits the caller's variable bindings
// (a fresh map so callee mutation cannot leak back), the same start
// group, func id, and break/sync state.
func (c *Context) Fork() *Context {
	vars := make(map[string]ValueRef, len(c.Variables))
	for k, v := range c.Variables {
		vars[k] = v
	}
	return &Context{
		StartGroup: c.StartGroup,
		Variables:  vars,
		FuncID:     c.FuncID,
		Broken:     c.Broken,
		SyncGroup:  c.SyncGroup,
		SyncPart:   c.SyncPart,
	}
}

// FunctionID is one entry of the append-only function-id tree (§3).
type FunctionID struct {
	Parent  *FnId
	Width   *uint32
	ObjList []TriggerObj
}

// TriggerObj is a (GDObj, trigger_order) pair appended to a FunctionID's
// obj_list as triggers are emitted (§5 Ordering).
type TriggerObj struct {
	Object GDObj
	Order  uint64
}

// GDObj is the minimal shape of an emitted level-editor object the core
// cares about: an object id plus its integer parameters and group list.
// Full GD-object serialization is the (out of scope) external collaborator
// named in §1; the evaluator only needs to construct the handful of
// objects it emits itself (the spawn trigger of §4.2/§6).
type GDObj struct {
	ObjectID int
	Params   map[int]int
	Groups   []ID
}

// FuncTable is the FunctionID tree rooted at func id 0.
type FuncTable struct {
	entries []FunctionID
}

func NewFuncTable() *FuncTable {
	return &FuncTable{entries: []FunctionID{{}}} // root: no parent
}

func (t *FuncTable) Get(id FnId) *FunctionID {
	return &t.entries[id]
}

// NextFnId appends a new FunctionID with parent=ctx.FuncID and returns a
// clone of ctx with the new id (§4.2).
func (t *FuncTable) NextFnId(ctx *Context) *Context {
	parent := ctx.FuncID
	t.entries = append(t.entries, FunctionID{Parent: &parent})
	next := ctx.Fork()
	next.FuncID = FnId(len(t.entries) - 1)
	return next
}

// AppendObj emits a trigger object into fnID's obj_list with the given
// trigger_order (Globals.EmitTrigger mints a fresh one per emission).
func (t *FuncTable) AppendObj(fnID FnId, obj GDObj, order uint64) {
	fn := t.Get(fnID)
	fn.ObjList = append(fn.ObjList, TriggerObj{Object: obj, Order: order})
}
