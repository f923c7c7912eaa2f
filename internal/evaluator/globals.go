package evaluator

import (
	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
)

// TypeRecord is one entry of the type registry (§3).
type TypeRecord struct {
	ID           int
	Name         string
	DefiningFile string
	Pos          ast.Position
}

// Impl is one named implementation bound to a type (§3 Implementations).
type Impl struct {
	Value               ValueRef
	ImplementedInModule bool
}

// canonicalTypeNames are the frozen names for tags 0..20 (§6), registered
// at Globals construction time.
var canonicalTypeNames = [...]string{
	"group", "color", "block", "item", "number", "bool", "trigger_function",
	"dictionary", "macro", "string", "array", "object", "spwn", "builtin",
	"type_indicator", "NULL", "trigger", "range", "pattern", "object_key",
	"epsilon",
}

// Globals is the process-wide state threaded through every evaluator
// call (§2 component 5, §9: a single exclusively-borrowed handle, never
// split further because evaluation is single-threaded).
type Globals struct {
	Storage   *Storage
	Funcs     *FuncTable
	IDs       *IDAllocators
	ClosedIDs *ClosedIDCounters
	Limits    config.RuntimeLimits

	types           []TypeRecord
	typeByName      map[string]int
	nextTypeID      int
	implementations map[int]map[string]Impl

	triggerOrder uint64

	Loader     ModuleLoader
	importCache map[string]*ImportCacheEntry

	Builtins *BuiltinRegistry
}

func NewGlobals(limits config.RuntimeLimits) *Globals {
	g := &Globals{
		Storage:         NewStorage(limits),
		Funcs:           NewFuncTable(),
		IDs:             NewIDAllocators(),
		ClosedIDs:       NewClosedIDCounters(),
		Limits:          limits,
		typeByName:      make(map[string]int),
		implementations: make(map[int]map[string]Impl),
		importCache:     make(map[string]*ImportCacheEntry),
		Builtins:        NewBuiltinRegistry(),
	}
	for i, name := range canonicalTypeNames {
		g.types = append(g.types, TypeRecord{ID: i, Name: name})
		g.typeByName[name] = i
	}
	g.nextTypeID = len(canonicalTypeNames)
	return g
}

// RegisterType assigns the next free type id to name, or returns the
// existing one if already registered.
func (g *Globals) RegisterType(name, file string, pos ast.Position) int {
	if id, ok := g.typeByName[name]; ok {
		return id
	}
	id := g.nextTypeID
	g.nextTypeID++
	g.types = append(g.types, TypeRecord{ID: id, Name: name, DefiningFile: file, Pos: pos})
	g.typeByName[name] = id
	return id
}

func (g *Globals) TypeByName(name string) (int, bool) {
	id, ok := g.typeByName[name]
	return id, ok
}

func (g *Globals) TypeName(id int) string {
	if id >= 0 && id < len(g.types) {
		return g.types[id].Name
	}
	return "<unknown type>"
}

// Implementation looks up implementations[typeID][name].
func (g *Globals) Implementation(typeID int, name string) (Impl, bool) {
	m, ok := g.implementations[typeID]
	if !ok {
		return Impl{}, false
	}
	impl, ok := m[name]
	return impl, ok
}

// SetImplementation inserts or overwrites an implementation.
func (g *Globals) SetImplementation(typeID int, name string, impl Impl) {
	m, ok := g.implementations[typeID]
	if !ok {
		m = make(map[string]Impl)
		g.implementations[typeID] = m
	}
	m[name] = impl
}

// NextTriggerOrder returns the next monotonically-increasing trigger_order
// and increments the global counter (§5 Ordering).
func (g *Globals) NextTriggerOrder() uint64 {
	v := g.triggerOrder
	g.triggerOrder++
	return v
}

// EmitTrigger appends obj to fnID's obj_list with a fresh trigger_order.
func (g *Globals) EmitTrigger(fnID FnId, obj GDObj) {
	g.Funcs.AppendObj(fnID, obj, g.NextTriggerOrder())
}
