package evaluator

import (
	"fmt"

	"github.com/LarsCG/spwn-core/internal/config"
)

// FnId indexes into the FunctionID tree (Context.FuncID).
type FnId int

// Record is one arena entry: the value plus its defining function context,
// mutability, and lifetime counter (§3).
type Record struct {
	Value     Value
	FnContext FnId
	Mutable   bool
	Lifetime  uint16
}

// Storage is the stored-value arena (§4.1). Keys are monotonically
// assigned and never reused.
type Storage struct {
	entries map[ValueRef]*Record
	nextID  ValueRef
	limits  config.RuntimeLimits
}

// Reserved arena keys, assigned at initialization (§3).
const (
	BuiltinsRef ValueRef = 0
	NullRef     ValueRef = 1
)

func NewStorage(limits config.RuntimeLimits) *Storage {
	s := &Storage{entries: make(map[ValueRef]*Record), limits: limits}
	s.entries[BuiltinsRef] = &Record{Value: BuiltinsVal{}, FnContext: 0, Mutable: false, Lifetime: 1}
	s.entries[NullRef] = &Record{Value: NullVal{}, FnContext: 0, Mutable: false, Lifetime: 1}
	s.nextID = 2
	return s
}

// Store inserts a fresh value and returns its key. val_id never decreases.
func (s *Storage) Store(value Value, lifetime uint16, fnContext FnId, mutable bool) ValueRef {
	ref := s.nextID
	s.nextID++
	s.entries[ref] = &Record{Value: value, FnContext: fnContext, Mutable: mutable, Lifetime: lifetime}
	return ref
}

// StoreConst is a convenience for Store with lifetime 1, immutable.
func (s *Storage) StoreConst(value Value, fnContext FnId) ValueRef {
	return s.Store(value, 1, fnContext, false)
}

func (s *Storage) read(ref ValueRef) (*Record, error) {
	rec, ok := s.entries[ref]
	if !ok {
		return nil, fmt.Errorf("arena: read of missing key %d", ref)
	}
	return rec, nil
}

// Read returns the value at ref. Reading a missing key is a programming
// error, per §4.1, and panics rather than returning an error.
func (s *Storage) Read(ref ValueRef) Value {
	rec, err := s.read(ref)
	if err != nil {
		panic(err)
	}
	return rec.Value
}

// RecordOf exposes the full record (used by the converter/pattern matcher
// to resolve a Dict's TYPE override and by tests asserting on mutability).
func (s *Storage) RecordOf(ref ValueRef) *Record {
	rec, err := s.read(ref)
	if err != nil {
		panic(err)
	}
	return rec
}

// Write returns a mutable pointer to the record's value slot. It fails if
// the key is immutable.
func (s *Storage) Write(ref ValueRef) (*Record, error) {
	rec, err := s.read(ref)
	if err != nil {
		return nil, err
	}
	if !rec.Mutable {
		return nil, fmt.Errorf("arena: write to immutable key %d", ref)
	}
	return rec, nil
}

// Set overwrites the value stored at ref in place, enforcing mutability.
func (s *Storage) Set(ref ValueRef, value Value) error {
	rec, err := s.Write(ref)
	if err != nil {
		return err
	}
	rec.Value = value
	return nil
}

// Exists reports whether ref is still present in the arena.
func (s *Storage) Exists(ref ValueRef) bool {
	_, ok := s.entries[ref]
	return ok
}

// Len reports how many live entries the arena currently holds.
func (s *Storage) Len() int {
	return len(s.entries)
}

// CloneDeep clones src and every transitively-reachable child into fresh,
// disjoint keys (§4.1, testable property 3). A Macro's captured body AST
// is shared (macros are immutable references); only its arg defaults,
// patterns, and captured variable bindings are cloned.
func (s *Storage) CloneDeep(src ValueRef, lifetime uint16, fnContext FnId, mutable bool) ValueRef {
	return s.cloneDeep(src, lifetime, fnContext, mutable, make(map[ValueRef]ValueRef))
}

func (s *Storage) cloneDeep(src ValueRef, lifetime uint16, fnContext FnId, mutable bool, seen map[ValueRef]ValueRef) ValueRef {
	if dst, ok := seen[src]; ok {
		return dst
	}
	rec := s.RecordOf(src)
	switch v := rec.Value.(type) {
	case *ArrayVal:
		dst := s.Store(&ArrayVal{}, lifetime, fnContext, mutable)
		seen[src] = dst
		children := make([]ValueRef, len(v.Elements))
		for i, el := range v.Elements {
			children[i] = s.cloneDeep(el, lifetime, fnContext, mutable, seen)
		}
		s.entries[dst].Value = &ArrayVal{Elements: children}
		return dst
	case *DictVal:
		dst := s.Store(&DictVal{}, lifetime, fnContext, mutable)
		seen[src] = dst
		nd := NewDict()
		for _, k := range v.Keys {
			child := s.cloneDeep(v.Entries[k], lifetime, fnContext, mutable, seen)
			nd.Set(k, child)
		}
		s.entries[dst].Value = nd
		return dst
	case MacroVal:
		dst := s.Store(v, lifetime, fnContext, false) // macros are always immutable (§3)
		seen[src] = dst
		clonedArgs := make([]MacroArg, len(v.Macro.Args))
		for i, a := range v.Macro.Args {
			na := a
			if a.HasDefault {
				na.Default = s.cloneDeep(a.Default, lifetime, fnContext, mutable, seen)
			}
			if a.HasPattern {
				na.Pattern = s.cloneDeep(a.Pattern, lifetime, fnContext, mutable, seen)
			}
			clonedArgs[i] = na
		}
		newClosure := make(map[string]ValueRef, len(v.Macro.DefContext))
		for k, ref := range v.Macro.DefContext {
			newClosure[k] = s.cloneDeep(ref, lifetime, fnContext, mutable, seen)
		}
		clonedMacro := &Macro{
			Args:       clonedArgs,
			DefContext: newClosure,
			File:       v.Macro.File,
			Body:       v.Macro.Body, // AST is shared, never cloned
		}
		s.entries[dst].Value = MacroVal{Macro: clonedMacro}
		return dst
	default:
		dst := s.Store(rec.Value, lifetime, fnContext, mutable)
		seen[src] = dst
		return dst
	}
}

// SetMutability recurses through Array/Dict children, skipping a Macro's
// captured body. Setting a Macro reference's flag to true is a no-op on
// the flag itself (macros are always immutable) but still recurses into
// its children, matching §4.1.
func (s *Storage) SetMutability(ref ValueRef, mutable bool, visited map[ValueRef]bool) {
	if visited == nil {
		visited = make(map[ValueRef]bool)
	}
	if visited[ref] {
		return
	}
	visited[ref] = true
	rec := s.RecordOf(ref)
	switch v := rec.Value.(type) {
	case MacroVal:
		// Mutability flag never changes for a Macro.
		for _, a := range v.Macro.Args {
			if a.HasDefault {
				s.SetMutability(a.Default, mutable, visited)
			}
			if a.HasPattern {
				s.SetMutability(a.Pattern, mutable, visited)
			}
		}
		for _, child := range v.Macro.DefContext {
			s.SetMutability(child, mutable, visited)
		}
		return
	case *ArrayVal:
		rec.Mutable = mutable
		for _, child := range v.Elements {
			s.SetMutability(child, mutable, visited)
		}
	case *DictVal:
		rec.Mutable = mutable
		for _, k := range v.Keys {
			s.SetMutability(v.Entries[k], mutable, visited)
		}
	default:
		rec.Mutable = mutable
	}
}

// IncrementAll bumps every live entry's lifetime by 1 (entering a deeper
// scope), saturating at the configured cap.
func (s *Storage) IncrementAll() {
	for _, rec := range s.entries {
		s.bumpOne(rec, 1)
	}
}

// DecrementAll drops every live entry's lifetime by 1 (leaving a scope).
// Entries reaching 0 are left for SweepDead to remove.
func (s *Storage) DecrementAll() {
	for _, rec := range s.entries {
		if rec.Lifetime > 0 {
			rec.Lifetime--
		}
	}
}

func (s *Storage) bumpOne(rec *Record, delta int) {
	n := int(rec.Lifetime) + delta
	if n < 0 {
		n = 0
	}
	if cap := int(s.limits.LifetimeCap); cap > 0 && n > cap {
		n = cap
	}
	rec.Lifetime = uint16(n)
}

// SweepDead removes every non-reserved entry whose lifetime has reached 0.
func (s *Storage) SweepDead() {
	for ref, rec := range s.entries {
		if ref == BuiltinsRef || ref == NullRef {
			continue
		}
		if rec.Lifetime == 0 {
			delete(s.entries, ref)
		}
	}
}

// Bump selectively extends ref's lifetime (and everything it transitively
// reaches) by amount, so it survives a scope it would otherwise be swept
// out of — e.g. a macro's return value escaping the callee's scope. The
// visited set guards against cyclic structures and double-bumping a value
// reached two ways.
func (s *Storage) Bump(ref ValueRef, amount uint16, visited map[ValueRef]bool) {
	if visited == nil {
		visited = make(map[ValueRef]bool)
	}
	if visited[ref] || !s.Exists(ref) {
		return
	}
	if max := s.limits.MaxBumpVisits; max > 0 && len(visited) >= max {
		return
	}
	visited[ref] = true
	rec := s.RecordOf(ref)
	s.bumpOne(rec, int(amount))
	switch v := rec.Value.(type) {
	case *ArrayVal:
		for _, child := range v.Elements {
			s.Bump(child, amount, visited)
		}
	case *DictVal:
		for _, k := range v.Keys {
			s.Bump(v.Entries[k], amount, visited)
		}
	case MacroVal:
		for _, a := range v.Macro.Args {
			if a.HasDefault {
				s.Bump(a.Default, amount, visited)
			}
			if a.HasPattern {
				s.Bump(a.Pattern, amount, visited)
			}
		}
		for _, child := range v.Macro.DefContext {
			s.Bump(child, amount, visited)
		}
	}
}
