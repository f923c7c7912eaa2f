package evaluator

import "github.com/LarsCG/spwn-core/internal/ast"

// ID is a level-editor identifier (group/color/block/item). Most IDs are
// Specific — a concrete compile-time number — but some are produced by
// built-ins that defer the actual number to the target runtime (e.g. a
// "random group" helper); those carry Specific == false and fail to
// convert to a Number (§4.3).
type ID struct {
	Class    ast.IDClass
	Value    uint16
	Specific bool
}

func SpecificID(class ast.IDClass, v uint16) ID { return ID{Class: class, Value: v, Specific: true} }
func ArbitraryID(class ast.IDClass) ID          { return ID{Class: class, Specific: false} }

// IDAllocators hands out fresh, monotonically increasing ids per class.
// Component 1 of §2: leaf-level, process-wide counters.
type IDAllocators struct {
	next [4]uint16
}

func NewIDAllocators() *IDAllocators {
	// Id 0 is conventionally reserved (e.g. group 0 is the implicit root
	// start group), so allocation begins at 1.
	return &IDAllocators{next: [4]uint16{1, 1, 1, 1}}
}

// Next allocates and returns the next free id of class.
func (a *IDAllocators) Next(class ast.IDClass) ID {
	v := a.next[class]
	a.next[class]++
	return SpecificID(class, v)
}

// Observe bumps the allocator's counter past an explicitly-chosen id so a
// later '?' allocation never collides with a literal the user spelled out.
func (a *IDAllocators) Observe(class ast.IDClass, v uint16) {
	if a.next[class] <= v {
		a.next[class] = v + 1
	}
}

// ClosedIDCounters hand out ids for compiler-internal bookkeeping (e.g. the
// merger's spawn groups) separately from user-visible allocation, mirroring
// the "closed-id counters" of Globals in §2 component 5.
type ClosedIDCounters struct {
	nextGroup uint16
}

func NewClosedIDCounters() *ClosedIDCounters {
	return &ClosedIDCounters{nextGroup: 1}
}

func (c *ClosedIDCounters) NextGroup() ID {
	v := c.nextGroup
	c.nextGroup++
	return SpecificID(ast.IDGroup, v)
}
