package evaluator

import (
	"testing"

	"github.com/LarsCG/spwn-core/internal/ast"
	"github.com/LarsCG/spwn-core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage() *Storage {
	return NewStorage(config.DefaultLimits())
}

func TestStorageReservedKeys(t *testing.T) {
	s := newTestStorage()
	assert.Equal(t, BuiltinsVal{}, s.Read(BuiltinsRef))
	assert.Equal(t, NullVal{}, s.Read(NullRef))
	assert.Equal(t, 2, s.Len())
}

func TestStorageStoreAndRead(t *testing.T) {
	s := newTestStorage()
	ref := s.Store(NumberVal{Value: 42}, 5, 0, true)
	assert.Equal(t, NumberVal{Value: 42}, s.Read(ref))
	assert.Equal(t, 3, s.Len())

	rec := s.RecordOf(ref)
	assert.True(t, rec.Mutable)
	assert.Equal(t, uint16(5), rec.Lifetime)
}

func TestStorageReadMissingKeyPanics(t *testing.T) {
	s := newTestStorage()
	assert.Panics(t, func() { s.Read(ValueRef(999)) })
}

func TestStorageWriteRequiresMutable(t *testing.T) {
	s := newTestStorage()
	ref := s.StoreConst(NumberVal{Value: 1}, 0)
	_, err := s.Write(ref)
	require.Error(t, err)

	mutRef := s.Store(NumberVal{Value: 1}, 1, 0, true)
	require.NoError(t, s.Set(mutRef, NumberVal{Value: 2}))
	assert.Equal(t, NumberVal{Value: 2}, s.Read(mutRef))
}

func TestStorageSweepDeadRemovesZeroLifetime(t *testing.T) {
	s := newTestStorage()
	ref := s.Store(NumberVal{Value: 1}, 1, 0, true)
	s.DecrementAll()
	assert.True(t, s.Exists(ref))
	s.SweepDead()
	assert.False(t, s.Exists(ref))
	// reserved keys always survive a sweep regardless of lifetime
	assert.True(t, s.Exists(BuiltinsRef))
	assert.True(t, s.Exists(NullRef))
}

func TestStorageCloneDeepArrayIsDisjoint(t *testing.T) {
	s := newTestStorage()
	el := s.StoreConst(NumberVal{Value: 7}, 0)
	arr := s.Store(&ArrayVal{Elements: []ValueRef{el}}, 1, 0, true)

	clone := s.CloneDeep(arr, 1, 0, true)
	assert.NotEqual(t, arr, clone)

	cloned := s.Read(clone).(*ArrayVal)
	assert.NotEqual(t, el, cloned.Elements[0])
	assert.Equal(t, NumberVal{Value: 7}, s.Read(cloned.Elements[0]))

	// mutating the clone's element must not affect the original
	require.NoError(t, s.Set(cloned.Elements[0], NumberVal{Value: 99}))
	assert.Equal(t, NumberVal{Value: 7}, s.Read(el))
}

func TestStorageCloneDeepMacroSharesBody(t *testing.T) {
	s := newTestStorage()
	body := make(ast.CmpStmt, 0)
	m := &Macro{DefContext: map[string]ValueRef{}, Body: body}
	ref := s.Store(MacroVal{Macro: m}, 1, 0, false)

	clone := s.CloneDeep(ref, 1, 0, false)
	clonedMacro := s.Read(clone).(MacroVal).Macro
	assert.NotSame(t, m, clonedMacro)
	assert.Equal(t, m.Body, clonedMacro.Body) // AST body itself is shared, not deep-cloned
}

func TestStorageSetMutabilitySkipsMacroFlag(t *testing.T) {
	s := newTestStorage()
	m := &Macro{DefContext: map[string]ValueRef{}}
	ref := s.Store(MacroVal{Macro: m}, 1, 0, false)
	s.SetMutability(ref, true, nil)
	assert.False(t, s.RecordOf(ref).Mutable)
}

func TestStorageBumpExtendsReachableValues(t *testing.T) {
	s := newTestStorage()
	child := s.Store(NumberVal{Value: 1}, 1, 0, true)
	arr := s.Store(&ArrayVal{Elements: []ValueRef{child}}, 1, 0, true)

	s.Bump(arr, 10, nil)
	assert.Equal(t, uint16(11), s.RecordOf(arr).Lifetime)
	assert.Equal(t, uint16(11), s.RecordOf(child).Lifetime)
}

func TestStorageLifetimeCapSaturates(t *testing.T) {
	limits := config.DefaultLimits()
	limits.LifetimeCap = 5
	s := NewStorage(limits)
	ref := s.Store(NumberVal{Value: 1}, 3, 0, true)
	s.Bump(ref, 100, nil)
	assert.Equal(t, uint16(5), s.RecordOf(ref).Lifetime)
}
