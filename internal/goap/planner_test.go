package goap

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionPlanner_Clear(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	require.Zero(t, ap.NumActions())
	require.Zero(t, ap.NumAtoms())

	require.NoError(t, ap.SetPrecondition("scout", "armedwithgun", true))
	require.NoError(t, ap.SetEffect("scout", "enemyvisible", true))
	ap.Clear()
	require.Zero(t, ap.NumActions())
	require.Zero(t, ap.NumAtoms())
	_, ok := ap.ActionIndex("scout")
	require.False(t, ok)
}

func TestActionPlanner_SetBasic(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	require.NoError(t, ap.SetPrecondition("scout", "armedwithgun", true))
	require.Equal(t, 1, ap.NumActions())
	require.Equal(t, 1, ap.NumAtoms())

	require.NoError(t, ap.SetEffect("scout", "enemyvisible", true))
	require.Equal(t, 1, ap.NumActions())
	require.Equal(t, 2, ap.NumAtoms())

	act, err := ap.Action("scout")
	require.NoError(t, err)
	require.Equal(t, DefaultCost, act.Cost)
	require.True(t, act.Precondition.Cares(0))
	require.True(t, act.Precondition.Get(0))
	require.False(t, act.Precondition.Cares(1))
	require.True(t, act.Effect.Cares(1))
	require.True(t, act.Effect.Get(1))
	require.False(t, act.Effect.Cares(0))
}

func TestActionPlanner_ZeroValue(t *testing.T) {
	t.Parallel()

	var ap ActionPlanner
	require.NoError(t, ap.SetPrecondition("a", "x", true))
	require.NoError(t, ap.SetEffect("a", "y", true))
	act, err := ap.Action("a")
	require.NoError(t, err)
	require.False(t, act.Precondition.Cares(1), "unreferenced atoms must be don't-care")
	require.Equal(t, MaxActions, ap.MaxActions())
}

func TestActionPlanner_ActionLimits(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	for i := 0; i < MaxActions; i++ {
		require.NoError(t, ap.SetPrecondition(fmt.Sprintf("ACT_%d", i), "ATOM_0", true))
	}

	err := ap.SetPrecondition("ACT_-1", "ATOM_0", true)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrCapacityExceeded))
	require.Equal(t, MaxActions, ap.NumActions())
	require.Equal(t, 1, ap.NumAtoms())

	// a full action table must not register the new atom either
	err = ap.SetEffect("ACT_-1", "ATOM_1", true)
	require.True(t, errors.Is(err, ErrCapacityExceeded))
	require.Equal(t, 1, ap.NumAtoms())

	// existing actions keep working
	require.NoError(t, ap.SetEffect("ACT_3", "ATOM_1", true))
	require.Equal(t, 2, ap.NumAtoms())
}

func TestActionPlanner_AtomLimits(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	for i := 0; i < MaxAtoms; i++ {
		require.NoError(t, ap.SetPrecondition("ACT_0", fmt.Sprintf("ATOM_%d", i), true))
	}

	before, err := ap.Action("ACT_0")
	require.NoError(t, err)

	err = ap.SetPrecondition("ACT_0", "ATOM_-1", true)
	require.True(t, errors.Is(err, ErrCapacityExceeded))
	require.Equal(t, MaxAtoms, ap.NumAtoms())
	require.Equal(t, 1, ap.NumActions())

	// a full atom table must not register the new action either
	err = ap.SetPrecondition("ACT_1", "ATOM_-1", true)
	require.True(t, errors.Is(err, ErrCapacityExceeded))
	require.Equal(t, 1, ap.NumActions())

	ws := NewWorldState()
	err = ap.SetAtom(&ws, "ATOM_-1", true)
	require.True(t, errors.Is(err, ErrCapacityExceeded))
	require.Equal(t, NewWorldState(), ws)

	after, err := ap.Action("ACT_0")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestActionPlanner_ConfiguredLimits(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner(WithMaxAtoms(2), WithMaxActions(1))
	require.NoError(t, ap.SetPrecondition("a", "x", true))
	require.NoError(t, ap.SetEffect("a", "y", true))
	require.True(t, errors.Is(ap.SetEffect("a", "z", true), ErrCapacityExceeded))
	require.True(t, errors.Is(ap.SetEffect("b", "x", true), ErrCapacityExceeded))
	require.Equal(t, 1, ap.MaxActions())

	// limits survive Clear
	ap.Clear()
	require.NoError(t, ap.SetPrecondition("b", "x", true))
	require.True(t, errors.Is(ap.SetEffect("c", "x", true), ErrCapacityExceeded))

	clamped := NewActionPlanner(WithMaxAtoms(1000), WithMaxActions(-3))
	require.Equal(t, 1, clamped.MaxActions())
}

func TestActionPlanner_InvalidNames(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	require.True(t, errors.Is(ap.SetPrecondition("", "x", true), ErrInvalidName))
	require.True(t, errors.Is(ap.SetEffect("a", "", true), ErrInvalidName))
	ws := NewWorldState()
	require.True(t, errors.Is(ap.SetAtom(&ws, "", true), ErrInvalidName))
	require.Zero(t, ap.NumActions())
	require.Zero(t, ap.NumAtoms())
}

func TestActionPlanner_SetGetAtom(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	ws := NewWorldState()
	for i, v := range []bool{true, false, true, true, false} {
		name := fmt.Sprintf("atom%d", i)
		require.NoError(t, ap.SetAtom(&ws, name, v))
		got, err := ap.Atom(ws, name)
		require.NoError(t, err)
		require.Equal(t, v, got)
		idx, ok := ap.AtomIndex(name)
		require.True(t, ok)
		require.True(t, ws.Cares(idx))
	}

	// overwrite keeps the same bit
	require.NoError(t, ap.SetAtom(&ws, "atom0", false))
	got, err := ap.Atom(ws, "atom0")
	require.NoError(t, err)
	require.False(t, got)
	require.Equal(t, 5, ap.NumAtoms())

	_, err = ap.Atom(ws, "missing")
	require.True(t, errors.Is(err, ErrNotFound))

	// registered elsewhere, don't-care here: reads false
	other := NewWorldState()
	got, err = ap.Atom(other, "atom2")
	require.NoError(t, err)
	require.False(t, got)
}

func TestActionPlanner_SetCost(t *testing.T) {
	t.Parallel()

	ap := NewActionPlanner()
	err := ap.SetCost("detonatebomb", 5)
	require.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, ap.SetPrecondition("detonatebomb", "armedwithbomb", true))
	require.NoError(t, ap.SetCost("detonatebomb", 5))
	act, err := ap.Action("detonatebomb")
	require.NoError(t, err)
	require.Equal(t, 5, act.Cost)

	require.NoError(t, ap.SetCost("detonatebomb", 0))
	err = ap.SetCost("detonatebomb", -1)
	require.True(t, errors.Is(err, ErrInvalidCost))
	act, err = ap.Action("detonatebomb")
	require.NoError(t, err)
	require.Equal(t, 0, act.Cost)
}

func TestActionPlanner_Transitions(t *testing.T) {
	t.Parallel()

	ap := newShooterPlanner(t)
	start := shooterStart(t, ap)

	buf := make([]Transition, MaxActions)
	n := ap.Transitions(start, buf)
	require.Equal(t, 2, n)
	require.Equal(t, "scout", buf[0].Action)
	require.Equal(t, "load", buf[1].Action)

	visible, err := ap.Atom(buf[0].State, "enemyvisible")
	require.NoError(t, err)
	require.True(t, visible)
	loaded, err := ap.Atom(buf[1].State, "weaponloaded")
	require.NoError(t, err)
	require.True(t, loaded)
	for _, tr := range buf[:n] {
		require.Equal(t, 1, tr.Cost)
	}

	// truncation, not failure
	require.Equal(t, 1, ap.Transitions(start, buf[:1]))
	require.Equal(t, "scout", buf[0].Action)
	require.Zero(t, ap.Transitions(start, nil))
}

func TestActionPlanner_TransitionsRespectPreconditions(t *testing.T) {
	t.Parallel()

	ap := newShooterPlanner(t)
	ws := NewWorldState()
	require.NoError(t, ap.SetAtom(&ws, "armedwithbomb", true))
	require.NoError(t, ap.SetAtom(&ws, "nearenemy", true))

	buf := make([]Transition, MaxActions)
	n := ap.Transitions(ws, buf)
	require.Equal(t, 1, n)
	assert.Equal(t, "detonatebomb", buf[0].Action)
	assert.Equal(t, 5, buf[0].Cost)

	ok, err := ap.Applicable("detonatebomb", ws)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = ap.Applicable("scout", ws)
	require.NoError(t, err)
	require.False(t, ok)
	_, err = ap.Applicable("dance", ws)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestActionPlanner_ListsInOrder(t *testing.T) {
	t.Parallel()

	ap := newShooterPlanner(t)
	require.Equal(t, []string{"scout", "approach", "aim", "shoot", "load", "detonatebomb", "flee"}, ap.ActionNames())
	require.Equal(t, []string{"armedwithgun", "enemyvisible", "nearenemy", "weaponloaded", "enemylinedup", "enemyalive", "armedwithbomb", "alive"}, ap.AtomNames())
}

func newShooterPlanner(t *testing.T) *ActionPlanner {
	t.Helper()
	ap := NewActionPlanner()
	for _, c := range []struct {
		action, atom string
		value, pre   bool
	}{
		{"scout", "armedwithgun", true, true},
		{"scout", "enemyvisible", true, false},
		{"approach", "enemyvisible", true, true},
		{"approach", "nearenemy", true, false},
		{"aim", "enemyvisible", true, true},
		{"aim", "weaponloaded", true, true},
		{"aim", "enemylinedup", true, false},
		{"shoot", "enemylinedup", true, true},
		{"shoot", "enemyalive", false, false},
		{"load", "armedwithgun", true, true},
		{"load", "weaponloaded", true, false},
		{"detonatebomb", "armedwithbomb", true, true},
		{"detonatebomb", "nearenemy", true, true},
		{"detonatebomb", "alive", false, false},
		{"detonatebomb", "enemyalive", false, false},
		{"flee", "enemyvisible", true, true},
		{"flee", "nearenemy", false, false},
	} {
		if c.pre {
			require.NoError(t, ap.SetPrecondition(c.action, c.atom, c.value))
		} else {
			require.NoError(t, ap.SetEffect(c.action, c.atom, c.value))
		}
	}
	require.NoError(t, ap.SetCost("detonatebomb", 5))
	return ap
}

func shooterStart(t *testing.T, ap *ActionPlanner) WorldState {
	t.Helper()
	ws := NewWorldState()
	for _, kv := range []struct {
		atom  string
		value bool
	}{
		{"enemyvisible", false},
		{"armedwithgun", true},
		{"weaponloaded", false},
		{"enemylinedup", false},
		{"enemyalive", true},
		{"armedwithbomb", true},
		{"nearenemy", false},
		{"alive", true},
	} {
		require.NoError(t, ap.SetAtom(&ws, kv.atom, kv.value))
	}
	return ws
}
