package goap

import (
	"fmt"
	"math/bits"
)

// Bitfield holds one bit per atom. Bit i belongs to the atom registered i-th.
type Bitfield = uint64

// allBits is the don't-care mask of a cleared world state.
const allBits Bitfield = ^Bitfield(0)

// WorldState describes the world by listing values for all known atoms.
//
// Values holds the truth assignment, DontCare marks atoms whose value is
// unconstrained. A set bit in DontCare means the corresponding bit in Values
// carries no meaning for matching.
//
// The zero value cares about every atom and has them all false; use
// [NewWorldState] or [WorldState.Clear] to start from "don't care".
type WorldState struct {
	Values   Bitfield
	DontCare Bitfield
}

// NewWorldState returns a cleared world state: every atom is don't-care.
func NewWorldState() WorldState {
	return WorldState{DontCare: allBits}
}

// Clear marks every atom as don't-care and resets all values to false.
func (ws *WorldState) Clear() {
	ws.Values = 0
	ws.DontCare = allBits
}

// Set writes the value of the atom at bit idx and marks it as cared about.
func (ws *WorldState) Set(idx int, value bool) {
	mask := Bitfield(1) << uint(idx)
	if value {
		ws.Values |= mask
	} else {
		ws.Values &^= mask
	}
	ws.DontCare &^= mask
}

// Get reports the value bit of the atom at idx. Don't-care atoms read as
// whatever was last written, false if never set.
func (ws WorldState) Get(idx int) bool {
	return ws.Values&(Bitfield(1)<<uint(idx)) != 0
}

// Cares reports whether the atom at idx is constrained in this state.
func (ws WorldState) Cares(idx int) bool {
	return ws.DontCare&(Bitfield(1)<<uint(idx)) == 0
}

// Care returns the care-mask, the complement of DontCare.
func (ws WorldState) Care() Bitfield {
	return ^ws.DontCare
}

// Matches reports whether ws satisfies cond: the values agree on every atom
// cond cares about. Atoms that are don't-care in cond impose no constraint,
// whatever their status in ws. Preconditions and goals are both checked this
// way.
func (ws WorldState) Matches(cond WorldState) bool {
	care := cond.Care()
	return ws.Values&care == cond.Values&care
}

// Apply returns the state that results from applying effect to ws. Atoms the
// effect cares about are overwritten by the effect's values and become cared
// about; every other atom passes through unchanged, value and care status
// both.
func (ws WorldState) Apply(effect WorldState) WorldState {
	unaffected := effect.DontCare
	affected := ^unaffected
	return WorldState{
		Values:   ws.Values&unaffected | effect.Values&affected,
		DontCare: ws.DontCare & effect.DontCare,
	}
}

// Distance counts the atoms that goal cares about and whose value differs in
// ws. It never overestimates the number of actions needed, since each such
// atom needs at least one effect to fix it.
func (ws WorldState) Distance(goal WorldState) int {
	care := goal.Care()
	return bits.OnesCount64((ws.Values & care) ^ (goal.Values & care))
}

// String renders the raw bitfields, for debugging without a planner at hand.
// Use [ActionPlanner.DescribeState] for a named rendering.
func (ws WorldState) String() string {
	return fmt.Sprintf("WorldState{values=%#016x, dontcare=%#016x}", ws.Values, ws.DontCare)
}
