package goap

import (
	"github.com/cockroachdb/errors"
)

const (
	// MaxAtoms is the width of a [Bitfield], and the largest atom table a
	// planner may be configured with.
	MaxAtoms = 64

	// MaxActions is the largest action table a planner may be configured with.
	MaxActions = 64

	// DefaultCost is the cost of an action until SetCost overrides it.
	DefaultCost = 1
)

// Option configures an ActionPlanner in NewActionPlanner.
type Option func(*ActionPlanner)

// WithMaxAtoms limits the atom table to n entries. Values outside
// [1, MaxAtoms] are clamped.
func WithMaxAtoms(n int) Option {
	return func(ap *ActionPlanner) {
		ap.maxAtoms = clamp(n, 1, MaxAtoms)
	}
}

// WithMaxActions limits the action table to n entries. Values outside
// [1, MaxActions] are clamped.
func WithMaxActions(n int) Option {
	return func(ap *ActionPlanner) {
		ap.maxActions = clamp(n, 1, MaxActions)
	}
}

// ActionPlanner keeps track of world state atoms and the action repertoire.
//
// It is the single authority for name to bit index mapping, and for whether
// an action applies to a state. The zero value is an empty planner with the
// default table sizes. It is mutated only through the registration
// and setter methods, and holds no search-time state, so once configured it
// may be shared read-only between goroutines.
type ActionPlanner struct {
	atoms    [MaxAtoms]string
	numAtoms int
	maxAtoms int

	actions    [MaxActions]string
	pre        [MaxActions]WorldState
	post       [MaxActions]WorldState
	costs      [MaxActions]int
	numActions int
	maxActions int
}

// Action is a read-only view of one registered action.
type Action struct {
	Name         string
	Precondition WorldState
	Effect       WorldState
	Cost         int
}

// Transition is one edge out of a world state: the action taken, the state
// it leads to, and what it costs.
type Transition struct {
	Action string
	State  WorldState
	Cost   int
}

// NewActionPlanner returns an empty planner, sized to the package maximums
// unless limited by opts.
func NewActionPlanner(opts ...Option) *ActionPlanner {
	ap := &ActionPlanner{
		maxAtoms:   MaxAtoms,
		maxActions: MaxActions,
	}
	for _, opt := range opts {
		opt(ap)
	}
	ap.Clear()
	return ap
}

// Clear forgets every atom and action. Configured table limits are kept.
func (ap *ActionPlanner) Clear() {
	if ap.maxAtoms == 0 {
		ap.maxAtoms = MaxAtoms
	}
	if ap.maxActions == 0 {
		ap.maxActions = MaxActions
	}
	ap.numAtoms = 0
	ap.numActions = 0
	for i := range ap.atoms {
		ap.atoms[i] = ""
	}
	for i := range ap.actions {
		ap.actions[i] = ""
		ap.costs[i] = 0
		ap.pre[i].Clear()
		ap.post[i].Clear()
	}
}

// NumAtoms returns the number of registered atoms.
func (ap *ActionPlanner) NumAtoms() int { return ap.numAtoms }

// NumActions returns the number of registered actions.
func (ap *ActionPlanner) NumActions() int { return ap.numActions }

// MaxActions returns the configured action table size. A transition buffer
// at least this long never drops neighbours.
func (ap *ActionPlanner) MaxActions() int {
	if ap.maxActions == 0 {
		return MaxActions
	}
	return ap.maxActions
}

// AtomNames returns the registered atoms in bit order.
func (ap *ActionPlanner) AtomNames() []string {
	return append([]string(nil), ap.atoms[:ap.numAtoms]...)
}

// ActionNames returns the registered actions in registration order.
func (ap *ActionPlanner) ActionNames() []string {
	return append([]string(nil), ap.actions[:ap.numActions]...)
}

// AtomIndex returns the bit position of the named atom.
func (ap *ActionPlanner) AtomIndex(name string) (int, bool) {
	for i := 0; i < ap.numAtoms; i++ {
		if ap.atoms[i] == name {
			return i, true
		}
	}
	return -1, false
}

// ActionIndex returns the registration slot of the named action.
func (ap *ActionPlanner) ActionIndex(name string) (int, bool) {
	for i := 0; i < ap.numActions; i++ {
		if ap.actions[i] == name {
			return i, true
		}
	}
	return -1, false
}

// Action returns a copy of the named action.
func (ap *ActionPlanner) Action(name string) (Action, error) {
	idx, ok := ap.ActionIndex(name)
	if !ok {
		return Action{}, errors.Wrapf(ErrNotFound, "action %q", name)
	}
	return Action{
		Name:         ap.actions[idx],
		Precondition: ap.pre[idx],
		Effect:       ap.post[idx],
		Cost:         ap.costs[idx],
	}, nil
}

// resolve finds or registers the named atom and, when withAction is set,
// the named action. Nothing is registered unless both fit.
func (ap *ActionPlanner) resolve(withAction bool, action, atom string) (actIdx, atmIdx int, err error) {
	if atom == "" || (withAction && action == "") {
		return -1, -1, errors.Wrapf(ErrInvalidName, "action %q, atom %q", action, atom)
	}
	if ap.maxAtoms == 0 || ap.maxActions == 0 {
		ap.Clear()
	}
	actIdx, actOK := -1, true
	if withAction {
		actIdx, actOK = ap.ActionIndex(action)
		if !actOK && ap.numActions >= ap.maxActions {
			return -1, -1, errors.Wrapf(ErrCapacityExceeded, "action %q: table holds %d actions", action, ap.maxActions)
		}
	}
	atmIdx, atmOK := ap.AtomIndex(atom)
	if !atmOK && ap.numAtoms >= ap.maxAtoms {
		return -1, -1, errors.Wrapf(ErrCapacityExceeded, "atom %q: table holds %d atoms", atom, ap.maxAtoms)
	}
	if !actOK {
		actIdx = ap.numActions
		ap.actions[actIdx] = action
		ap.costs[actIdx] = DefaultCost
		ap.numActions++
	}
	if !atmOK {
		atmIdx = ap.numAtoms
		ap.atoms[atmIdx] = atom
		ap.numAtoms++
	}
	return actIdx, atmIdx, nil
}

// SetAtom sets the named atom in ws, registering the atom on first use.
func (ap *ActionPlanner) SetAtom(ws *WorldState, atom string, value bool) error {
	_, idx, err := ap.resolve(false, "", atom)
	if err != nil {
		return err
	}
	ws.Set(idx, value)
	return nil
}

// Atom reads the named atom from ws. Atoms that ws does not care about read
// as their stored value bit, false unless previously set.
func (ap *ActionPlanner) Atom(ws WorldState, atom string) (bool, error) {
	idx, ok := ap.AtomIndex(atom)
	if !ok {
		return false, errors.Wrapf(ErrNotFound, "atom %q", atom)
	}
	return ws.Get(idx), nil
}

// SetPrecondition requires atom to equal value before action can be taken.
// Both the action and the atom are registered on first use.
func (ap *ActionPlanner) SetPrecondition(action, atom string, value bool) error {
	actIdx, atmIdx, err := ap.resolve(true, action, atom)
	if err != nil {
		return errors.Wrap(err, "set precondition")
	}
	ap.pre[actIdx].Set(atmIdx, value)
	return nil
}

// SetEffect makes action set atom to value. Both the action and the atom are
// registered on first use.
func (ap *ActionPlanner) SetEffect(action, atom string, value bool) error {
	actIdx, atmIdx, err := ap.resolve(true, action, atom)
	if err != nil {
		return errors.Wrap(err, "set effect")
	}
	ap.post[actIdx].Set(atmIdx, value)
	return nil
}

// SetCost overrides the cost of an already registered action. Negative costs
// are rejected.
func (ap *ActionPlanner) SetCost(action string, cost int) error {
	idx, ok := ap.ActionIndex(action)
	if !ok {
		return errors.Wrapf(ErrNotFound, "set cost: action %q", action)
	}
	if cost < 0 {
		return errors.Wrapf(ErrInvalidCost, "set cost: action %q: %d is negative", action, cost)
	}
	ap.costs[idx] = cost
	return nil
}

// Applicable reports whether the named action's precondition holds in ws.
func (ap *ActionPlanner) Applicable(action string, ws WorldState) (bool, error) {
	idx, ok := ap.ActionIndex(action)
	if !ok {
		return false, errors.Wrapf(ErrNotFound, "action %q", action)
	}
	return ws.Matches(ap.pre[idx]), nil
}

// Transitions lists, in registration order, every action whose precondition
// holds in from, together with the resulting state and the action's cost.
// At most len(dst) transitions are written; the count is returned. A dst
// shorter than MaxActions() may silently drop neighbours.
func (ap *ActionPlanner) Transitions(from WorldState, dst []Transition) int {
	n := 0
	for i := 0; i < ap.numActions && n < len(dst); i++ {
		if !from.Matches(ap.pre[i]) {
			continue
		}
		dst[n] = Transition{
			Action: ap.actions[i],
			State:  from.Apply(ap.post[i]),
			Cost:   ap.costs[i],
		}
		n++
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
