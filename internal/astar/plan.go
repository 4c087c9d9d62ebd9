package astar

import (
	"strings"

	"github.com/joeycumines/goap/internal/goap"
)

// Step is one action of a plan and the world state it leads to.
type Step struct {
	Action string
	State  goap.WorldState
}

// Plan is an ordered sequence of actions from a start state to the goal.
type Plan struct {
	Cost     int
	Steps    []Step
	Expanded int
}

// Actions returns the action names of the plan, in order.
func (p *Plan) Actions() []string {
	names := make([]string, len(p.Steps))
	for i, st := range p.Steps {
		names[i] = st.Action
	}
	return names
}

// String renders the plan as "a -> b -> c".
func (p *Plan) String() string {
	return strings.Join(p.Actions(), " -> ")
}

// Solve is a one-shot search with a fresh Searcher and buffers large enough
// for any plan it can find.
func Solve(ap *goap.ActionPlanner, start, goal goap.WorldState, opts ...Option) (*Plan, error) {
	s := New(opts...)
	actions := make([]string, s.MaxSteps())
	states := make([]goap.WorldState, s.MaxSteps())
	res, err := s.Plan(ap, start, goal, actions, states)
	if err != nil {
		return nil, err
	}
	p := &Plan{
		Cost:     res.Cost,
		Steps:    make([]Step, res.Steps),
		Expanded: res.Expanded,
	}
	for i := range p.Steps {
		p.Steps[i] = Step{Action: actions[i], State: states[i]}
	}
	return p, nil
}
