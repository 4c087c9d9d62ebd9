package astar

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/joeycumines/goap/internal/goap"
)

const (
	// DefaultMaxOpen is the default capacity of the open set.
	DefaultMaxOpen = 1024

	// DefaultMaxClosed is the default capacity of the closed set.
	DefaultMaxClosed = 1024
)

// Option configures a Searcher.
type Option func(*Searcher)

// WithMaxOpen sets the capacity of the open set. Values below 1 are ignored.
func WithMaxOpen(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.maxOpen = n
		}
	}
}

// WithMaxClosed sets the capacity of the closed set. Values below 1 are
// ignored.
func WithMaxClosed(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.maxClosed = n
		}
	}
}

// Searcher holds the working storage of the search. All of it is allocated
// by New and reused by every call to Plan, so a search does not allocate
// while it expands nodes.
//
// A Searcher must not be used by more than one goroutine at a time. The
// planner it searches is only read, so any number of Searchers may share one.
type Searcher struct {
	maxOpen   int
	maxClosed int

	open   nodeSet
	closed nodeSet
	path   []node
	trans  [goap.MaxActions]goap.Transition
	seq    uint64
}

// Result describes the outcome of Searcher.Plan.
type Result struct {
	// Cost is the total cost of the plan.
	Cost int
	// Steps is the number of actions in the plan. With ErrBufferTooSmall it
	// is the length the buffers would have needed.
	Steps int
	// Expanded is the number of nodes moved to the closed set.
	Expanded int
}

// New returns a Searcher with preallocated open and closed sets.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		maxOpen:   DefaultMaxOpen,
		maxClosed: DefaultMaxClosed,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.open = newNodeSet(s.maxOpen)
	s.closed = newNodeSet(s.maxClosed)
	s.path = make([]node, 0, s.MaxSteps())
	return s
}

// MaxSteps is the longest plan this Searcher can produce. Buffers of this
// length never fail with ErrBufferTooSmall.
func (s *Searcher) MaxSteps() int { return s.maxOpen + s.maxClosed + 1 }

// Plan searches for the cheapest sequence of actions leading from start to a
// state matching goal, as judged by goal's care-mask.
//
// The plan is written to actions, and the state after each action to states.
// The usable length is the shorter of the two, or len(actions) when states is
// nil. On success the first Result.Steps entries are filled in.
//
// Errors are ErrUnreachable, ErrResourceExhausted and ErrBufferTooSmall,
// wrapped. A start that already matches goal yields an empty plan of cost 0.
func (s *Searcher) Plan(ap *goap.ActionPlanner, start, goal goap.WorldState, actions []string, states []goap.WorldState) (Result, error) {
	var res Result

	s.open.reset()
	s.closed.reset()
	s.seq = 0
	s.push(node{
		ws:     start,
		h:      start.Distance(goal),
		f:      start.Distance(goal),
		parent: start,
	})

	for {
		if s.open.len() == 0 {
			slog.Debug("astar: no path", "expanded", res.Expanded)
			return res, errors.Wrapf(ErrUnreachable, "expanded %d states", res.Expanded)
		}

		cur := s.open.remove(s.open.lowest())

		if cur.ws.Matches(goal) {
			res.Cost = cur.f
			steps, err := s.reconstruct(cur, actions, states)
			res.Steps = steps
			if err != nil {
				return res, err
			}
			slog.Debug("astar: plan found", "cost", res.Cost, "steps", res.Steps, "expanded", res.Expanded)
			return res, nil
		}

		if s.closed.full() {
			return res, errors.Wrapf(ErrResourceExhausted, "closed set overflow at %d nodes", s.maxClosed)
		}
		s.closed.add(cur)
		res.Expanded++

		n := ap.Transitions(cur.ws, s.trans[:])
		for i := 0; i < n; i++ {
			t := &s.trans[i]
			cost := cur.g + t.Cost

			io := s.open.find(t.State)
			if io >= 0 && cost < s.open.nodes[io].g {
				// new path is better
				s.open.remove(io)
				io = -1
			}
			ic := s.closed.find(t.State)
			if ic >= 0 && cost < s.closed.nodes[ic].g {
				s.closed.remove(ic)
				ic = -1
			}
			if io >= 0 || ic >= 0 {
				continue
			}

			if s.open.full() {
				return res, errors.Wrapf(ErrResourceExhausted, "open set overflow at %d nodes", s.maxOpen)
			}
			h := t.State.Distance(goal)
			s.push(node{
				ws:     t.State,
				g:      cost,
				h:      h,
				f:      cost + h,
				action: t.Action,
				parent: cur.ws,
			})
		}
	}
}

func (s *Searcher) push(n node) {
	n.seq = s.seq
	s.seq++
	s.open.add(n)
}

// reconstruct walks parent links from the goal node back to the start and
// writes the path, in order, into the caller's buffers. It returns the path
// length even when the buffers are too short.
//
// A parent is normally closed, but it may have been reopened after a cheaper
// path to it was found, so the open set is consulted too.
func (s *Searcher) reconstruct(goalNode node, actions []string, states []goap.WorldState) (int, error) {
	s.path = s.path[:0]
	cur := goalNode
	for cur.action != "" {
		if len(s.path) == cap(s.path) {
			return len(s.path), errors.AssertionFailedf("astar: parent chain longer than %d nodes", cap(s.path))
		}
		s.path = append(s.path, cur)
		if i := s.closed.find(cur.parent); i >= 0 {
			cur = s.closed.nodes[i]
		} else if i := s.open.find(cur.parent); i >= 0 {
			cur = s.open.nodes[i]
		} else {
			return len(s.path), errors.AssertionFailedf("astar: parent of step %q is not in the search", cur.action)
		}
	}

	steps := len(s.path)
	size := len(actions)
	if states != nil && len(states) < size {
		size = len(states)
	}
	if steps > size {
		return steps, errors.Wrapf(ErrBufferTooSmall, "plan of %d steps, buffer of %d", steps, size)
	}

	for i := 0; i < steps; i++ {
		n := &s.path[steps-1-i]
		actions[i] = n.action
		if states != nil {
			states[i] = n.ws
		}
	}
	return steps, nil
}
