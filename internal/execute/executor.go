// Package execute carries out a plan, one action at a time, as a
// go-behaviortree sequence.
//
// Each step checks that its action still applies to the current world state,
// runs the action's Handler, then applies the action's effect. A step whose
// handler returns [bt.Running] is ticked again until it settles. The
// executor never re-plans; a failed step ends the run.
package execute

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	bt "github.com/joeycumines/go-behaviortree"
	"github.com/joeycumines/goap/internal/goap"
)

var (
	// ErrPreconditionFailed is returned when a step's action no longer
	// applies to the world state reached by the steps before it.
	ErrPreconditionFailed = errors.New("execute: precondition failed")

	// ErrActionFailed is returned when a handler reports bt.Failure.
	ErrActionFailed = errors.New("execute: action failed")
)

// DefaultInterval is the pause between ticks while a step is running.
const DefaultInterval = 10 * time.Millisecond

// Step is what a Handler is told about the action it performs.
type Step struct {
	RunID  string
	Index  int
	Action string
	// State is the world state before the action's effect is applied.
	State goap.WorldState
	// Board is shared by every step of the run.
	Board *Blackboard
}

// Handler performs an action. It returns bt.Running to be called again on
// the next tick, bt.Success to have the effect applied, or bt.Failure.
type Handler func(ctx context.Context, step Step) (bt.Status, error)

// Executor runs plans against one planner.
type Executor struct {
	Planner *goap.ActionPlanner

	// Handlers maps action names to their implementations. Actions without a
	// handler succeed immediately.
	Handlers map[string]Handler

	// Interval between ticks of a running step. Zero means DefaultInterval.
	Interval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	// State is the world state after the last completed step.
	State goap.WorldState
	// Completed is the number of steps whose effects were applied.
	Completed int
	// Board holds the atoms of State, and whatever the handlers stored.
	Board *Blackboard
}

// Run executes plan from start. The returned Result is valid even on error,
// and describes how far the run got.
func (e *Executor) Run(ctx context.Context, start goap.WorldState, plan []string) (*Result, error) {
	if e.Planner == nil {
		return nil, errors.New("execute: no planner")
	}
	res := &Result{
		RunID: uuid.NewString(),
		State: start,
		Board: new(Blackboard),
	}
	res.Board.Load(e.Planner, start)
	logger := e.logger().With("run", res.RunID)

	steps := make([]bt.Node, len(plan))
	for i, name := range plan {
		action, err := e.Planner.Action(name)
		if err != nil {
			return res, errors.Wrapf(err, "step %d", i)
		}
		steps[i] = bt.New(e.step(ctx, res, logger, i, action))
	}
	root := bt.New(bt.Memorize(bt.Sequence), steps...)

	logger.Debug("execute: run started", "steps", len(plan), "state", e.Planner.DescribeState(start))

	var ticker *time.Ticker
	for {
		status, err := root.Tick()
		if err != nil {
			logger.Warn("execute: run failed", "completed", res.Completed, "error", err)
			return res, err
		}
		switch status {
		case bt.Success:
			logger.Debug("execute: run finished", "completed", res.Completed, "state", e.Planner.DescribeState(res.State))
			return res, nil
		case bt.Running:
		default:
			return res, errors.Wrapf(ErrActionFailed, "after %d steps", res.Completed)
		}

		if ticker == nil {
			ticker = time.NewTicker(e.interval())
			defer ticker.Stop()
		}
		select {
		case <-ctx.Done():
			return res, errors.Wrapf(ctx.Err(), "after %d steps", res.Completed)
		case <-ticker.C:
		}
	}
}

// step builds the tick for plan position i. The precondition is checked on
// the first tick only, since a running handler owns the world until it
// settles.
func (e *Executor) step(ctx context.Context, res *Result, logger *slog.Logger, i int, action goap.Action) bt.Tick {
	handler := e.Handlers[action.Name]
	started := false
	return func([]bt.Node) (bt.Status, error) {
		if err := ctx.Err(); err != nil {
			return bt.Failure, errors.Wrapf(err, "step %d %q", i, action.Name)
		}
		if !started {
			if !res.State.Matches(action.Precondition) {
				return bt.Failure, errors.Wrapf(ErrPreconditionFailed, "step %d %q in state %s",
					i, action.Name, e.Planner.DescribeState(res.State))
			}
			started = true
			logger.Debug("execute: step started", "step", i, "action", action.Name)
		}

		if handler != nil {
			status, err := handler(ctx, Step{
				RunID:  res.RunID,
				Index:  i,
				Action: action.Name,
				State:  res.State,
				Board:  res.Board,
			})
			if err != nil {
				return bt.Failure, errors.Wrapf(err, "step %d %q", i, action.Name)
			}
			switch status {
			case bt.Success:
			case bt.Running:
				return bt.Running, nil
			default:
				return bt.Failure, errors.Wrapf(ErrActionFailed, "step %d %q", i, action.Name)
			}
		}

		res.State = res.State.Apply(action.Effect)
		res.Completed++
		res.Board.Load(e.Planner, res.State)
		logger.Info("execute: step done", "step", i, "action", action.Name, "cost", action.Cost)
		return bt.Success, nil
	}
}

func (e *Executor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Executor) interval() time.Duration {
	if e.Interval > 0 {
		return e.Interval
	}
	return DefaultInterval
}
