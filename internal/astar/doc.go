// Package astar finds the cheapest sequence of actions that takes a world
// state to one matching a goal.
//
// It runs A* over the graph whose nodes are world states and whose edges are
// the transitions enumerated by a goap.ActionPlanner. The heuristic is the
// number of atoms the goal cares about that still differ, which never
// overestimates the remaining number of actions.
//
// Two entry points are provided:
//
//   - Searcher.Plan: reusable, allocation-free search writing into caller
//     supplied buffers.
//   - Solve: one-shot convenience that allocates its own buffers and returns
//     a Plan.
//
// The open and closed sets are flat arrays of bounded capacity, scanned
// linearly. Running out of either is reported as ErrResourceExhausted rather
// than growing, which bounds the work any single search can do.
package astar
