// Package goap implements the world model of a goal-oriented action planner.
//
// Atoms are named boolean facts, bound to a fixed bit position the first time
// they are referenced. A [WorldState] is a pair of bitfields: the values of
// every atom, and a mask of atoms whose value does not matter. An
// [ActionPlanner] holds the atom table and the action repertoire, where each
// action carries a precondition state, an effect state and a cost.
//
// Usage:
//
//	ap := goap.NewActionPlanner()
//	_ = ap.SetPrecondition("scout", "armedwithgun", true)
//	_ = ap.SetEffect("scout", "enemyvisible", true)
//
//	start := goap.NewWorldState()
//	_ = ap.SetAtom(&start, "armedwithgun", true)
//
//	var buf [goap.MaxActions]goap.Transition
//	for _, t := range buf[:ap.Transitions(start, buf[:])] {
//	    fmt.Println(t.Action, ap.DescribeState(t.State), t.Cost)
//	}
//
// The planner is configured once and is read-only afterwards; the search in
// package astar only ever reads it, so a single planner may back concurrent
// searches.
package goap
