package astar

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrUnreachable is returned when the open set is exhausted without
	// reaching a state that matches the goal.
	ErrUnreachable = errors.New("astar: goal unreachable")

	// ErrResourceExhausted is returned when the open or closed set would grow
	// past its capacity.
	ErrResourceExhausted = errors.New("astar: search capacity exhausted")

	// ErrBufferTooSmall is returned when the plan found does not fit the
	// caller's output buffers. Result.Steps still reports its full length.
	ErrBufferTooSmall = errors.New("astar: plan buffer too small")
)
