package goap

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrCapacityExceeded is returned when registering an atom or action
	// would exceed the planner's table size.
	ErrCapacityExceeded = errors.New("goap: capacity exceeded")

	// ErrNotFound is returned when an operation references an atom or action
	// that was never registered.
	ErrNotFound = errors.New("goap: not found")

	// ErrInvalidName is returned when an atom or action name is empty.
	ErrInvalidName = errors.New("goap: invalid name")

	// ErrInvalidCost is returned by SetCost for negative costs, which would
	// break the optimality of the search.
	ErrInvalidCost = errors.New("goap: invalid cost")
)
