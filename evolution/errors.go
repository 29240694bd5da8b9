package evolution

import "errors"

var (
	// ErrInvalidConfiguration covers bad population bounds, probabilities out
	// of range, unknown operator names and selection counts that exceed the pool.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidState is returned when the engine is used out of order,
	// e.g. Start on an engine that already ran.
	ErrInvalidState = errors.New("invalid engine state")

	// ErrEvaluationFailure wraps an error returned by a fitness evaluator.
	ErrEvaluationFailure = errors.New("fitness evaluation failed")
)
