// Package fitness defines how chromosomes are scored.
package fitness

import (
	"github.com/signalnine/evolvekit/chromosome"
)

// Evaluator scores a chromosome. Higher is better. Implementations must be
// pure and safe to call concurrently on distinct chromosomes. A returned error
// faults the run; it is never retried.
type Evaluator interface {
	Evaluate(c chromosome.Chromosome) (float64, error)
}

// Func adapts a plain function to the Evaluator interface.
type Func func(c chromosome.Chromosome) (float64, error)

// Evaluate calls f(c).
func (f Func) Evaluate(c chromosome.Chromosome) (float64, error) {
	return f(c)
}

// Infeasible is the conventional score for solutions that break a hard
// constraint. The engine ranks it like any other value.
const Infeasible = 0.0
