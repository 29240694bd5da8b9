package evolution

import (
	"fmt"
	"sort"
	"strings"

	"github.com/signalnine/evolvekit/evolution/operators"
	"github.com/signalnine/evolvekit/randsrc"
)

var selectors = map[string]func(cfg *Config, rng randsrc.Source) Selector{
	"elite":      func(*Config, randsrc.Source) Selector { return NewEliteSelector() },
	"tournament": func(cfg *Config, rng randsrc.Source) Selector { return NewTournamentSelector(cfg.TournamentSize, rng) },
	"roulette":   func(_ *Config, rng randsrc.Source) Selector { return NewRouletteSelector(rng) },
	"rank":       func(_ *Config, rng randsrc.Source) Selector { return NewRankSelector(rng) },
	"sus":        func(_ *Config, rng randsrc.Source) Selector { return NewSUSSelector(rng) },
}

var crossovers = map[string]func() CrossoverOperator{
	"onepoint": func() CrossoverOperator { return NewOnePointCrossover() },
	"twopoint": func() CrossoverOperator { return NewTwoPointCrossover() },
	"uniform":  func() CrossoverOperator { return NewUniformCrossover(0.5) },
	"ordered":  func() CrossoverOperator { return NewOrderedCrossover() },
}

var reinsertions = map[string]func() Reinsertion{
	"elitist": func() Reinsertion { return NewElitistReinsertion() },
	"pure":    func() Reinsertion { return NewPureReinsertion() },
}

// NewSelector returns the selector registered under name.
func NewSelector(name string, cfg *Config, rng randsrc.Source) (Selector, error) {
	ctor, ok := selectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown selection: %s (available: %v)", ErrInvalidConfiguration, name, SelectionNames())
	}
	return ctor(cfg, rng), nil
}

// NewCrossover returns the crossover registered under name.
func NewCrossover(name string) (CrossoverOperator, error) {
	ctor, ok := crossovers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown crossover: %s (available: %v)", ErrInvalidConfiguration, name, CrossoverNames())
	}
	return ctor(), nil
}

// NewReinsertion returns the reinsertion registered under name.
func NewReinsertion(name string) (Reinsertion, error) {
	ctor, ok := reinsertions[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reinsertion: %s (available: %v)", ErrInvalidConfiguration, name, ReinsertionNames())
	}
	return ctor(), nil
}

// NewMutation resolves a mutation name. Names joined with "+" build a
// pipeline, e.g. "twors+reverse".
func NewMutation(name string) (operators.MutationOperator, error) {
	parts := strings.Split(name, "+")
	ops := make([]operators.MutationOperator, 0, len(parts))
	for _, part := range parts {
		op, err := operators.Get(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		ops = append(ops, op)
	}
	if len(ops) == 1 {
		return ops[0], nil
	}
	return operators.NewMutationPipeline(ops...), nil
}

// SelectionNames returns the registered selection names, sorted.
func SelectionNames() []string { return sortedKeys(selectors) }

// CrossoverNames returns the registered crossover names, sorted.
func CrossoverNames() []string { return sortedKeys(crossovers) }

// ReinsertionNames returns the registered reinsertion names, sorted.
func ReinsertionNames() []string { return sortedKeys(reinsertions) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
