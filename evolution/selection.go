package evolution

import (
	"fmt"

	"github.com/signalnine/evolvekit/randsrc"
)

// Selector picks parents for reproduction. The result may contain duplicates
// unless the strategy samples without replacement.
type Selector interface {
	Select(pop *Population, count int) ([]*Individual, error)
	Name() string
}

func checkPool(pop *Population, count int) error {
	if pop == nil || len(pop.Individuals) == 0 {
		return fmt.Errorf("%w: empty population", ErrInvalidConfiguration)
	}
	if count < 1 {
		return fmt.Errorf("%w: selection count %d", ErrInvalidConfiguration, count)
	}
	return nil
}

// ranked returns the individuals best first without touching the population.
func ranked(pop *Population) []*Individual {
	if pop.Ranked() {
		return pop.Individuals
	}
	return pop.SortByFitness()
}

// EliteSelector returns the top count individuals in rank order.
type EliteSelector struct{}

// NewEliteSelector creates an elite selector.
func NewEliteSelector() *EliteSelector {
	return &EliteSelector{}
}

func (s *EliteSelector) Name() string { return "elite" }

// Select fails when count exceeds the population size.
func (s *EliteSelector) Select(pop *Population, count int) ([]*Individual, error) {
	if err := checkPool(pop, count); err != nil {
		return nil, err
	}
	if count > pop.Size() {
		return nil, fmt.Errorf("%w: cannot select %d elite from %d individuals", ErrInvalidConfiguration, count, pop.Size())
	}
	return SelectElite(pop, count), nil
}

// TournamentSelector runs count independent tournaments of Size candidates.
type TournamentSelector struct {
	Size int
	rng  randsrc.Source
}

// NewTournamentSelector creates a tournament selector.
func NewTournamentSelector(size int, rng randsrc.Source) *TournamentSelector {
	return &TournamentSelector{Size: size, rng: rng}
}

func (s *TournamentSelector) Name() string { return "tournament" }

func (s *TournamentSelector) Select(pop *Population, count int) ([]*Individual, error) {
	if err := checkPool(pop, count); err != nil {
		return nil, err
	}
	selected := make([]*Individual, count)
	for i := range selected {
		selected[i] = TournamentSelection(pop, s.Size, s.rng)
	}
	return selected, nil
}

// RouletteSelector samples with probability proportional to fitness.
type RouletteSelector struct {
	rng randsrc.Source
}

// NewRouletteSelector creates a roulette wheel selector.
func NewRouletteSelector(rng randsrc.Source) *RouletteSelector {
	return &RouletteSelector{rng: rng}
}

func (s *RouletteSelector) Name() string { return "roulette" }

func (s *RouletteSelector) Select(pop *Population, count int) ([]*Individual, error) {
	if err := checkPool(pop, count); err != nil {
		return nil, err
	}
	selected := make([]*Individual, count)
	for i := range selected {
		selected[i] = RouletteWheelSelection(pop, s.rng)
	}
	return selected, nil
}

// RankSelector samples with probability proportional to rank.
type RankSelector struct {
	rng randsrc.Source
}

// NewRankSelector creates a rank selector.
func NewRankSelector(rng randsrc.Source) *RankSelector {
	return &RankSelector{rng: rng}
}

func (s *RankSelector) Name() string { return "rank" }

func (s *RankSelector) Select(pop *Population, count int) ([]*Individual, error) {
	if err := checkPool(pop, count); err != nil {
		return nil, err
	}
	selected := make([]*Individual, count)
	for i := range selected {
		selected[i] = RankSelection(pop, s.rng)
	}
	return selected, nil
}

// SUSSelector is stochastic universal sampling: count evenly spaced pointers
// over the fitness wheel with a single random offset.
type SUSSelector struct {
	rng randsrc.Source
}

// NewSUSSelector creates a stochastic universal sampling selector.
func NewSUSSelector(rng randsrc.Source) *SUSSelector {
	return &SUSSelector{rng: rng}
}

func (s *SUSSelector) Name() string { return "sus" }

func (s *SUSSelector) Select(pop *Population, count int) ([]*Individual, error) {
	if err := checkPool(pop, count); err != nil {
		return nil, err
	}

	individuals := ranked(pop)
	var totalFitness float64
	for _, ind := range individuals {
		if ind.Fitness > 0 {
			totalFitness += ind.Fitness
		}
	}

	selected := make([]*Individual, 0, count)
	if totalFitness <= 0 {
		for i := 0; i < count; i++ {
			selected = append(selected, individuals[s.rng.Intn(len(individuals))])
		}
		return selected, nil
	}

	step := totalFitness / float64(count)
	pointer := s.rng.Float64() * step
	var cumulative float64
	idx := 0
	for i := 0; i < count; i++ {
		target := pointer + float64(i)*step
		for idx < len(individuals)-1 && cumulative+positive(individuals[idx].Fitness) < target {
			cumulative += positive(individuals[idx].Fitness)
			idx++
		}
		selected = append(selected, individuals[idx])
	}
	return selected, nil
}

func positive(f float64) float64 {
	if f > 0 {
		return f
	}
	return 0
}

// TournamentSelection selects an individual via tournament selection.
// k is the tournament size (number of candidates to sample).
func TournamentSelection(pop *Population, k int, rng randsrc.Source) *Individual {
	if pop == nil || len(pop.Individuals) == 0 {
		return nil
	}

	if k > len(pop.Individuals) {
		k = len(pop.Individuals)
	}
	if k < 1 {
		k = 1
	}

	// Ties go to the earlier inserted candidate
	var best *Individual
	for _, idx := range rng.UniqueInts(k, 0, len(pop.Individuals)) {
		ind := pop.Individuals[idx]
		if best == nil || ind.Fitness > best.Fitness || (ind.Fitness == best.Fitness && ind.seq < best.seq) {
			best = ind
		}
	}
	return best
}

// SelectElite returns the top n individuals by rank.
func SelectElite(pop *Population, n int) []*Individual {
	if pop == nil || len(pop.Individuals) == 0 {
		return nil
	}

	if n > len(pop.Individuals) {
		n = len(pop.Individuals)
	}
	if n < 1 {
		return nil
	}

	elite := make([]*Individual, n)
	copy(elite, ranked(pop)[:n])
	return elite
}

// RouletteWheelSelection selects an individual using fitness-proportionate selection.
// Higher fitness = higher probability of selection.
func RouletteWheelSelection(pop *Population, rng randsrc.Source) *Individual {
	if pop == nil || len(pop.Individuals) == 0 {
		return nil
	}

	var totalFitness float64
	for _, ind := range pop.Individuals {
		totalFitness += positive(ind.Fitness)
	}

	// If all fitnesses are zero or negative, use uniform selection
	if totalFitness <= 0 {
		return pop.Individuals[rng.Intn(len(pop.Individuals))]
	}

	spin := rng.Float64() * totalFitness
	var cumulative float64
	for _, ind := range pop.Individuals {
		if ind.Fitness > 0 {
			cumulative += ind.Fitness
			if cumulative >= spin {
				return ind
			}
		}
	}

	return pop.Individuals[len(pop.Individuals)-1]
}

// RankSelection selects an individual using rank-based selection.
// Better individuals have higher probability but not proportional to fitness.
func RankSelection(pop *Population, rng randsrc.Source) *Individual {
	if pop == nil || len(pop.Individuals) == 0 {
		return nil
	}

	best := ranked(pop)
	n := len(best)

	// Best gets weight n, worst gets 1
	totalRank := float64(n * (n + 1) / 2)
	spin := rng.Float64() * totalRank
	var cumulative float64
	for i, ind := range best {
		cumulative += float64(n - i)
		if cumulative >= spin {
			return ind
		}
	}

	return best[n-1]
}
