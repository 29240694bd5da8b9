package evolution

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/signalnine/evolvekit/chromosome"
)

// DiversityThreshold is the threshold below which diversity is considered critical.
const DiversityThreshold = 0.1

// Individual is a chromosome with its cached fitness.
type Individual struct {
	Chromosome chromosome.Chromosome
	Fitness    float64
	Evaluated  bool
	Age        int // generation the individual was created in

	seq int // insertion order, used as the ranking tie-break
}

// NewIndividual wraps c as an unevaluated individual created in generation age.
func NewIndividual(c chromosome.Chromosome, age int) *Individual {
	return &Individual{Chromosome: c, Age: age}
}

// Clone creates a deep copy of the individual, fitness cache included.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Chromosome: ind.Chromosome.Clone(),
		Fitness:    ind.Fitness,
		Evaluated:  ind.Evaluated,
		Age:        ind.Age,
		seq:        ind.seq,
	}
}

// ReplaceGene sets a gene and invalidates the cached fitness.
func (ind *Individual) ReplaceGene(i int, g chromosome.Gene) error {
	if err := ind.Chromosome.ReplaceGene(i, g); err != nil {
		return err
	}
	ind.Invalidate()
	return nil
}

// Invalidate marks the cached fitness stale.
func (ind *Individual) Invalidate() {
	ind.Fitness = 0
	ind.Evaluated = false
}

// Population holds one generation of individuals within [MinSize, MaxSize].
type Population struct {
	MinSize     int
	MaxSize     int
	Individuals []*Individual
	Generation  int

	prototype chromosome.Chromosome
	ranked    bool
	nextSeq   int
}

// NewPopulation creates an empty population. Individuals are created from
// prototype by Initialize.
func NewPopulation(minSize, maxSize int, prototype chromosome.Chromosome) (*Population, error) {
	if minSize < 2 {
		return nil, fmt.Errorf("%w: minimum population size %d is below 2", ErrInvalidConfiguration, minSize)
	}
	if maxSize < minSize {
		return nil, fmt.Errorf("%w: maximum population size %d is below minimum %d", ErrInvalidConfiguration, maxSize, minSize)
	}
	if prototype == nil {
		return nil, fmt.Errorf("%w: nil prototype chromosome", ErrInvalidConfiguration)
	}
	return &Population{
		MinSize:   minSize,
		MaxSize:   maxSize,
		prototype: prototype,
	}, nil
}

// Prototype returns the chromosome new individuals are created from.
func (p *Population) Prototype() chromosome.Chromosome {
	return p.prototype
}

// Initialize fills the population with size freshly randomized individuals.
func (p *Population) Initialize(size int) error {
	if err := p.checkSize(size); err != nil {
		return err
	}
	individuals := make([]*Individual, size)
	for i := range individuals {
		individuals[i] = NewIndividual(p.prototype.CreateNew(), p.Generation)
	}
	return p.ReplaceWith(individuals)
}

func (p *Population) checkSize(size int) error {
	if size < 2 {
		return fmt.Errorf("%w: population size %d is below 2", ErrInvalidConfiguration, size)
	}
	if size < p.MinSize || size > p.MaxSize {
		return fmt.Errorf("%w: population size %d outside [%d, %d]", ErrInvalidConfiguration, size, p.MinSize, p.MaxSize)
	}
	return nil
}

// Size returns the number of individuals in the population.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// Ranked reports whether the individuals are in rank order.
func (p *Population) Ranked() bool {
	return p.ranked
}

// ReplaceWith swaps in a new set of individuals. The population is left
// untouched if the size is out of bounds.
func (p *Population) ReplaceWith(individuals []*Individual) error {
	if err := p.checkSize(len(individuals)); err != nil {
		return err
	}
	for _, ind := range individuals {
		ind.seq = p.nextSeq
		p.nextSeq++
	}
	p.Individuals = individuals
	p.ranked = false
	return nil
}

// EvaluateAndRank scores every individual with a stale fitness cache and
// sorts the population best first. It returns the number of evaluations.
// Nothing is committed if any evaluation fails.
func (p *Population) EvaluateAndRank(ctx context.Context, evaluator BatchEvaluator) (int, error) {
	stale := p.GetUnevaluated()
	if len(stale) > 0 {
		chromosomes := make([]chromosome.Chromosome, len(stale))
		for i, ind := range stale {
			chromosomes[i] = ind.Chromosome
		}
		scores, err := evaluator.EvaluateBatch(ctx, chromosomes)
		if err != nil {
			return 0, err
		}
		if len(scores) != len(stale) {
			return 0, fmt.Errorf("%w: got %d scores for %d individuals", ErrEvaluationFailure, len(scores), len(stale))
		}
		for i, f := range scores {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return 0, fmt.Errorf("%w: individual %d: non-finite fitness %v", ErrEvaluationFailure, i, f)
			}
		}
		for i, ind := range stale {
			ind.Fitness = scores[i]
			ind.Evaluated = true
		}
	}

	p.Individuals = p.SortByFitness()
	p.ranked = true
	return len(stale), nil
}

// Best returns the top ranked individual, or nil if the population is not ranked.
func (p *Population) Best() *Individual {
	if !p.ranked || len(p.Individuals) == 0 {
		return nil
	}
	return p.Individuals[0]
}

// Worst returns the lowest ranked individual, or nil if the population is not ranked.
func (p *Population) Worst() *Individual {
	if !p.ranked || len(p.Individuals) == 0 {
		return nil
	}
	return p.Individuals[len(p.Individuals)-1]
}

// GetAverageFitness returns the average fitness of evaluated individuals.
func (p *Population) GetAverageFitness() float64 {
	var sum float64
	var count int
	for _, ind := range p.Individuals {
		if ind.Evaluated {
			sum += ind.Fitness
			count++
		}
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// GetUnevaluated returns all individuals that haven't been evaluated.
func (p *Population) GetUnevaluated() []*Individual {
	var unevaluated []*Individual
	for _, ind := range p.Individuals {
		if !ind.Evaluated {
			unevaluated = append(unevaluated, ind)
		}
	}
	return unevaluated
}

// SortByFitness returns individuals sorted by fitness (descending), ties in
// insertion order.
func (p *Population) SortByFitness() []*Individual {
	return sortByFitness(p.Individuals)
}

func sortByFitness(individuals []*Individual) []*Individual {
	sorted := make([]*Individual, len(individuals))
	copy(sorted, individuals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Fitness != sorted[j].Fitness {
			return sorted[i].Fitness > sorted[j].Fitness
		}
		return sorted[i].seq < sorted[j].seq
	})
	return sorted
}

// ComputeDiversity returns the mean Hamming distance between individuals,
// in [0.0, 1.0]. Large populations are measured on a fixed sample of pairs
// so the result never consumes random draws.
func (p *Population) ComputeDiversity() float64 {
	n := len(p.Individuals)
	if n < 2 {
		return 0.0
	}

	var totalDistance float64
	var pairCount int

	if n <= 50 {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				totalDistance += chromosome.HammingDistance(p.Individuals[i].Chromosome, p.Individuals[j].Chromosome)
				pairCount++
			}
		}
	} else {
		for k := 0; k < 100; k++ {
			i := (k * 37) % n
			j := (i + 1 + k%(n-1)) % n
			totalDistance += chromosome.HammingDistance(p.Individuals[i].Chromosome, p.Individuals[j].Chromosome)
			pairCount++
		}
	}

	return totalDistance / float64(pairCount)
}

// CheckDiversityCrisis returns true if diversity has collapsed.
func (p *Population) CheckDiversityCrisis() bool {
	return p.ComputeDiversity() < DiversityThreshold
}
