// Package evolution runs generational genetic algorithms over pluggable
// chromosomes, fitness functions and operators.
package evolution

import (
	"sort"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/randsrc"
)

// CrossoverOperator defines the interface for crossover operations.
type CrossoverOperator interface {
	// Crossover produces two offspring from parents of equal length. The
	// parents are never modified.
	Crossover(parent1, parent2 chromosome.Chromosome, rng randsrc.Source) (chromosome.Chromosome, chromosome.Chromosome, error)

	// Name returns a human-readable name for this operator.
	Name() string
}

// OnePointCrossover cuts both parents at one random point and swaps the tails.
type OnePointCrossover struct{}

// NewOnePointCrossover creates a one-point crossover operator.
func NewOnePointCrossover() *OnePointCrossover {
	return &OnePointCrossover{}
}

func (c *OnePointCrossover) Name() string { return "onepoint" }

// Crossover draws the cut k from [1, L-1]: child1 = A[:k]+B[k:], child2 = B[:k]+A[k:].
// Single-gene parents have no cut point and come back as clones.
func (c *OnePointCrossover) Crossover(parent1, parent2 chromosome.Chromosome, rng randsrc.Source) (chromosome.Chromosome, chromosome.Chromosome, error) {
	if err := chromosome.ValidateLength(parent1, parent2); err != nil {
		return nil, nil, err
	}
	length := parent1.Length()
	if length < 2 {
		return parent1.Clone(), parent2.Clone(), nil
	}
	return swapSegment(parent1, parent2, rng.IntRange(1, length), length)
}

// TwoPointCrossover swaps the segment between two random cut points.
type TwoPointCrossover struct{}

// NewTwoPointCrossover creates a two-point crossover operator.
func NewTwoPointCrossover() *TwoPointCrossover {
	return &TwoPointCrossover{}
}

func (c *TwoPointCrossover) Name() string { return "twopoint" }

// Crossover falls back to one point for chromosomes shorter than three genes.
func (c *TwoPointCrossover) Crossover(parent1, parent2 chromosome.Chromosome, rng randsrc.Source) (chromosome.Chromosome, chromosome.Chromosome, error) {
	if err := chromosome.ValidateLength(parent1, parent2); err != nil {
		return nil, nil, err
	}
	if parent1.Length() < 3 {
		return NewOnePointCrossover().Crossover(parent1, parent2, rng)
	}
	points := rng.UniqueInts(2, 1, parent1.Length())
	sort.Ints(points)
	return swapSegment(parent1, parent2, points[0], points[1])
}

// swapSegment returns clones of the parents with genes [from, to) exchanged.
func swapSegment(parent1, parent2 chromosome.Chromosome, from, to int) (chromosome.Chromosome, chromosome.Chromosome, error) {
	child1 := parent1.Clone()
	child2 := parent2.Clone()
	genes1, genes2 := parent1.Genes(), parent2.Genes()
	for i := from; i < to; i++ {
		if err := child1.ReplaceGene(i, genes2[i]); err != nil {
			return nil, nil, err
		}
		if err := child2.ReplaceGene(i, genes1[i]); err != nil {
			return nil, nil, err
		}
	}
	return child1, child2, nil
}

// UniformCrossover implements uniform crossover where each gene is
// randomly selected from one of the two parents.
type UniformCrossover struct {
	MixProbability float64
}

// NewUniformCrossover creates a uniform crossover operator. Each position is
// swapped between the children with probability mix.
func NewUniformCrossover(mix float64) *UniformCrossover {
	return &UniformCrossover{MixProbability: mix}
}

func (c *UniformCrossover) Name() string { return "uniform" }

func (c *UniformCrossover) Crossover(parent1, parent2 chromosome.Chromosome, rng randsrc.Source) (chromosome.Chromosome, chromosome.Chromosome, error) {
	if err := chromosome.ValidateLength(parent1, parent2); err != nil {
		return nil, nil, err
	}
	child1 := parent1.Clone()
	child2 := parent2.Clone()
	genes1, genes2 := parent1.Genes(), parent2.Genes()
	for i := range genes1 {
		if rng.Float64() >= c.MixProbability {
			continue
		}
		if err := child1.ReplaceGene(i, genes2[i]); err != nil {
			return nil, nil, err
		}
		if err := child2.ReplaceGene(i, genes1[i]); err != nil {
			return nil, nil, err
		}
	}
	return child1, child2, nil
}

// OrderedCrossover is OX1 generalised to repeated genes. Each child keeps a
// slice of one parent in place and fills the remaining positions with the
// other parent's genes in order, starting after the slice, taking only genes
// the child still owes. Every child holds exactly the gene multiset of the
// parent that donated its slice, so permutation and multiset encodings stay
// valid.
type OrderedCrossover struct{}

// NewOrderedCrossover creates an ordered crossover operator.
func NewOrderedCrossover() *OrderedCrossover {
	return &OrderedCrossover{}
}

func (c *OrderedCrossover) Name() string { return "ordered" }

func (c *OrderedCrossover) Crossover(parent1, parent2 chromosome.Chromosome, rng randsrc.Source) (chromosome.Chromosome, chromosome.Chromosome, error) {
	if err := chromosome.ValidateLength(parent1, parent2); err != nil {
		return nil, nil, err
	}
	length := parent1.Length()
	if length < 2 {
		return parent1.Clone(), parent2.Clone(), nil
	}

	points := rng.UniqueInts(2, 0, length+1)
	sort.Ints(points)
	from, to := points[0], points[1]

	child1, err := orderedChild(parent1, parent2, from, to)
	if err != nil {
		return nil, nil, err
	}
	child2, err := orderedChild(parent2, parent1, from, to)
	if err != nil {
		return nil, nil, err
	}
	return child1, child2, nil
}

func orderedChild(donor, filler chromosome.Chromosome, from, to int) (chromosome.Chromosome, error) {
	length := donor.Length()
	donorGenes := donor.Genes()
	fillerGenes := filler.Genes()

	// Genes still owed outside the kept slice
	owed := chromosome.Multiset(donor)
	for i := from; i < to; i++ {
		owed[donorGenes[i]]--
	}

	genes := make([]chromosome.Gene, length)
	copy(genes[from:to], donorGenes[from:to])

	pos := to % length
	next := func() {
		pos = (pos + 1) % length
	}
	placed := to - from
	for k := 0; k < length && placed < length; k++ {
		g := fillerGenes[(to+k)%length]
		if owed[g] <= 0 {
			continue
		}
		owed[g]--
		for pos >= from && pos < to {
			next()
		}
		genes[pos] = g
		placed++
		next()
	}

	// Parents with different multisets leave gaps; fill them in donor order
	if placed < length {
		for _, g := range donorGenes {
			if owed[g] <= 0 {
				continue
			}
			owed[g]--
			for pos >= from && pos < to {
				next()
			}
			genes[pos] = g
			placed++
			next()
		}
	}

	child := donor.Clone()
	if err := chromosome.SetGenes(child, genes); err != nil {
		return nil, err
	}
	return child, nil
}
