// Package operators provides mutation operators for chromosomes.
package operators

import (
	"fmt"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/randsrc"
)

// MutationOperator is the interface for all mutation operators.
type MutationOperator interface {
	// Mutate perturbs c in place with the given probability and reports
	// whether any gene changed position or value. Callers must pass a
	// chromosome they own, never one held by a ranked population.
	Mutate(c chromosome.Chromosome, probability float64, rng randsrc.Source) (bool, error)

	// Name returns a human-readable name for this operator.
	Name() string
}

// BaseMutation provides common functionality for mutation operators.
type BaseMutation struct {
	name string
}

// Name returns the mutation name.
func (m *BaseMutation) Name() string {
	return m.name
}

// ShouldApply returns true if a mutation with probability p should fire.
func (m *BaseMutation) ShouldApply(p float64, rng randsrc.Source) bool {
	return rng.Float64() < p
}

// UniformMutation redraws genes with GenerateGene. Each candidate position is
// replaced independently with the mutation probability.
type UniformMutation struct {
	BaseMutation
	// AllGenesMutable makes every position a candidate. Otherwise only
	// MutableIndexes are.
	AllGenesMutable bool
	MutableIndexes  []int
}

// NewUniformMutation creates a uniform mutation. With allGenesMutable false,
// only the listed indexes are ever redrawn.
func NewUniformMutation(allGenesMutable bool, mutableIndexes ...int) *UniformMutation {
	return &UniformMutation{
		BaseMutation:    BaseMutation{name: "uniform"},
		AllGenesMutable: allGenesMutable,
		MutableIndexes:  mutableIndexes,
	}
}

// Mutate redraws candidate genes.
func (m *UniformMutation) Mutate(c chromosome.Chromosome, probability float64, rng randsrc.Source) (bool, error) {
	indexes := m.MutableIndexes
	if m.AllGenesMutable {
		indexes = make([]int, c.Length())
		for i := range indexes {
			indexes[i] = i
		}
	}

	mutated := false
	for _, i := range indexes {
		if !m.ShouldApply(probability, rng) {
			continue
		}
		if err := c.ReplaceGene(i, c.GenerateGene(i)); err != nil {
			return mutated, fmt.Errorf("uniform mutation: %w", err)
		}
		mutated = true
	}
	return mutated, nil
}

// TworsMutation swaps the values at two distinct random positions. The gene
// multiset is preserved, so it is safe for permutation encodings.
type TworsMutation struct {
	BaseMutation
}

// NewTworsMutation creates a twors mutation.
func NewTworsMutation() *TworsMutation {
	return &TworsMutation{BaseMutation: BaseMutation{name: "twors"}}
}

// Mutate swaps two genes with the given probability. Chromosomes shorter than
// two genes are left alone.
func (m *TworsMutation) Mutate(c chromosome.Chromosome, probability float64, rng randsrc.Source) (bool, error) {
	if c.Length() < 2 || !m.ShouldApply(probability, rng) {
		return false, nil
	}
	idx := rng.UniqueInts(2, 0, c.Length())
	a, err := c.GeneAt(idx[0])
	if err != nil {
		return false, err
	}
	b, err := c.GeneAt(idx[1])
	if err != nil {
		return false, err
	}
	if err := c.ReplaceGene(idx[0], b); err != nil {
		return false, err
	}
	if err := c.ReplaceGene(idx[1], a); err != nil {
		return false, err
	}
	return true, nil
}

// ReverseSequenceMutation reverses the genes between two random positions.
// The gene multiset is preserved.
type ReverseSequenceMutation struct {
	BaseMutation
}

// NewReverseSequenceMutation creates a reverse-sequence mutation.
func NewReverseSequenceMutation() *ReverseSequenceMutation {
	return &ReverseSequenceMutation{BaseMutation: BaseMutation{name: "reverse"}}
}

// Mutate reverses a random slice [i, j] with the given probability.
func (m *ReverseSequenceMutation) Mutate(c chromosome.Chromosome, probability float64, rng randsrc.Source) (bool, error) {
	if c.Length() < 2 || !m.ShouldApply(probability, rng) {
		return false, nil
	}
	idx := rng.UniqueInts(2, 0, c.Length())
	lo, hi := idx[0], idx[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	genes := c.Genes()
	for i, j := lo, hi; i < j; i, j = i+1, j-1 {
		genes[i], genes[j] = genes[j], genes[i]
	}
	if err := chromosome.SetGenes(c, genes); err != nil {
		return false, err
	}
	return true, nil
}

// MutationPipeline applies several operators in order with the same probability.
type MutationPipeline struct {
	operators []MutationOperator
}

// NewMutationPipeline creates a pipeline of operators.
func NewMutationPipeline(ops ...MutationOperator) *MutationPipeline {
	return &MutationPipeline{operators: ops}
}

// Name joins the operator names.
func (p *MutationPipeline) Name() string {
	name := ""
	for i, op := range p.operators {
		if i > 0 {
			name += "+"
		}
		name += op.Name()
	}
	return name
}

// Mutate applies every operator; it reports true if any of them changed c.
func (p *MutationPipeline) Mutate(c chromosome.Chromosome, probability float64, rng randsrc.Source) (bool, error) {
	mutated := false
	for _, op := range p.operators {
		changed, err := op.Mutate(c, probability, rng)
		if err != nil {
			return mutated, err
		}
		mutated = mutated || changed
	}
	return mutated, nil
}
