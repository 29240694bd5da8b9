// Package chromosome defines the gene sequence abstraction evolved by the engine.
package chromosome

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned for gene access outside [0, Length).
	ErrIndexOutOfRange = errors.New("gene index out of range")

	// ErrLengthMismatch is returned when two chromosomes must share a length but don't.
	ErrLengthMismatch = errors.New("chromosome length mismatch")
)

// Gene is a single allele. Values must be comparable.
type Gene struct {
	Value any
}

// NewGene wraps a value as a gene.
func NewGene(v any) Gene {
	return Gene{Value: v}
}

// Int returns the gene value as an int, or 0 if it holds another type.
func (g Gene) Int() int {
	v, _ := g.Value.(int)
	return v
}

func (g Gene) String() string {
	return fmt.Sprint(g.Value)
}

// Chromosome is a fixed-length ordered sequence of genes.
type Chromosome interface {
	// Length is fixed for the lifetime of the chromosome.
	Length() int

	// GeneAt returns the gene at index i.
	GeneAt(i int) (Gene, error)

	// Genes returns a copy of the gene sequence.
	Genes() []Gene

	// ReplaceGene sets the gene at index i.
	ReplaceGene(i int, g Gene) error

	// GenerateGene draws a fresh random gene for position i.
	GenerateGene(i int) Gene

	// CreateNew returns a fully randomized chromosome of the same kind and length.
	CreateNew() Chromosome

	// Clone returns an independent copy.
	Clone() Chromosome
}

// Base stores genes for chromosome implementations. Embed it and supply
// GenerateGene, CreateNew and Clone.
type Base struct {
	genes []Gene
}

// NewBase creates a gene store of the given length with zero genes.
func NewBase(length int) Base {
	return Base{genes: make([]Gene, length)}
}

// Length returns the number of genes.
func (b *Base) Length() int {
	return len(b.genes)
}

// GeneAt returns the gene at index i.
func (b *Base) GeneAt(i int) (Gene, error) {
	if i < 0 || i >= len(b.genes) {
		return Gene{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(b.genes))
	}
	return b.genes[i], nil
}

// Genes returns a copy of the gene sequence.
func (b *Base) Genes() []Gene {
	out := make([]Gene, len(b.genes))
	copy(out, b.genes)
	return out
}

// ReplaceGene sets the gene at index i.
func (b *Base) ReplaceGene(i int, g Gene) error {
	if i < 0 || i >= len(b.genes) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(b.genes))
	}
	b.genes[i] = g
	return nil
}

// Copy returns a Base with its own gene slice.
func (b *Base) Copy() Base {
	return Base{genes: b.Genes()}
}

// Randomize fills every position of c with c.GenerateGene.
func Randomize(c Chromosome) {
	for i := 0; i < c.Length(); i++ {
		// index is always in range
		_ = c.ReplaceGene(i, c.GenerateGene(i))
	}
}

// SetGenes overwrites c with genes. The lengths must match.
func SetGenes(c Chromosome, genes []Gene) error {
	if len(genes) != c.Length() {
		return fmt.Errorf("%w: %d genes for length %d", ErrLengthMismatch, len(genes), c.Length())
	}
	for i, g := range genes {
		if err := c.ReplaceGene(i, g); err != nil {
			return err
		}
	}
	return nil
}
