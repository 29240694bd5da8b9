// Package maxones is the bit-string toy problem: maximize the number of 1 genes.
package maxones

import (
	"fmt"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/randsrc"
)

// Chromosome is a fixed-length binary string.
type Chromosome struct {
	chromosome.Base
	rng randsrc.Source
}

// New creates a randomized binary chromosome of the given length.
func New(length int, rng randsrc.Source) *Chromosome {
	c := &Chromosome{Base: chromosome.NewBase(length), rng: rng}
	chromosome.Randomize(c)
	return c
}

// FromBits builds a chromosome with the given 0/1 values.
func FromBits(rng randsrc.Source, bits ...int) *Chromosome {
	c := &Chromosome{Base: chromosome.NewBase(len(bits)), rng: rng}
	for i, b := range bits {
		_ = c.ReplaceGene(i, chromosome.NewGene(b))
	}
	return c
}

// GenerateGene draws 0 or 1.
func (c *Chromosome) GenerateGene(int) chromosome.Gene {
	return chromosome.NewGene(c.rng.Intn(2))
}

// CreateNew returns a fresh random chromosome of the same length.
func (c *Chromosome) CreateNew() chromosome.Chromosome {
	return New(c.Length(), c.rng)
}

// Clone returns an independent copy.
func (c *Chromosome) Clone() chromosome.Chromosome {
	return &Chromosome{Base: c.Copy(), rng: c.rng}
}

// Ones counts the 1 genes.
func Ones(c chromosome.Chromosome) int {
	n := 0
	for _, g := range c.Genes() {
		n += g.Int()
	}
	return n
}

// Fitness scores a binary chromosome by its count of 1 genes.
type Fitness struct{}

// Evaluate returns the number of 1 genes.
func (Fitness) Evaluate(c chromosome.Chromosome) (float64, error) {
	for i, g := range c.Genes() {
		if v, ok := g.Value.(int); !ok || (v != 0 && v != 1) {
			return 0, fmt.Errorf("gene %d is not a bit: %v", i, g.Value)
		}
	}
	return float64(Ones(c)), nil
}
