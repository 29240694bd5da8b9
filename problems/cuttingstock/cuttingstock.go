// Package cuttingstock is the one-dimensional cutting-stock problem: cut every
// demanded piece from stock bars while minimizing waste and bars used.
//
// A chromosome is a sequence of piece lengths, one gene per demanded piece.
// The sequence is decoded first-fit: each piece goes into the first opened bar
// with room left, otherwise a new bar is opened from the shortest stock length
// that can hold it.
package cuttingstock

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/randsrc"
)

// Demand is a required piece length and how many pieces of it are needed.
type Demand struct {
	Length   int
	Quantity int
}

func (d Demand) String() string {
	return fmt.Sprintf("%dx%d", d.Length, d.Quantity)
}

// ParseDemand parses "45x2,35x1" into demands.
func ParseDemand(s string) ([]Demand, error) {
	var demands []Demand
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lengthStr, qtyStr, ok := strings.Cut(part, "x")
		if !ok {
			return nil, fmt.Errorf("demand %q: expected LENGTHxQUANTITY", part)
		}
		length, err := strconv.Atoi(lengthStr)
		if err != nil {
			return nil, fmt.Errorf("demand %q: %w", part, err)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("demand %q: %w", part, err)
		}
		demands = append(demands, Demand{Length: length, Quantity: qty})
	}
	return demands, nil
}

// Problem binds the stock lengths and the demand.
type Problem struct {
	StockLengths []int
	Demands      []Demand
	// MaxStocks caps the number of bars that may be cut. 0 means unlimited.
	MaxStocks int
}

// NewProblem validates and creates a problem.
func NewProblem(stockLengths []int, demands []Demand) (*Problem, error) {
	if len(stockLengths) == 0 {
		return nil, fmt.Errorf("at least one stock length is required")
	}
	for _, l := range stockLengths {
		if l <= 0 {
			return nil, fmt.Errorf("stock length must be positive, got %d", l)
		}
	}
	total := 0
	for _, d := range demands {
		if d.Length <= 0 || d.Quantity <= 0 {
			return nil, fmt.Errorf("invalid demand %s", d)
		}
		total += d.Quantity
	}
	if total == 0 {
		return nil, fmt.Errorf("demand is empty")
	}
	stocks := append([]int(nil), stockLengths...)
	sort.Ints(stocks)
	return &Problem{StockLengths: stocks, Demands: demands}, nil
}

// Pieces expands the demand into one length per required piece.
func (p *Problem) Pieces() []int {
	var pieces []int
	for _, d := range p.Demands {
		for i := 0; i < d.Quantity; i++ {
			pieces = append(pieces, d.Length)
		}
	}
	return pieces
}

// GeneCount is the chromosome length: the total number of demanded pieces.
func (p *Problem) GeneCount() int {
	n := 0
	for _, d := range p.Demands {
		n += d.Quantity
	}
	return n
}

// DemandMet reports whether the gene multiset supplies every demanded length
// exactly.
func (p *Problem) DemandMet(c chromosome.Chromosome) bool {
	counts := make(map[int]int, len(p.Demands))
	for _, g := range c.Genes() {
		counts[g.Int()]++
	}
	for _, d := range p.Demands {
		if counts[d.Length] != d.Quantity {
			return false
		}
		delete(counts, d.Length)
	}
	return len(counts) == 0
}

// Chromosome is an ordering of the demanded pieces.
type Chromosome struct {
	chromosome.Base
	problem *Problem
	rng     randsrc.Source
}

// New creates a chromosome holding a random permutation of the demanded pieces.
func New(p *Problem, rng randsrc.Source) *Chromosome {
	pieces := p.Pieces()
	c := &Chromosome{Base: chromosome.NewBase(len(pieces)), problem: p, rng: rng}
	for i, j := range rng.Perm(len(pieces)) {
		_ = c.ReplaceGene(i, chromosome.NewGene(pieces[j]))
	}
	return c
}

// Problem returns the bound problem.
func (c *Chromosome) Problem() *Problem {
	return c.problem
}

// GenerateGene draws a demanded length uniformly. Used alone it does not
// preserve the demand multiset.
func (c *Chromosome) GenerateGene(int) chromosome.Gene {
	d := c.problem.Demands[c.rng.Intn(len(c.problem.Demands))]
	return chromosome.NewGene(d.Length)
}

// CreateNew returns a fresh random permutation of the demanded pieces.
func (c *Chromosome) CreateNew() chromosome.Chromosome {
	return New(c.problem, c.rng)
}

// Clone returns an independent copy.
func (c *Chromosome) Clone() chromosome.Chromosome {
	return &Chromosome{Base: c.Copy(), problem: c.problem, rng: c.rng}
}
