package operators

import (
	"testing"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/problems/cuttingstock"
	"github.com/signalnine/evolvekit/problems/maxones"
	"github.com/signalnine/evolvekit/randsrc"
)

func referencePermutation(t *testing.T, rng randsrc.Source) chromosome.Chromosome {
	t.Helper()
	demands, err := cuttingstock.ParseDemand("45x2,35x1,20x2,10x3,5x5")
	if err != nil {
		t.Fatal(err)
	}
	p, err := cuttingstock.NewProblem([]int{100, 100}, demands)
	if err != nil {
		t.Fatal(err)
	}
	return cuttingstock.New(p, rng)
}

func TestUniformMutationProbabilityOne(t *testing.T) {
	rng := randsrc.New(42)
	c := maxones.FromBits(rng, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)

	mutated, err := NewUniformMutation(true).Mutate(c, 1.0, rng)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if !mutated {
		t.Error("Expected mutation with probability 1")
	}
	if c.Length() != 20 {
		t.Errorf("Mutation changed length to %d", c.Length())
	}
	// 20 fresh coin flips: all zero has probability 2^-20
	if maxones.Ones(c) == 0 {
		t.Error("Expected some genes to be redrawn as 1")
	}
}

func TestUniformMutationTinyProbability(t *testing.T) {
	rng := randsrc.New(42)
	c := maxones.New(10, rng)
	before := c.Clone()

	mutated, err := NewUniformMutation(true).Mutate(c, 1e-12, rng)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if mutated || !chromosome.Equal(before, c) {
		t.Error("Expected no mutation with negligible probability")
	}
}

func TestUniformMutationOnlyMutableIndexes(t *testing.T) {
	rng := randsrc.New(7)
	m := NewUniformMutation(false, 2)

	for i := 0; i < 50; i++ {
		c := maxones.FromBits(rng, 0, 0, 0, 0, 0)
		if _, err := m.Mutate(c, 1.0, rng); err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		for idx, g := range c.Genes() {
			if idx != 2 && g.Int() != 0 {
				t.Fatalf("Gene %d changed but is not mutable", idx)
			}
		}
	}
}

func TestUniformMutationBadIndex(t *testing.T) {
	rng := randsrc.New(7)
	c := maxones.FromBits(rng, 0, 0)

	if _, err := NewUniformMutation(false, 5).Mutate(c, 1.0, rng); err == nil {
		t.Error("Expected error for out-of-range mutable index")
	}
}

func TestTworsPreservesMultiset(t *testing.T) {
	rng := randsrc.New(12345)
	m := NewTworsMutation()

	for i := 0; i < 200; i++ {
		c := referencePermutation(t, rng)
		before := c.Clone()

		mutated, err := m.Mutate(c, 1.0, rng)
		if err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		if !mutated {
			t.Fatal("Expected twors to fire with probability 1")
		}
		if !chromosome.SameMultiset(before, c) {
			t.Fatalf("Twors changed multiset: %v -> %v", before.Genes(), c.Genes())
		}

		diff := 0
		bg, ag := before.Genes(), c.Genes()
		for j := range bg {
			if bg[j] != ag[j] {
				diff++
			}
		}
		if diff != 0 && diff != 2 {
			t.Fatalf("Expected 0 or 2 changed positions, got %d", diff)
		}
	}
}

func TestTworsShortChromosome(t *testing.T) {
	rng := randsrc.New(1)
	c := maxones.FromBits(rng, 1)

	mutated, err := NewTworsMutation().Mutate(c, 1.0, rng)
	if err != nil || mutated {
		t.Errorf("Expected no-op on single gene, got mutated=%v err=%v", mutated, err)
	}
}

func TestReverseSequencePreservesMultiset(t *testing.T) {
	rng := randsrc.New(99)
	m := NewReverseSequenceMutation()

	for i := 0; i < 100; i++ {
		c := referencePermutation(t, rng)
		before := c.Clone()
		if _, err := m.Mutate(c, 1.0, rng); err != nil {
			t.Fatalf("Mutate failed: %v", err)
		}
		if !chromosome.SameMultiset(before, c) {
			t.Fatalf("Reverse changed multiset: %v -> %v", before.Genes(), c.Genes())
		}
	}
}

func TestMutationPipeline(t *testing.T) {
	rng := randsrc.New(5)
	p := NewMutationPipeline(NewTworsMutation(), NewReverseSequenceMutation())

	if p.Name() != "twors+reverse" {
		t.Errorf("Unexpected pipeline name %q", p.Name())
	}

	c := referencePermutation(t, rng)
	before := c.Clone()
	mutated, err := p.Mutate(c, 1.0, rng)
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if !mutated {
		t.Error("Expected pipeline to report a mutation")
	}
	if !chromosome.SameMultiset(before, c) {
		t.Error("Pipeline of multiset-preserving operators changed the multiset")
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range Names() {
		op, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", name, err)
		}
		if op.Name() != name {
			t.Errorf("Get(%q) returned operator named %q", name, op.Name())
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("Expected error for unknown mutation")
	}
}
