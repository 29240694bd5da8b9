package evolution

import (
	"errors"
	"testing"

	"github.com/signalnine/evolvekit/problems/maxones"
	"github.com/signalnine/evolvekit/randsrc"
)

func offspringOf(n int) []*Individual {
	rng := randsrc.New(11)
	out := make([]*Individual, n)
	for i := range out {
		out[i] = NewIndividual(maxones.New(8, rng), 1)
	}
	return out
}

func TestElitistReinsertionFillsWithBestParents(t *testing.T) {
	pop := rankedPopulation(t, 9, 7, 5, 3, 1)
	pop.MinSize, pop.MaxSize = 5, 8

	parents := []*Individual{pop.Individuals[3], pop.Individuals[0], pop.Individuals[2]}
	next, err := NewElitistReinsertion().Reinsert(pop, offspringOf(3), parents)
	if err != nil {
		t.Fatalf("Reinsert failed: %v", err)
	}
	if len(next) != 5 {
		t.Fatalf("Expected 5 individuals, got %d", len(next))
	}
	if next[3].Fitness != 9 || next[4].Fitness != 5 {
		t.Errorf("Expected best parents 9 and 5 appended, got %f and %f", next[3].Fitness, next[4].Fitness)
	}
	if next[3] == pop.Individuals[0] {
		t.Error("Parents should be cloned, not shared")
	}
}

func TestElitistReinsertionTruncates(t *testing.T) {
	pop := rankedPopulation(t, 1, 2, 3)
	pop.MinSize, pop.MaxSize = 3, 4

	next, err := NewElitistReinsertion().Reinsert(pop, offspringOf(7), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 4 {
		t.Errorf("Expected truncation to 4, got %d", len(next))
	}
}

func TestElitistReinsertionCannotFill(t *testing.T) {
	pop := rankedPopulation(t, 1, 2, 3)
	pop.MinSize, pop.MaxSize = 6, 8

	_, err := NewElitistReinsertion().Reinsert(pop, offspringOf(2), pop.Individuals)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestPureReinsertion(t *testing.T) {
	pop := rankedPopulation(t, 1, 2, 3)
	pop.MinSize, pop.MaxSize = 3, 4

	if next, err := NewPureReinsertion().Reinsert(pop, offspringOf(4), nil); err != nil || len(next) != 4 {
		t.Errorf("Expected 4 offspring unchanged, got %d (%v)", len(next), err)
	}
	for _, n := range []int{2, 5} {
		if _, err := NewPureReinsertion().Reinsert(pop, offspringOf(n), nil); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%d offspring: expected ErrInvalidConfiguration, got %v", n, err)
		}
	}
}
