package evolution

import (
	"testing"

	"github.com/signalnine/evolvekit/randsrc"
)

func TestRegistryNames(t *testing.T) {
	rng := randsrc.New(1)
	config := DefaultConfig()

	for _, name := range SelectionNames() {
		s, err := NewSelector(name, config, rng)
		if err != nil || s.Name() != name {
			t.Errorf("Selection %q: got %v, %v", name, s, err)
		}
	}
	for _, name := range CrossoverNames() {
		c, err := NewCrossover(name)
		if err != nil || c.Name() != name {
			t.Errorf("Crossover %q: got %v, %v", name, c, err)
		}
	}
	for _, name := range ReinsertionNames() {
		r, err := NewReinsertion(name)
		if err != nil || r.Name() != name {
			t.Errorf("Reinsertion %q: got %v, %v", name, r, err)
		}
	}

	m, err := NewMutation("twors+reverse")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "twors+reverse" {
		t.Errorf("Expected pipeline name, got %q", m.Name())
	}
}
