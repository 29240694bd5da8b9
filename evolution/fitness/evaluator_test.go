package fitness

import (
	"errors"
	"testing"

	"github.com/signalnine/evolvekit/chromosome"
)

type fixed struct {
	chromosome.Base
}

func (f *fixed) GenerateGene(int) chromosome.Gene { return chromosome.NewGene(1) }
func (f *fixed) CreateNew() chromosome.Chromosome {
	return &fixed{Base: chromosome.NewBase(f.Length())}
}
func (f *fixed) Clone() chromosome.Chromosome { return &fixed{Base: f.Copy()} }

func TestFuncAdapter(t *testing.T) {
	var e Evaluator = Func(func(c chromosome.Chromosome) (float64, error) {
		return float64(c.Length()), nil
	})

	score, err := e.Evaluate(&fixed{Base: chromosome.NewBase(7)})
	if err != nil {
		t.Fatal(err)
	}
	if score != 7 {
		t.Errorf("Expected 7, got %f", score)
	}
}

func TestFuncAdapterError(t *testing.T) {
	boom := errors.New("boom")
	e := Func(func(chromosome.Chromosome) (float64, error) { return Infeasible, boom })

	score, err := e.Evaluate(&fixed{Base: chromosome.NewBase(1)})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if score != Infeasible {
		t.Errorf("Expected infeasible score, got %f", score)
	}
}
