package evolution

import "fmt"

// Reinsertion decides which individuals make up the next generation.
type Reinsertion interface {
	// Reinsert returns the next generation built from offspring and the
	// ranked parents. It must not modify the parents.
	Reinsert(pop *Population, offspring, parents []*Individual) ([]*Individual, error)
	Name() string
}

// ElitistReinsertion tops up a short offspring list with clones of the best
// parents and truncates an oversized one to MaxSize.
type ElitistReinsertion struct{}

// NewElitistReinsertion creates an elitist reinsertion.
func NewElitistReinsertion() *ElitistReinsertion {
	return &ElitistReinsertion{}
}

func (r *ElitistReinsertion) Name() string { return "elitist" }

func (r *ElitistReinsertion) Reinsert(pop *Population, offspring, parents []*Individual) ([]*Individual, error) {
	next := make([]*Individual, len(offspring), pop.MaxSize)
	copy(next, offspring)

	if len(next) < pop.MinSize {
		best := sortByFitness(parents)
		for _, p := range best {
			if len(next) >= pop.MinSize {
				break
			}
			next = append(next, p.Clone())
		}
	}
	if len(next) < pop.MinSize {
		return nil, fmt.Errorf("%w: %d offspring and %d parents cannot fill minimum size %d",
			ErrInvalidConfiguration, len(offspring), len(parents), pop.MinSize)
	}
	if len(next) > pop.MaxSize {
		next = next[:pop.MaxSize]
	}
	return next, nil
}

// PureReinsertion replaces the population with the offspring unchanged.
type PureReinsertion struct{}

// NewPureReinsertion creates a pure reinsertion.
func NewPureReinsertion() *PureReinsertion {
	return &PureReinsertion{}
}

func (r *PureReinsertion) Name() string { return "pure" }

// Reinsert fails if the offspring count is outside the population bounds.
func (r *PureReinsertion) Reinsert(pop *Population, offspring, _ []*Individual) ([]*Individual, error) {
	if len(offspring) < pop.MinSize || len(offspring) > pop.MaxSize {
		return nil, fmt.Errorf("%w: %d offspring outside [%d, %d]", ErrInvalidConfiguration, len(offspring), pop.MinSize, pop.MaxSize)
	}
	return offspring, nil
}
