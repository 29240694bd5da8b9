package cuttingstock

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signalnine/evolvekit/chromosome"
)

// ErrUnpackable is returned when a piece fits no stock or the stock cap is hit.
var ErrUnpackable = errors.New("pieces cannot be packed")

// Bar is one stock bar and the pieces cut from it.
type Bar struct {
	Length int
	Pieces []int
}

// Used returns the total length of the cut pieces.
func (b Bar) Used() int {
	n := 0
	for _, p := range b.Pieces {
		n += p
	}
	return n
}

// Waste returns the offcut left on the bar.
func (b Bar) Waste() int {
	return b.Length - b.Used()
}

// Plan is a decoded cutting plan.
type Plan struct {
	Bars []Bar
}

// Waste returns the total offcut across all bars.
func (p Plan) Waste() int {
	n := 0
	for _, b := range p.Bars {
		n += b.Waste()
	}
	return n
}

func (p Plan) String() string {
	var sb strings.Builder
	for i, b := range p.Bars {
		fmt.Fprintf(&sb, "bar %d (%d): %v waste %d\n", i+1, b.Length, b.Pieces, b.Waste())
	}
	return sb.String()
}

// Decode packs the gene sequence first-fit.
func (p *Problem) Decode(c chromosome.Chromosome) (Plan, error) {
	var plan Plan
	for _, g := range c.Genes() {
		piece := g.Int()
		placed := false
		for i := range plan.Bars {
			if plan.Bars[i].Waste() >= piece {
				plan.Bars[i].Pieces = append(plan.Bars[i].Pieces, piece)
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		if p.MaxStocks > 0 && len(plan.Bars) >= p.MaxStocks {
			return Plan{}, fmt.Errorf("%w: more than %d bars needed", ErrUnpackable, p.MaxStocks)
		}
		stock := 0
		for _, l := range p.StockLengths {
			if l >= piece {
				stock = l
				break
			}
		}
		if stock == 0 {
			return Plan{}, fmt.Errorf("%w: piece %d longer than every stock", ErrUnpackable, piece)
		}
		plan.Bars = append(plan.Bars, Bar{Length: stock, Pieces: []int{piece}})
	}
	return plan, nil
}

// Fitness scores a cutting sequence as 1/(1+waste+bars). Sequences that do not
// supply the demand exactly, or cannot be packed, score 0.
type Fitness struct {
	Problem *Problem
}

// Evaluate decodes c and scores the plan.
func (f Fitness) Evaluate(c chromosome.Chromosome) (float64, error) {
	if !f.Problem.DemandMet(c) {
		return 0, nil
	}
	plan, err := f.Problem.Decode(c)
	if err != nil {
		if errors.Is(err, ErrUnpackable) {
			return 0, nil
		}
		return 0, err
	}
	return 1.0 / float64(1+plan.Waste()+len(plan.Bars)), nil
}
