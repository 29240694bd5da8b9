package evolution

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution/fitness"
)

// BatchEvaluator scores a batch of chromosomes. The result is index aligned
// with the input; on error no scores are returned.
type BatchEvaluator interface {
	EvaluateBatch(ctx context.Context, chromosomes []chromosome.Chromosome) ([]float64, error)
}

// ParallelEvaluator evaluates chromosomes on a bounded goroutine pool.
type ParallelEvaluator struct {
	NumWorkers int
	Evaluator  fitness.Evaluator
}

// NewParallelEvaluator creates a new parallel evaluator. numWorkers <= 0
// uses one worker per CPU.
func NewParallelEvaluator(evaluator fitness.Evaluator, numWorkers int) *ParallelEvaluator {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &ParallelEvaluator{
		NumWorkers: numWorkers,
		Evaluator:  evaluator,
	}
}

// EvaluateBatch evaluates all chromosomes and joins before returning. The
// first failure stops further evaluations from starting; evaluations already
// running finish. Cancelling ctx never interrupts the batch.
func (pe *ParallelEvaluator) EvaluateBatch(ctx context.Context, chromosomes []chromosome.Chromosome) ([]float64, error) {
	scores := make([]float64, len(chromosomes))
	if len(chromosomes) == 0 {
		return scores, nil
	}

	if pe.NumWorkers == 1 {
		for i, c := range chromosomes {
			f, err := pe.evaluate(i, c)
			if err != nil {
				return nil, err
			}
			scores[i] = f
		}
		return scores, nil
	}

	p := pool.New().
		WithMaxGoroutines(pe.NumWorkers).
		WithContext(context.WithoutCancel(ctx)).
		WithCancelOnError().
		WithFirstError()
	for i, c := range chromosomes {
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}
			f, err := pe.evaluate(i, c)
			if err != nil {
				return err
			}
			scores[i] = f
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (pe *ParallelEvaluator) evaluate(i int, c chromosome.Chromosome) (float64, error) {
	f, err := pe.Evaluator.Evaluate(c)
	if err != nil {
		return 0, fmt.Errorf("%w: individual %d: %w", ErrEvaluationFailure, i, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: individual %d: non-finite fitness %v", ErrEvaluationFailure, i, f)
	}
	return f, nil
}
