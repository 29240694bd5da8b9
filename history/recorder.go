package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution"
)

// Recorder is an engine observer that writes every generation and the
// final run summary to a Store. Observers cannot fail the run, so the
// first store error is kept and reported by Err.
type Recorder struct {
	ctx     context.Context
	store   Store
	problem string
	config  string
	now     func() time.Time

	mu  sync.Mutex
	err error
}

// NewRecorder creates a Recorder for one run of problem under config.
func NewRecorder(ctx context.Context, store Store, problem string, config *evolution.Config) (*Recorder, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return &Recorder{
		ctx:     context.WithoutCancel(ctx),
		store:   store,
		problem: problem,
		config:  string(data),
		now:     time.Now,
	}, nil
}

// Err returns the first store error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) GenerationRan(ev evolution.GenerationEvent) {
	r.keep(r.store.AppendGeneration(r.ctx, GenerationRecord{
		RunID:        ev.RunID,
		Generation:   ev.Generation,
		BestFitness:  ev.Stats.BestFitness,
		AvgFitness:   ev.Stats.AvgFitness,
		WorstFitness: ev.Stats.WorstFitness,
		Diversity:    ev.Stats.Diversity,
		Evaluations:  ev.Stats.Evaluations,
		Timestamp:    ev.Stats.Timestamp,
	}))
}

func (r *Recorder) TerminationReached(evolution.TerminationEvent) {}

func (r *Recorder) RunFinished(sum evolution.RunSummary) {
	run := RunRecord{
		ID:          sum.RunID,
		Problem:     r.problem,
		Config:      r.config,
		State:       sum.State.String(),
		Reason:      sum.Reason,
		Generations: sum.Generations,
		StartedAt:   r.now().Add(-sum.Elapsed),
		Elapsed:     sum.Elapsed,
	}
	if sum.Err != nil {
		run.Error = sum.Err.Error()
	}
	if sum.Best != nil {
		run.BestFitness = sum.Best.Fitness
		run.BestGenes = chromosome.Format(sum.Best.Chromosome)
	}
	r.keep(r.store.SaveRun(r.ctx, run))
}

func (r *Recorder) keep(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		r.err = err
	}
}
