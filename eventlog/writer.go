package eventlog

import (
	"fmt"
	"io"
	"sync"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution"
)

// Writer is an engine observer that appends every notification to w.
// Observers cannot fail the run, so the first write error is kept and
// reported by Err; later events are dropped.
type Writer struct {
	mu      sync.Mutex
	w       io.Writer
	builder *flatbuffers.Builder
	written int
	err     error
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, builder: flatbuffers.NewBuilder(512)}
}

// Write appends one event.
func (w *Writer) Write(e Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if _, err := w.w.Write(Encode(w.builder, e)); err != nil {
		w.err = fmt.Errorf("failed to write event: %w", err)
		return w.err
	}
	w.written++
	return nil
}

// Written returns the number of events written.
func (w *Writer) Written() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Err returns the first write error.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) GenerationRan(ev evolution.GenerationEvent) {
	_ = w.Write(Event{
		Kind:            KindGeneration,
		RunID:           ev.RunID,
		Generation:      ev.Generation,
		BestFitness:     ev.Stats.BestFitness,
		BestEverFitness: ev.BestEver.Fitness,
		AvgFitness:      ev.Stats.AvgFitness,
		WorstFitness:    ev.Stats.WorstFitness,
		Diversity:       ev.Stats.Diversity,
		Evaluations:     ev.Stats.Evaluations,
		BestGenes:       chromosome.Format(ev.Best.Chromosome),
		Timestamp:       ev.Stats.Timestamp,
	})
}

func (w *Writer) TerminationReached(ev evolution.TerminationEvent) {
	_ = w.Write(Event{
		Kind:        KindTermination,
		RunID:       ev.RunID,
		Generation:  ev.Generation,
		BestFitness: ev.Best.Fitness,
		BestGenes:   chromosome.Format(ev.Best.Chromosome),
		Reason:      ev.Reason,
		Elapsed:     ev.Elapsed,
	})
}

func (w *Writer) RunFinished(s evolution.RunSummary) {
	e := Event{
		Kind:       KindFinished,
		RunID:      s.RunID,
		Generation: s.Generations,
		Reason:     s.Reason,
		State:      s.State.String(),
		Elapsed:    s.Elapsed,
	}
	if s.Best != nil {
		e.BestEverFitness = s.Best.Fitness
		e.BestGenes = chromosome.Format(s.Best.Chromosome)
	}
	if s.Err != nil {
		e.Error = s.Err.Error()
	}
	_ = w.Write(e)
}
