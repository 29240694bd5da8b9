package evolution

import "time"

// GenerationStats holds statistics for a single generation.
type GenerationStats struct {
	Generation   int       `json:"generation"`
	BestFitness  float64   `json:"best_fitness"`
	AvgFitness   float64   `json:"avg_fitness"`
	WorstFitness float64   `json:"worst_fitness"`
	Diversity    float64   `json:"diversity"`
	Evaluations  int       `json:"evaluations"`
	Timestamp    time.Time `json:"timestamp"`
}

// GenerationEvent is published once per completed generation. Best and
// BestEver are clones; changing them has no effect on the run.
type GenerationEvent struct {
	RunID      string
	Generation int
	Best       *Individual
	BestEver   *Individual
	Stats      GenerationStats
}

// TerminationEvent is published at most once per run, when the termination
// policy is reached.
type TerminationEvent struct {
	RunID      string
	Generation int
	Best       *Individual
	Reason     string
	Elapsed    time.Duration
}

// RunSummary describes how a run ended, whatever the outcome.
type RunSummary struct {
	RunID       string
	State       State
	Err         error
	Generations int
	Best        *Individual
	Reason      string
	Elapsed     time.Duration
}

// Observer receives lifecycle notifications synchronously from the engine loop.
type Observer interface {
	GenerationRan(GenerationEvent)
	TerminationReached(TerminationEvent)
}

// RunFinisher is implemented by observers that want a final notification
// after the run leaves Running, including faulted and stopped runs.
type RunFinisher interface {
	RunFinished(RunSummary)
}

func cloneOrNil(ind *Individual) *Individual {
	if ind == nil {
		return nil
	}
	return ind.Clone()
}
