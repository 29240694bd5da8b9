// Package history persists finished runs and their per-generation statistics.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RunRecord summarizes one engine run.
type RunRecord struct {
	ID          string        `json:"id"`
	Problem     string        `json:"problem"`
	Config      string        `json:"config"` // JSON-encoded evolution.Config
	State       string        `json:"state"`
	Reason      string        `json:"reason,omitempty"`
	Error       string        `json:"error,omitempty"`
	Generations int           `json:"generations"`
	BestFitness float64       `json:"best_fitness"`
	BestGenes   string        `json:"best_genes"`
	StartedAt   time.Time     `json:"started_at"`
	Elapsed     time.Duration `json:"elapsed"`
}

// GenerationRecord is the statistics row for one generation of a run.
type GenerationRecord struct {
	RunID        string    `json:"run_id"`
	Generation   int       `json:"generation"`
	BestFitness  float64   `json:"best_fitness"`
	AvgFitness   float64   `json:"avg_fitness"`
	WorstFitness float64   `json:"worst_fitness"`
	Diversity    float64   `json:"diversity"`
	Evaluations  int       `json:"evaluations"`
	Timestamp    time.Time `json:"timestamp"`
}

// Store is a run history backend. Lookups of unknown runs return an error
// matching ErrNotFound.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context) ([]RunRecord, error)
	AppendGeneration(ctx context.Context, gen GenerationRecord) error
	// GetGenerations returns the rows of a run ordered by generation.
	GetGenerations(ctx context.Context, runID string) ([]GenerationRecord, error)
}
