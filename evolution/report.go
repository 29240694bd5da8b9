package evolution

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/signalnine/evolvekit/chromosome"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0"

// Report is the serializable summary of a run. It records results only;
// a run cannot be resumed from it.
type Report struct {
	RunID        string            `json:"run_id"`
	Config       *Config           `json:"config"`
	State        string            `json:"state"`
	Error        string            `json:"error,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Generations  int               `json:"generations"`
	BestEver     *IndividualData   `json:"best_ever,omitempty"`
	StatsHistory []GenerationStats `json:"stats_history"`
	Elapsed      time.Duration     `json:"elapsed_ns"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
}

// IndividualData represents a serializable individual.
type IndividualData struct {
	Genes   []any   `json:"genes"`
	Fitness float64 `json:"fitness"`
	Age     int     `json:"age"`
	Display string  `json:"display"`
}

// NewIndividualData flattens an individual for serialization.
func NewIndividualData(ind *Individual) *IndividualData {
	if ind == nil {
		return nil
	}
	genes := ind.Chromosome.Genes()
	values := make([]any, len(genes))
	for i, g := range genes {
		values[i] = g.Value
	}
	return &IndividualData{
		Genes:   values,
		Fitness: ind.Fitness,
		Age:     ind.Age,
		Display: chromosome.Format(ind.Chromosome),
	}
}

// Report snapshots the run.
func (e *Engine) Report() *Report {
	e.mu.RLock()
	defer e.mu.RUnlock()

	report := &Report{
		RunID:        e.runID,
		Config:       e.Config,
		State:        e.state.String(),
		Reason:       e.reason,
		Generations:  e.generation,
		BestEver:     NewIndividualData(e.bestEver),
		StatsHistory: append([]GenerationStats(nil), e.stats...),
		Elapsed:      e.elapsed,
		Timestamp:    e.now(),
		Version:      ReportVersion,
	}
	if e.err != nil {
		report.Error = e.err.Error()
	}
	return report
}

// WriteReport saves the run report to a file.
func (e *Engine) WriteReport(path string) error {
	report := e.Report()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	// Write to temp file first, then rename (atomic)
	tempPath := path + ".tmp"
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize report: %w", err)
	}

	return nil
}

// LoadReport reads a report written by WriteReport.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}
