package history

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps history in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]RunRecord
	generations map[string][]GenerationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]RunRecord)
	s.generations = make(map[string][]GenerationRecord)
	s.initialized = true
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return err
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureInitialized(); err != nil {
		return RunRecord{}, err
	}
	run, ok := s.runs[id]
	if !ok {
		return RunRecord{}, &NotFoundError{Kind: "run", ID: id}
	}
	return run, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	runs := make([]RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	slices.SortFunc(runs, func(a, b RunRecord) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return runs, nil
}

func (s *MemoryStore) AppendGeneration(_ context.Context, gen GenerationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(); err != nil {
		return err
	}
	rows := s.generations[gen.RunID]
	for i := range rows {
		if rows[i].Generation == gen.Generation {
			rows[i] = gen
			return nil
		}
	}
	s.generations[gen.RunID] = append(rows, gen)
	return nil
}

func (s *MemoryStore) GetGenerations(_ context.Context, runID string) ([]GenerationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}
	rows := slices.Clone(s.generations[runID])
	slices.SortFunc(rows, func(a, b GenerationRecord) int { return a.Generation - b.Generation })
	return rows, nil
}

func (s *MemoryStore) ensureInitialized() error {
	if !s.initialized {
		return errors.New("store is not initialized")
	}
	return nil
}
