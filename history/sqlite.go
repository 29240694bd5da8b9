package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps history in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	if s.path == "" {
		return errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("create tables: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		_ = s.db.Close()
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, problem, config, state, reason, error, generations, best_fitness, best_genes, started_at_ns, elapsed_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			problem = excluded.problem,
			config = excluded.config,
			state = excluded.state,
			reason = excluded.reason,
			error = excluded.error,
			generations = excluded.generations,
			best_fitness = excluded.best_fitness,
			best_genes = excluded.best_genes,
			started_at_ns = excluded.started_at_ns,
			elapsed_ns = excluded.elapsed_ns
	`, run.ID, run.Problem, run.Config, run.State, run.Reason, run.Error, run.Generations,
		run.BestFitness, run.BestGenes, run.StartedAt.UnixNano(), int64(run.Elapsed))
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, problem, config, state, reason, error, generations, best_fitness, best_genes, started_at_ns, elapsed_ns
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, &NotFoundError{Kind: "run", ID: id}
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, problem, config, state, reason, error, generations, best_fitness, best_genes, started_at_ns, elapsed_ns
		FROM runs ORDER BY started_at_ns DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) AppendGeneration(ctx context.Context, gen GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, avg_fitness, worst_fitness, diversity, evaluations, timestamp_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness = excluded.best_fitness,
			avg_fitness = excluded.avg_fitness,
			worst_fitness = excluded.worst_fitness,
			diversity = excluded.diversity,
			evaluations = excluded.evaluations,
			timestamp_ns = excluded.timestamp_ns
	`, gen.RunID, gen.Generation, gen.BestFitness, gen.AvgFitness, gen.WorstFitness,
		gen.Diversity, gen.Evaluations, gen.Timestamp.UnixNano())
	if err != nil {
		return fmt.Errorf("append generation %d of %s: %w", gen.Generation, gen.RunID, err)
	}
	return nil
}

func (s *SQLiteStore) GetGenerations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, generation, best_fitness, avg_fitness, worst_fitness, diversity, evaluations, timestamp_ns
		FROM generations WHERE run_id = ? ORDER BY generation ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get generations of %s: %w", runID, err)
	}
	defer rows.Close()

	var gens []GenerationRecord
	for rows.Next() {
		var (
			gen GenerationRecord
			ts  int64
		)
		if err := rows.Scan(&gen.RunID, &gen.Generation, &gen.BestFitness, &gen.AvgFitness,
			&gen.WorstFitness, &gen.Diversity, &gen.Evaluations, &ts); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gen.Timestamp = time.Unix(0, ts)
		gens = append(gens, gen)
	}
	return gens, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var (
		run              RunRecord
		started, elapsed int64
	)
	if err := row.Scan(&run.ID, &run.Problem, &run.Config, &run.State, &run.Reason, &run.Error,
		&run.Generations, &run.BestFitness, &run.BestGenes, &started, &elapsed); err != nil {
		return RunRecord{}, err
	}
	run.StartedAt = time.Unix(0, started)
	run.Elapsed = time.Duration(elapsed)
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			problem TEXT NOT NULL,
			config TEXT NOT NULL,
			state TEXT NOT NULL,
			reason TEXT NOT NULL,
			error TEXT NOT NULL,
			generations INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			best_genes TEXT NOT NULL,
			started_at_ns INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			avg_fitness REAL NOT NULL,
			worst_fitness REAL NOT NULL,
			diversity REAL NOT NULL,
			evaluations INTEGER NOT NULL,
			timestamp_ns INTEGER NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
