package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	memory := NewMemoryStore()
	require.NoError(t, memory.Init(ctx))

	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, sqlite.Init(ctx))
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Store{"memory": memory, "sqlite": sqlite}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	started := time.Unix(1700000000, 500)

	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			run := RunRecord{
				ID:          "run-1",
				Problem:     "maxones",
				Config:      `{"min_size":10}`,
				State:       "completed",
				Reason:      "fitness(10)",
				Generations: 12,
				BestFitness: 10,
				BestGenes:   "1111111111",
				StartedAt:   started,
				Elapsed:     1500 * time.Millisecond,
			}
			require.NoError(t, store.SaveRun(ctx, run))

			got, err := store.GetRun(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, run.Problem, got.Problem)
			assert.Equal(t, run.Config, got.Config)
			assert.Equal(t, run.Reason, got.Reason)
			assert.Equal(t, run.Generations, got.Generations)
			assert.Equal(t, run.BestGenes, got.BestGenes)
			assert.Equal(t, run.Elapsed, got.Elapsed)
			assert.True(t, run.StartedAt.Equal(got.StartedAt))

			run.State = "faulted"
			run.Error = "boom"
			require.NoError(t, store.SaveRun(ctx, run))
			got, err = store.GetRun(ctx, "run-1")
			require.NoError(t, err)
			assert.Equal(t, "faulted", got.State)
			assert.Equal(t, "boom", got.Error)
		})
	}
}

func TestStoreGetRunNotFound(t *testing.T) {
	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetRun(context.Background(), "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, "missing", nf.ID)
		})
	}
}

func TestStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Unix(1700000000, 0)

	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			for i, id := range []string{"a", "b", "c"} {
				require.NoError(t, store.SaveRun(ctx, RunRecord{ID: id, StartedAt: base.Add(time.Duration(i) * time.Minute)}))
			}

			runs, err := store.ListRuns(ctx)
			require.NoError(t, err)
			require.Len(t, runs, 3)
			assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
		})
	}
}

func TestStoreGenerations(t *testing.T) {
	ctx := context.Background()

	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, g := range []int{2, 1, 3} {
				require.NoError(t, store.AppendGeneration(ctx, GenerationRecord{
					RunID:       "run-1",
					Generation:  g,
					BestFitness: float64(g),
					Timestamp:   time.Unix(int64(g), 0),
				}))
			}
			require.NoError(t, store.AppendGeneration(ctx, GenerationRecord{RunID: "other", Generation: 1}))
			// Rewriting a generation replaces the row
			require.NoError(t, store.AppendGeneration(ctx, GenerationRecord{RunID: "run-1", Generation: 2, BestFitness: 20}))

			gens, err := store.GetGenerations(ctx, "run-1")
			require.NoError(t, err)
			require.Len(t, gens, 3)
			for i, gen := range gens {
				assert.Equal(t, i+1, gen.Generation)
			}
			assert.Equal(t, 20.0, gens[1].BestFitness)

			none, err := store.GetGenerations(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()

	assert.Error(t, NewMemoryStore().SaveRun(ctx, RunRecord{ID: "x"}))
	assert.Error(t, NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")).SaveRun(ctx, RunRecord{ID: "x"}))
	assert.Error(t, NewSQLiteStore("").Init(ctx))
}

func TestSaveRunRequiresID(t *testing.T) {
	for name, store := range newTestStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.SaveRun(context.Background(), RunRecord{}))
		})
	}
}

func TestNewStore(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
		assert.NoError(t, CloseIfSupported(store))
	}

	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "f.db"))
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Init(context.Background()))
	assert.NoError(t, CloseIfSupported(store))

	_, err = NewStore("postgres", "")
	assert.EqualError(t, err, "unsupported store backend: postgres")
}
