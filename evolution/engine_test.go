package evolution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution/fitness"
	"github.com/signalnine/evolvekit/evolution/termination"
	"github.com/signalnine/evolvekit/problems/cuttingstock"
	"github.com/signalnine/evolvekit/problems/maxones"
	"github.com/signalnine/evolvekit/randsrc"
)

func maxOnesConfig() *Config {
	return &Config{
		MinSize:              100,
		MaxSize:              200,
		MutationProbability:  0.2,
		CrossoverProbability: 0.75,
		Selection:            "elite",
		Crossover:            "onepoint",
		Mutation:             "uniform",
		Reinsertion:          "elitist",
		TournamentSize:       3,
		Termination:          "or(fitness(10), generations(200))",
		Workers:              2,
		Seed:                 42,
	}
}

// newMaxOnesEngine wires a quiet engine over a max-ones problem of the given length.
func newMaxOnesEngine(t *testing.T, config *Config, length int) *Engine {
	t.Helper()
	rng := randsrc.New(config.Seed)
	engine, err := NewEngine(config, rng, maxones.New(length, rng), maxones.Fitness{})
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	engine.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine
}

// recorder collects notifications.
type recorder struct {
	generations  []GenerationEvent
	terminations []TerminationEvent
	finished     []RunSummary
}

func (r *recorder) GenerationRan(e GenerationEvent)       { r.generations = append(r.generations, e) }
func (r *recorder) TerminationReached(e TerminationEvent) { r.terminations = append(r.terminations, e) }
func (r *recorder) RunFinished(s RunSummary)              { r.finished = append(r.finished, s) }

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.MinSize != 100 || config.MaxSize != 200 {
		t.Errorf("Expected population [100, 200], got [%d, %d]", config.MinSize, config.MaxSize)
	}
	if config.MutationProbability != 0.2 {
		t.Errorf("Expected MutationProbability 0.2, got %f", config.MutationProbability)
	}
	if config.CrossoverProbability != 0.75 {
		t.Errorf("Expected CrossoverProbability 0.75, got %f", config.CrossoverProbability)
	}
	if config.Selection != "elite" {
		t.Errorf("Expected Selection 'elite', got '%s'", config.Selection)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"min below two", func(c *Config) { c.MinSize = 1 }},
		{"max below min", func(c *Config) { c.MaxSize = 50 }},
		{"initial outside bounds", func(c *Config) { c.InitialSize = 300 }},
		{"zero mutation", func(c *Config) { c.MutationProbability = 0 }},
		{"mutation above one", func(c *Config) { c.MutationProbability = 1.5 }},
		{"negative crossover", func(c *Config) { c.CrossoverProbability = -0.1 }},
		{"elite fills population", func(c *Config) { c.EliteCount = 100 }},
		{"empty tournament", func(c *Config) { c.Selection = "tournament"; c.TournamentSize = 0 }},
		{"bad termination", func(c *Config) { c.Termination = "forever()" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestNewEngine(t *testing.T) {
	engine := newMaxOnesEngine(t, maxOnesConfig(), 10)

	if engine.State() != StateCreated {
		t.Errorf("Expected created state, got %s", engine.State())
	}
	if engine.RunID() == "" {
		t.Error("RunID not set")
	}
	if engine.Selection.Name() != "elite" || engine.Crossover.Name() != "onepoint" ||
		engine.Mutation.Name() != "uniform" || engine.Reinsertion.Name() != "elitist" {
		t.Error("Operators not resolved from config")
	}
	if engine.Termination.String() != "or(fitness(10), generations(200))" {
		t.Errorf("Unexpected termination %s", engine.Termination)
	}
	if engine.BestEver() != nil || engine.GenerationsNumber() != 0 {
		t.Error("Fresh engine should have no results")
	}
}

func TestNewEngineRejectsBadInput(t *testing.T) {
	rng := randsrc.New(1)

	for _, name := range []string{"selection", "crossover", "mutation", "reinsertion"} {
		t.Run(name, func(t *testing.T) {
			config := maxOnesConfig()
			switch name {
			case "selection":
				config.Selection = "lottery"
			case "crossover":
				config.Crossover = "splice"
			case "mutation":
				config.Mutation = "uniform+scramble"
			case "reinsertion":
				config.Reinsertion = "fitness"
			}
			if _, err := NewEngine(config, rng, maxones.New(4, rng), maxones.Fitness{}); !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}

	if _, err := NewEngine(maxOnesConfig(), rng, nil, maxones.Fitness{}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Nil prototype: expected ErrInvalidConfiguration, got %v", err)
	}
	if _, err := NewEngine(maxOnesConfig(), rng, maxones.New(4, rng), nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Nil evaluator: expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestMaxOnesScenario(t *testing.T) {
	engine := newMaxOnesEngine(t, maxOnesConfig(), 10)
	rec := &recorder{}
	engine.AddObserver(rec)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if engine.State() != StateCompleted {
		t.Fatalf("Expected completed, got %s", engine.State())
	}
	if n := engine.GenerationsNumber(); n < 1 || n > 200 {
		t.Errorf("Expected 1..200 generations, got %d", n)
	}
	if len(rec.generations) != engine.GenerationsNumber() {
		t.Errorf("Expected %d generation events, got %d", engine.GenerationsNumber(), len(rec.generations))
	}
	if len(rec.terminations) != 1 {
		t.Fatalf("Expected exactly one termination event, got %d", len(rec.terminations))
	}

	for i, ev := range rec.generations {
		if ev.Generation != i+1 {
			t.Errorf("Event %d reports generation %d", i, ev.Generation)
		}
		if i > 0 && ev.BestEver.Fitness < rec.generations[i-1].BestEver.Fitness {
			t.Errorf("Best-ever fitness decreased at generation %d", ev.Generation)
		}
	}

	best := engine.BestEver()
	if best.Fitness != float64(maxones.Ones(best.Chromosome)) {
		t.Errorf("Best fitness %f does not match chromosome %s", best.Fitness, chromosome.Format(best.Chromosome))
	}
	if best.Fitness != 10 {
		t.Errorf("Expected all-ones solution, got fitness %f", best.Fitness)
	}
	if rec.terminations[0].Reason != "fitness(10)" {
		t.Errorf("Expected fitness(10) reason, got %q", rec.terminations[0].Reason)
	}
	if len(rec.finished) != 1 || rec.finished[0].State != StateCompleted {
		t.Errorf("Expected one completed RunFinished, got %+v", rec.finished)
	}
}

func TestEliteCountKeepsGenerationBestMonotonic(t *testing.T) {
	config := maxOnesConfig()
	config.EliteCount = 1
	config.Termination = "generations(30)"
	engine := newMaxOnesEngine(t, config, 40)

	var bests []float64
	engine.OnGenerationRan = func(ev GenerationEvent) {
		bests = append(bests, ev.Best.Fitness)
	}
	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(bests); i++ {
		if bests[i] < bests[i-1] {
			t.Fatalf("Generation best decreased from %f to %f", bests[i-1], bests[i])
		}
	}
}

func TestPopulationInvariantsAcrossGenerations(t *testing.T) {
	config := maxOnesConfig()
	config.MinSize, config.MaxSize = 20, 30
	config.EliteCount = 3
	config.Selection = "tournament"
	config.Crossover = "twopoint"
	config.Termination = "generations(25)"
	engine := newMaxOnesEngine(t, config, 16)

	engine.OnGenerationRan = func(ev GenerationEvent) {
		pop := engine.Population()
		if pop.Size() < config.MinSize || pop.Size() > config.MaxSize {
			t.Errorf("Generation %d size %d outside bounds", ev.Generation, pop.Size())
		}
		for i, ind := range pop.Individuals {
			if ind.Chromosome.Length() != 16 {
				t.Errorf("Generation %d individual %d has length %d", ev.Generation, i, ind.Chromosome.Length())
			}
			if !ind.Evaluated {
				t.Errorf("Generation %d individual %d unevaluated after ranking", ev.Generation, i)
			}
			if i > 0 && pop.Individuals[i-1].Fitness < ind.Fitness {
				t.Errorf("Generation %d not ranked at %d", ev.Generation, i)
			}
		}
	}

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if engine.GenerationsNumber() != 25 {
		t.Errorf("Expected 25 generations, got %d", engine.GenerationsNumber())
	}
	if len(engine.Stats()) != 25 {
		t.Errorf("Expected 25 stats entries, got %d", len(engine.Stats()))
	}
}

func TestTerminationComposability(t *testing.T) {
	engine := newMaxOnesEngine(t, maxOnesConfig(), 20)
	engine.Termination = termination.Or(termination.GenerationCount(5), termination.FitnessThreshold(10))

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := engine.GenerationsNumber()
	if n > 5 {
		t.Errorf("Ran %d generations with a 5 generation bound", n)
	}
	if n < 5 && engine.Population().Best().Fitness < 10 {
		t.Errorf("Stopped at %d generations without reaching the fitness threshold", n)
	}
}

func TestGenerationCountOnly(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "generations(7)"
	engine := newMaxOnesEngine(t, config, 200)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if engine.GenerationsNumber() != 7 {
		t.Errorf("Expected 7 generations, got %d", engine.GenerationsNumber())
	}
	if engine.TerminationReason() != "generations(7)" {
		t.Errorf("Unexpected reason %q", engine.TerminationReason())
	}
}

func TestFaultedRun(t *testing.T) {
	config := maxOnesConfig()
	config.MinSize, config.MaxSize = 20, 20
	config.CrossoverProbability = 1
	config.Workers = 1
	config.Termination = "generations(50)"

	boom := errors.New("boom")
	var calls atomic.Int64
	evaluator := fitness.Func(func(c chromosome.Chromosome) (float64, error) {
		if calls.Add(1) > 20 {
			return 0, boom
		}
		return float64(maxones.Ones(c)), nil
	})

	rng := randsrc.New(42)
	engine, err := NewEngine(config, rng, maxones.New(10, rng), evaluator)
	if err != nil {
		t.Fatal(err)
	}
	engine.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := &recorder{}
	engine.AddObserver(rec)

	err = engine.Start(context.Background())
	if !errors.Is(err, ErrEvaluationFailure) || !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped evaluation failure, got %v", err)
	}
	if engine.State() != StateFaulted {
		t.Errorf("Expected faulted, got %s", engine.State())
	}
	if !errors.Is(engine.Err(), boom) {
		t.Errorf("Err() should carry the original error, got %v", engine.Err())
	}
	if len(rec.generations) != 1 {
		t.Errorf("Expected 1 generation event before the fault, got %d", len(rec.generations))
	}
	if len(rec.terminations) != 0 {
		t.Error("Faulted run must not report termination")
	}
	if len(rec.finished) != 1 || rec.finished[0].State != StateFaulted {
		t.Errorf("Expected one faulted RunFinished, got %+v", rec.finished)
	}
	if engine.Population().Size() != 20 {
		t.Errorf("Faulted step should leave the population intact, size %d", engine.Population().Size())
	}
}

func TestStartTwice(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "generations(1)"
	engine := newMaxOnesEngine(t, config, 10)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := engine.Start(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}
	if engine.State() != StateCompleted {
		t.Errorf("Second Start changed state to %s", engine.State())
	}
}

func TestCancelStopsAtGenerationBoundary(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "generations(100)"
	engine := newMaxOnesEngine(t, config, 50)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine.OnGenerationRan = func(ev GenerationEvent) {
		if ev.Generation == 3 {
			cancel()
		}
	}

	err := engine.Start(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if engine.State() != StateStopped {
		t.Errorf("Expected stopped, got %s", engine.State())
	}
	if engine.GenerationsNumber() != 3 {
		t.Errorf("Expected to stop after generation 3, got %d", engine.GenerationsNumber())
	}
	if err := engine.Start(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Stopped engine should not restart, got %v", err)
	}
}

func TestObserversReceiveClones(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "generations(3)"
	engine := newMaxOnesEngine(t, config, 10)

	engine.OnGenerationRan = func(ev GenerationEvent) {
		for i := 0; i < ev.Best.Chromosome.Length(); i++ {
			_ = ev.Best.ReplaceGene(i, chromosome.NewGene(0))
		}
		ev.BestEver.Fitness = -1
	}
	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	best := engine.BestEver()
	if best.Fitness < 0 {
		t.Error("Observer changed the engine's best individual")
	}
	if float64(maxones.Ones(best.Chromosome)) != best.Fitness {
		t.Error("Observer changed the best chromosome")
	}
}

func TestDeterministicUnderSeed(t *testing.T) {
	run := func(workers int) []GenerationStats {
		config := maxOnesConfig()
		config.Workers = workers
		config.Selection = "roulette"
		config.Termination = "generations(15)"
		engine := newMaxOnesEngine(t, config, 30)
		if err := engine.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		return engine.Stats()
	}

	a, b := run(1), run(4)
	if len(a) != len(b) {
		t.Fatalf("Different generation counts: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].BestFitness != b[i].BestFitness || a[i].AvgFitness != b[i].AvgFitness {
			t.Fatalf("Generation %d differs between runs", i+1)
		}
	}
}

func TestTimeElapsedTermination(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = `or(elapsed("5s"), generations(1000))`
	engine := newMaxOnesEngine(t, config, 64)

	clock := time.Unix(0, 0)
	engine.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if engine.TerminationReason() != `elapsed("5s")` {
		t.Errorf("Expected elapsed reason, got %q", engine.TerminationReason())
	}
	if engine.GenerationsNumber() > 5 {
		t.Errorf("Expected the clock to stop the run early, got %d generations", engine.GenerationsNumber())
	}
}

func TestStagnationTermination(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "or(stagnation(5), generations(500))"
	engine := newMaxOnesEngine(t, config, 8)

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if engine.TerminationReason() != "stagnation(5)" {
		t.Errorf("Expected stagnation reason, got %q", engine.TerminationReason())
	}
	// 8 genes cap the fitness at 8, so the run must stagnate
	if engine.BestEver().Fitness > 8 {
		t.Errorf("Impossible fitness %f", engine.BestEver().Fitness)
	}
}

func TestCuttingStockScenario(t *testing.T) {
	problem := referenceCuttingStock(t)
	config := &Config{
		MinSize:              50,
		MaxSize:              100,
		MutationProbability:  0.2,
		CrossoverProbability: 0.75,
		EliteCount:           2,
		Selection:            "tournament",
		Crossover:            "ordered",
		Mutation:             "twors",
		Reinsertion:          "elitist",
		TournamentSize:       3,
		Termination:          "generations(40)",
		Workers:              2,
		Seed:                 42,
	}
	rng := randsrc.New(config.Seed)
	engine, err := NewEngine(config, rng, cuttingstock.New(problem, rng), cuttingstock.Fitness{Problem: problem})
	if err != nil {
		t.Fatal(err)
	}
	engine.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	engine.OnGenerationRan = func(ev GenerationEvent) {
		for _, ind := range engine.Population().Individuals {
			if ind.Fitness > 0 && !problem.DemandMet(ind.Chromosome) {
				t.Fatalf("Generation %d: positive fitness without meeting demand: %v",
					ev.Generation, ind.Chromosome.Genes())
			}
		}
	}

	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	best := engine.BestEver()
	if best.Fitness <= 0 {
		t.Fatalf("Expected a feasible plan, best fitness %f", best.Fitness)
	}
	if best.Fitness > 1.0/84 {
		t.Errorf("Fitness %f beats the known optimum 1/84", best.Fitness)
	}
	plan, err := problem.Decode(best.Chromosome)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if want := 1.0 / float64(1+plan.Waste()+len(plan.Bars)); best.Fitness != want {
		t.Errorf("Fitness %f does not match decoded plan (%f)", best.Fitness, want)
	}
}

func TestWriteReport(t *testing.T) {
	config := maxOnesConfig()
	config.Termination = "generations(4)"
	engine := newMaxOnesEngine(t, config, 10)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "nested", "report.json")
	if err := engine.WriteReport(path); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	report, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport failed: %v", err)
	}
	if report.RunID != engine.RunID() {
		t.Errorf("Expected run id %s, got %s", engine.RunID(), report.RunID)
	}
	if report.State != "completed" || report.Generations != 4 {
		t.Errorf("Unexpected state %s / generations %d", report.State, report.Generations)
	}
	if len(report.StatsHistory) != 4 {
		t.Errorf("Expected 4 stats entries, got %d", len(report.StatsHistory))
	}
	if report.BestEver == nil || report.BestEver.Fitness != engine.BestEver().Fitness {
		t.Error("Best-ever not recorded")
	}
	if len(report.BestEver.Genes) != 10 || len(report.BestEver.Display) != 10 {
		t.Errorf("Unexpected best-ever genes %v", report.BestEver.Genes)
	}
	if report.Config.Termination != "generations(4)" {
		t.Errorf("Config not recorded, got %q", report.Config.Termination)
	}
}
