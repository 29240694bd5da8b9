package evolution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution/fitness"
	"github.com/signalnine/evolvekit/evolution/operators"
	"github.com/signalnine/evolvekit/evolution/termination"
	"github.com/signalnine/evolvekit/randsrc"
)

// Config holds configuration for an evolutionary run.
type Config struct {
	MinSize              int     `json:"min_size"`              // Population lower bound
	MaxSize              int     `json:"max_size"`              // Population upper bound
	InitialSize          int     `json:"initial_size"`          // Individuals created at start (0 = MinSize)
	MutationProbability  float64 `json:"mutation_probability"`  // In (0, 1]
	CrossoverProbability float64 `json:"crossover_probability"` // In [0, 1]
	EliteCount           int     `json:"elite_count"`           // Best individuals copied unchanged each generation
	Selection            string  `json:"selection"`             // elite, tournament, roulette, rank, sus
	Crossover            string  `json:"crossover"`             // onepoint, twopoint, uniform, ordered
	Mutation             string  `json:"mutation"`              // uniform, twors, reverse, or a "+" pipeline
	Reinsertion          string  `json:"reinsertion"`           // elitist, pure
	TournamentSize       int     `json:"tournament_size"`       // Tournament selection size
	Termination          string  `json:"termination"`           // Policy expression, e.g. or(fitness(10), generations(200))
	Workers              int     `json:"workers"`               // Parallel fitness workers (0 = auto)
	Seed                 int64   `json:"seed"`                  // Random seed (0 = use time)
	Verbose              bool    `json:"verbose"`               // Log every generation at info level
}

// DefaultConfig returns a default evolution configuration.
func DefaultConfig() *Config {
	return &Config{
		MinSize:              100,
		MaxSize:              200,
		InitialSize:          0,
		MutationProbability:  0.2,
		CrossoverProbability: 0.75,
		EliteCount:           0,
		Selection:            "elite",
		Crossover:            "onepoint",
		Mutation:             "uniform",
		Reinsertion:          "elitist",
		TournamentSize:       3,
		Termination:          "generations(100)",
		Workers:              0,
		Seed:                 0,
		Verbose:              false,
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	switch {
	case c.MinSize < 2:
		return fmt.Errorf("%w: min size %d is below 2", ErrInvalidConfiguration, c.MinSize)
	case c.MaxSize < c.MinSize:
		return fmt.Errorf("%w: max size %d is below min size %d", ErrInvalidConfiguration, c.MaxSize, c.MinSize)
	case c.InitialSize != 0 && (c.InitialSize < c.MinSize || c.InitialSize > c.MaxSize):
		return fmt.Errorf("%w: initial size %d outside [%d, %d]", ErrInvalidConfiguration, c.InitialSize, c.MinSize, c.MaxSize)
	case c.MutationProbability <= 0 || c.MutationProbability > 1:
		return fmt.Errorf("%w: mutation probability %g outside (0, 1]", ErrInvalidConfiguration, c.MutationProbability)
	case c.CrossoverProbability < 0 || c.CrossoverProbability > 1:
		return fmt.Errorf("%w: crossover probability %g outside [0, 1]", ErrInvalidConfiguration, c.CrossoverProbability)
	case c.EliteCount < 0 || c.EliteCount >= c.MinSize:
		return fmt.Errorf("%w: elite count %d outside [0, %d)", ErrInvalidConfiguration, c.EliteCount, c.MinSize)
	case c.Selection == "tournament" && c.TournamentSize < 1:
		return fmt.Errorf("%w: tournament size %d", ErrInvalidConfiguration, c.TournamentSize)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfiguration, c.Workers)
	}
	if _, err := termination.Parse(c.Termination); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}

func (c *Config) initialSize() int {
	if c.InitialSize == 0 {
		return c.MinSize
	}
	return c.InitialSize
}

// State is the engine lifecycle state.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateCompleted
	StateFaulted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFaulted:
		return "faulted"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine runs the generational loop. The operator fields are resolved from
// the configuration by NewEngine and may be replaced before Start.
type Engine struct {
	Config      *Config
	Logger      *slog.Logger
	Selection   Selector
	Crossover   CrossoverOperator
	Mutation    operators.MutationOperator
	Reinsertion Reinsertion
	Termination termination.Policy
	Evaluator   BatchEvaluator

	// Callbacks for progress reporting
	OnGenerationRan      func(GenerationEvent)
	OnTerminationReached func(TerminationEvent)

	rng       randsrc.Source
	prototype chromosome.Chromosome
	observers []Observer
	now       func() time.Time

	mu         sync.RWMutex
	runID      string
	state      State
	err        error
	population *Population
	bestEver   *Individual
	generation int
	stagnant   int
	stats      []GenerationStats
	started    time.Time
	elapsed    time.Duration
	reason     string
}

// NewEngine creates an engine for prototype scored by evaluator. A nil config
// uses DefaultConfig; a nil rng is seeded from config.Seed. Pass the same rng
// the prototype draws from to make runs reproducible.
func NewEngine(config *Config, rng randsrc.Source, prototype chromosome.Chromosome, evaluator fitness.Evaluator) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if prototype == nil {
		return nil, fmt.Errorf("%w: nil prototype chromosome", ErrInvalidConfiguration)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: nil fitness evaluator", ErrInvalidConfiguration)
	}
	if rng == nil {
		rng = randsrc.New(config.Seed)
	}

	selection, err := NewSelector(config.Selection, config, rng)
	if err != nil {
		return nil, err
	}
	crossover, err := NewCrossover(config.Crossover)
	if err != nil {
		return nil, err
	}
	mutation, err := NewMutation(config.Mutation)
	if err != nil {
		return nil, err
	}
	reinsertion, err := NewReinsertion(config.Reinsertion)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Config:      config,
		Logger:      slog.Default(),
		Selection:   selection,
		Crossover:   crossover,
		Mutation:    mutation,
		Reinsertion: reinsertion,
		Termination: termination.MustParse(config.Termination),
		Evaluator:   NewParallelEvaluator(evaluator, config.Workers),
		rng:         rng,
		prototype:   prototype,
		now:         time.Now,
		runID:       uuid.NewString(),
	}, nil
}

// AddObserver registers an observer. Observers are called in registration
// order on the engine goroutine.
func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
}

// RunID identifies this run in logs, event streams and history.
func (e *Engine) RunID() string {
	return e.runID
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Err returns the error that faulted or stopped the run.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

// BestEver returns a clone of the best individual seen so far, or nil.
func (e *Engine) BestEver() *Individual {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneOrNil(e.bestEver)
}

// GenerationsNumber returns the number of completed generations.
func (e *Engine) GenerationsNumber() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Population returns the live population. It must not be modified while
// the engine is running.
func (e *Engine) Population() *Population {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.population
}

// Stats returns a copy of the per-generation statistics.
func (e *Engine) Stats() []GenerationStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	stats := make([]GenerationStats, len(e.stats))
	copy(stats, e.stats)
	return stats
}

// TerminationReason names the policy branch that ended a completed run.
func (e *Engine) TerminationReason() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reason
}

// Start runs the evolution to completion. It returns ErrInvalidState unless
// the engine is freshly created. ctx is checked between generations only;
// a cancelled run ends Stopped with ctx.Err().
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateCreated {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: cannot start a %s engine", ErrInvalidState, state)
	}
	e.state = StateRunning
	e.started = e.now()
	e.mu.Unlock()

	e.Logger.Info("Starting evolution",
		"run_id", e.runID,
		"population", e.Config.initialSize(),
		"selection", e.Selection.Name(),
		"crossover", e.Crossover.Name(),
		"mutation", e.Mutation.Name(),
		"termination", e.Termination.String())

	err := e.run(ctx)

	e.mu.Lock()
	e.elapsed = e.now().Sub(e.started)
	switch {
	case err == nil:
		e.state = StateCompleted
	case errors.Is(err, errStopped):
		e.state = StateStopped
		err = ctx.Err()
	default:
		e.state = StateFaulted
	}
	e.err = err
	summary := RunSummary{
		RunID:       e.runID,
		State:       e.state,
		Err:         err,
		Generations: e.generation,
		Best:        cloneOrNil(e.bestEver),
		Reason:      e.reason,
		Elapsed:     e.elapsed,
	}
	e.mu.Unlock()

	if err != nil {
		e.Logger.Warn("Evolution ended early", "run_id", e.runID, "state", summary.State.String(), "error", err)
	} else {
		e.Logger.Info("Evolution complete",
			"run_id", e.runID,
			"generations", summary.Generations,
			"best_fitness", summary.Best.Fitness,
			"reason", summary.Reason,
			"elapsed", summary.Elapsed)
	}

	for _, o := range e.observers {
		if f, ok := o.(RunFinisher); ok {
			f.RunFinished(summary)
		}
	}
	return err
}

var errStopped = errors.New("stopped")

func (e *Engine) run(ctx context.Context) error {
	pop, err := NewPopulation(e.Config.MinSize, e.Config.MaxSize, e.prototype)
	if err != nil {
		return err
	}
	if err := pop.Initialize(e.Config.initialSize()); err != nil {
		return err
	}
	if err := e.checkLength(pop); err != nil {
		return err
	}

	e.mu.Lock()
	e.population = pop
	e.mu.Unlock()

	for {
		if ctx.Err() != nil {
			return errStopped
		}

		evaluations, err := pop.EvaluateAndRank(ctx, e.Evaluator)
		if err != nil {
			return err
		}

		event := e.completeGeneration(pop, evaluations)
		e.publishGeneration(event)

		state := e.terminationState(pop)
		if e.Termination.HasReached(state) {
			reason := termination.Reason(e.Termination, state)
			e.mu.Lock()
			e.reason = reason
			e.mu.Unlock()
			e.publishTermination(TerminationEvent{
				RunID:      e.runID,
				Generation: state.Generation,
				Best:       pop.Best().Clone(),
				Reason:     reason,
				Elapsed:    state.Elapsed,
			})
			return nil
		}

		next, err := e.nextGeneration(pop)
		if err != nil {
			return err
		}
		if err := pop.ReplaceWith(next); err != nil {
			return err
		}
	}
}

// checkLength guards the fixed-length invariant of a client chromosome.
func (e *Engine) checkLength(pop *Population) error {
	for _, ind := range pop.Individuals {
		if err := chromosome.ValidateLength(e.prototype, ind.Chromosome); err != nil {
			return err
		}
	}
	return nil
}

// completeGeneration advances the counter and records best-ever and stats.
func (e *Engine) completeGeneration(pop *Population, evaluations int) GenerationEvent {
	best := pop.Best()
	stats := GenerationStats{
		BestFitness:  best.Fitness,
		AvgFitness:   pop.GetAverageFitness(),
		WorstFitness: pop.Worst().Fitness,
		Diversity:    pop.ComputeDiversity(),
		Evaluations:  evaluations,
		Timestamp:    e.now(),
	}

	e.mu.Lock()
	e.generation++
	pop.Generation = e.generation
	stats.Generation = e.generation
	if e.bestEver == nil || best.Fitness > e.bestEver.Fitness {
		e.bestEver = best.Clone()
		e.stagnant = 0
	} else {
		e.stagnant++
	}
	e.stats = append(e.stats, stats)
	event := GenerationEvent{
		RunID:      e.runID,
		Generation: e.generation,
		Best:       best.Clone(),
		BestEver:   e.bestEver.Clone(),
		Stats:      stats,
	}
	e.mu.Unlock()

	level := slog.LevelDebug
	if e.Config.Verbose {
		level = slog.LevelInfo
	}
	e.Logger.Log(context.Background(), level, "Generation ran",
		"run_id", e.runID,
		"generation", stats.Generation,
		"best_fitness", stats.BestFitness,
		"avg_fitness", stats.AvgFitness,
		"diversity", stats.Diversity,
		"evaluations", stats.Evaluations)
	return event
}

func (e *Engine) terminationState(pop *Population) termination.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return termination.State{
		Generation:          e.generation,
		Elapsed:             e.now().Sub(e.started),
		BestFitness:         pop.Best().Fitness,
		HasBest:             true,
		StagnantGenerations: e.stagnant,
	}
}

// nextGeneration builds the next set of individuals from the ranked
// population without modifying it.
func (e *Engine) nextGeneration(pop *Population) ([]*Individual, error) {
	parents, err := e.Selection.Select(pop, e.Config.MinSize)
	if err != nil {
		return nil, fmt.Errorf("selection %s: %w", e.Selection.Name(), err)
	}

	offspring := make([]*Individual, 0, e.Config.EliteCount+len(parents))
	for _, ind := range SelectElite(pop, e.Config.EliteCount) {
		offspring = append(offspring, ind.Clone())
	}

	children := make([]*Individual, 0, len(parents)+1)
	for i := 0; i < len(parents); i += 2 {
		partner := parents[0]
		if i+1 < len(parents) {
			partner = parents[i+1]
		}
		c1, c2, err := e.breed(parents[i], partner)
		if err != nil {
			return nil, err
		}
		children = append(children, c1, c2)
	}
	children = children[:len(parents)]

	for _, child := range children {
		mutated, err := e.Mutation.Mutate(child.Chromosome, e.Config.MutationProbability, e.rng)
		if err != nil {
			return nil, fmt.Errorf("mutation %s: %w", e.Mutation.Name(), err)
		}
		if mutated {
			child.Invalidate()
		}
	}
	offspring = append(offspring, children...)

	next, err := e.Reinsertion.Reinsert(pop, offspring, parents)
	if err != nil {
		return nil, fmt.Errorf("reinsertion %s: %w", e.Reinsertion.Name(), err)
	}
	for _, ind := range next {
		if err := chromosome.ValidateLength(e.prototype, ind.Chromosome); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// breed crosses two parents with the crossover probability, otherwise it
// clones them with their fitness cache intact.
func (e *Engine) breed(p1, p2 *Individual) (*Individual, *Individual, error) {
	if e.rng.Float64() >= e.Config.CrossoverProbability {
		return p1.Clone(), p2.Clone(), nil
	}
	c1, c2, err := e.Crossover.Crossover(p1.Chromosome, p2.Chromosome, e.rng)
	if err != nil {
		return nil, nil, fmt.Errorf("crossover %s: %w", e.Crossover.Name(), err)
	}
	age := e.GenerationsNumber()
	return NewIndividual(c1, age), NewIndividual(c2, age), nil
}

func (e *Engine) publishGeneration(event GenerationEvent) {
	if e.OnGenerationRan != nil {
		e.OnGenerationRan(event)
	}
	for _, o := range e.observers {
		o.GenerationRan(event)
	}
}

func (e *Engine) publishTermination(event TerminationEvent) {
	if e.OnTerminationReached != nil {
		e.OnTerminationReached(event)
	}
	for _, o := range e.observers {
		o.TerminationReached(event)
	}
}
