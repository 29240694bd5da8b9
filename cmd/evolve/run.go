package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/eventlog"
	"github.com/signalnine/evolvekit/evolution"
	"github.com/signalnine/evolvekit/evolution/fitness"
	"github.com/signalnine/evolvekit/history"
	"github.com/signalnine/evolvekit/metrics"
	"github.com/signalnine/evolvekit/randsrc"
)

// problemSetup builds a problem's prototype and evaluator from the shared rng.
type problemSetup struct {
	name  string
	build func(rng randsrc.Source) (chromosome.Chromosome, fitness.Evaluator, error)
	// describe prints problem-specific detail about the best individual.
	describe func(w io.Writer, best *evolution.Individual)
}

// addEvolutionFlags registers the engine flags with the problem's defaults.
func addEvolutionFlags(fs *pflag.FlagSet, d *evolution.Config) {
	fs.Int64("seed", d.Seed, "Random seed (0 = use current time)")
	fs.Int("workers", d.Workers, "Parallel fitness workers (0 = auto-detect CPU count)")
	fs.Int("min", d.MinSize, "Minimum population size")
	fs.Int("max", d.MaxSize, "Maximum population size")
	fs.Int("initial", d.InitialSize, "Initial population size (0 = min)")
	fs.Float64("mutation", d.MutationProbability, "Per-gene mutation probability")
	fs.Float64("crossover-prob", d.CrossoverProbability, "Probability a parent pair is recombined")
	fs.Int("elite", d.EliteCount, "Best individuals copied unchanged into each generation")
	fs.String("selection", d.Selection, "Selection (elite, tournament, roulette, rank, sus)")
	fs.String("crossover", d.Crossover, "Crossover (onepoint, twopoint, uniform, ordered)")
	fs.String("mutation-op", d.Mutation, "Mutation (uniform, twors, reverse, or a + pipeline)")
	fs.String("reinsertion", d.Reinsertion, "Reinsertion (elitist, pure)")
	fs.Int("tournament-size", d.TournamentSize, "Tournament selection size")
	fs.String("termination", d.Termination, `Termination expression, e.g. "or(fitness(10), generations(200))"`)
	fs.Bool("verbose", d.Verbose, "Log every generation at info level")
	fs.String("events", "", "Append run events to this file")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.String("report", "", "Write a JSON run report to this file")
}

func configFromViper(v *viper.Viper) *evolution.Config {
	return &evolution.Config{
		MinSize:              v.GetInt("min"),
		MaxSize:              v.GetInt("max"),
		InitialSize:          v.GetInt("initial"),
		MutationProbability:  v.GetFloat64("mutation"),
		CrossoverProbability: v.GetFloat64("crossover-prob"),
		EliteCount:           v.GetInt("elite"),
		Selection:            v.GetString("selection"),
		Crossover:            v.GetString("crossover"),
		Mutation:             v.GetString("mutation-op"),
		Reinsertion:          v.GetString("reinsertion"),
		TournamentSize:       v.GetInt("tournament-size"),
		Termination:          v.GetString("termination"),
		Workers:              v.GetInt("workers"),
		Seed:                 v.GetInt64("seed"),
		Verbose:              v.GetBool("verbose"),
	}
}

// runProblem wires the engine with its observers, runs it and prints a
// summary.
func (a *app) runProblem(cmd *cobra.Command, setup problemSetup) error {
	out := cmd.OutOrStdout()
	config := configFromViper(a.v)

	// Pin the seed so the run can be reproduced from its record
	rng := randsrc.New(config.Seed)
	config.Seed = rng.Seed()

	prototype, evaluator, err := setup.build(rng)
	if err != nil {
		return err
	}
	engine, err := evolution.NewEngine(config, rng, prototype, evaluator)
	if err != nil {
		return err
	}
	engine.Logger = a.logger.With("problem", setup.name)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.NewStore(a.v.GetString("store"), a.v.GetString("db"))
	if err != nil {
		return err
	}
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer history.CloseIfSupported(store)

	recorder, err := history.NewRecorder(ctx, store, setup.name, config)
	if err != nil {
		return err
	}
	engine.AddObserver(recorder)

	var events *eventlog.Writer
	if path := a.v.GetString("events"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open event log: %w", err)
		}
		defer f.Close()
		events = eventlog.NewWriter(f)
		engine.AddObserver(events)
	}

	if addr := a.v.GetString("metrics-addr"); addr != "" {
		collector := metrics.NewCollector()
		engine.AddObserver(collector)
		shutdown, err := a.serveMetrics(addr, collector)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	engine.OnGenerationRan = func(ev evolution.GenerationEvent) {
		fmt.Fprintf(out, "\rGen %4d | Best: %.4f | Avg: %.4f | Div: %.4f",
			ev.Generation, ev.Stats.BestFitness, ev.Stats.AvgFitness, ev.Stats.Diversity)
	}

	runErr := engine.Start(ctx)
	fmt.Fprintln(out)

	if err := recorder.Err(); err != nil {
		a.logger.Warn("Run history incomplete", "error", err)
	}
	if events != nil && events.Err() != nil {
		a.logger.Warn("Event log incomplete", "error", events.Err())
	}
	if path := a.v.GetString("report"); path != "" {
		if err := engine.WriteReport(path); err != nil {
			return err
		}
	}

	printSummary(out, engine)
	if best := engine.BestEver(); best != nil && setup.describe != nil {
		setup.describe(out, best)
	}
	if events != nil {
		fmt.Fprintf(out, "  Events:          %s written\n", humanize.Comma(int64(events.Written())))
	}

	if engine.State() == evolution.StateStopped && errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(out, "Interrupted.")
		return nil
	}
	return runErr
}

// serveMetrics starts the metrics endpoint and returns its shutdown func.
func (a *app) serveMetrics(addr string, collector *metrics.Collector) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()
	a.logger.Info("Serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printSummary(w io.Writer, engine *evolution.Engine) {
	evaluations := 0
	for _, s := range engine.Stats() {
		evaluations += s.Evaluations
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                      EVOLUTION SUMMARY")
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintf(w, "  Run:             %s\n", engine.RunID())
	fmt.Fprintf(w, "  State:           %s\n", engine.State())
	if reason := engine.TerminationReason(); reason != "" {
		fmt.Fprintf(w, "  Reason:          %s\n", reason)
	}
	if err := engine.Err(); err != nil {
		fmt.Fprintf(w, "  Error:           %v\n", err)
	}
	fmt.Fprintf(w, "  Generations:     %s\n", humanize.Comma(int64(engine.GenerationsNumber())))
	fmt.Fprintf(w, "  Evaluations:     %s\n", humanize.Comma(int64(evaluations)))
	fmt.Fprintf(w, "  Seed:            %d\n", engine.Config.Seed)
	if best := engine.BestEver(); best != nil {
		fmt.Fprintf(w, "  Best Fitness:    %g\n", best.Fitness)
		fmt.Fprintf(w, "  Best Genes:      %s\n", chromosome.Format(best.Chromosome))
	}
	if report := engine.Report(); report != nil {
		fmt.Fprintf(w, "  Total Time:      %s\n", formatDuration(report.Elapsed))
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
