// Package metrics exports engine progress as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signalnine/evolvekit/evolution"
)

// Collector is an engine observer backed by its own registry, so several
// collectors can live in one process.
type Collector struct {
	registry *prometheus.Registry

	generations   *prometheus.CounterVec
	evaluations   *prometheus.CounterVec
	terminations  *prometheus.CounterVec
	runsFinished  *prometheus.CounterVec
	bestFitness   *prometheus.GaugeVec
	bestEver      *prometheus.GaugeVec
	avgFitness    *prometheus.GaugeVec
	diversity     *prometheus.GaugeVec
	runGeneration prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evolve_generations_total",
			Help: "Completed generations.",
		}, []string{"run_id"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evolve_evaluations_total",
			Help: "Fitness evaluations performed.",
		}, []string{"run_id"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evolve_terminations_total",
			Help: "Runs that reached their termination policy.",
		}, []string{"reason"}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evolve_runs_finished_total",
			Help: "Runs by final state.",
		}, []string{"state"}),
		bestFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evolve_best_fitness",
			Help: "Best fitness of the latest generation.",
		}, []string{"run_id"}),
		bestEver: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evolve_best_ever_fitness",
			Help: "Best fitness seen so far in the run.",
		}, []string{"run_id"}),
		avgFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evolve_avg_fitness",
			Help: "Average fitness of the latest generation.",
		}, []string{"run_id"}),
		diversity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evolve_diversity",
			Help: "Mean normalized Hamming distance of the latest generation.",
		}, []string{"run_id"}),
		runGeneration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evolve_run_generations",
			Help:    "Generations per finished run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	c.registry.MustRegister(
		c.generations, c.evaluations, c.terminations, c.runsFinished,
		c.bestFitness, c.bestEver, c.avgFitness, c.diversity, c.runGeneration,
	)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) GenerationRan(ev evolution.GenerationEvent) {
	c.generations.WithLabelValues(ev.RunID).Inc()
	c.evaluations.WithLabelValues(ev.RunID).Add(float64(ev.Stats.Evaluations))
	c.bestFitness.WithLabelValues(ev.RunID).Set(ev.Stats.BestFitness)
	c.avgFitness.WithLabelValues(ev.RunID).Set(ev.Stats.AvgFitness)
	c.diversity.WithLabelValues(ev.RunID).Set(ev.Stats.Diversity)
	if ev.BestEver != nil {
		c.bestEver.WithLabelValues(ev.RunID).Set(ev.BestEver.Fitness)
	}
}

func (c *Collector) TerminationReached(ev evolution.TerminationEvent) {
	c.terminations.WithLabelValues(ev.Reason).Inc()
}

func (c *Collector) RunFinished(sum evolution.RunSummary) {
	c.runsFinished.WithLabelValues(sum.State.String()).Inc()
	c.runGeneration.Observe(float64(sum.Generations))
}
