// Package termination provides composable stop conditions for an evolutionary run.
package termination

import (
	"fmt"
	"strings"
	"time"
)

// State is the read-only run snapshot a policy is checked against.
type State struct {
	// Generation is the number of completed generations.
	Generation int
	// Elapsed is the wall time since the run started.
	Elapsed time.Duration
	// BestFitness is the best fitness of the just-ranked generation. Only
	// meaningful when HasBest is set.
	BestFitness float64
	HasBest     bool
	// StagnantGenerations counts completed generations since the best-ever
	// fitness last strictly improved.
	StagnantGenerations int
}

// Policy decides whether a run should stop. Policies are stateless.
type Policy interface {
	HasReached(s State) bool
	String() string
}

type fitnessThreshold struct {
	threshold float64
}

// FitnessThreshold is reached once the best fitness is >= t.
func FitnessThreshold(t float64) Policy {
	return fitnessThreshold{threshold: t}
}

func (p fitnessThreshold) HasReached(s State) bool {
	return s.HasBest && s.BestFitness >= p.threshold
}

func (p fitnessThreshold) String() string {
	return fmt.Sprintf("fitness(%g)", p.threshold)
}

type generationCount struct {
	n int
}

// GenerationCount is reached once n generations have completed.
func GenerationCount(n int) Policy {
	return generationCount{n: n}
}

func (p generationCount) HasReached(s State) bool {
	return s.Generation >= p.n
}

func (p generationCount) String() string {
	return fmt.Sprintf("generations(%d)", p.n)
}

type timeElapsed struct {
	d time.Duration
}

// TimeElapsed is reached once the run has lasted at least d.
func TimeElapsed(d time.Duration) Policy {
	return timeElapsed{d: d}
}

func (p timeElapsed) HasReached(s State) bool {
	return s.Elapsed >= p.d
}

func (p timeElapsed) String() string {
	return fmt.Sprintf("elapsed(%q)", p.d.String())
}

type fitnessStagnation struct {
	n int
}

// FitnessStagnation is reached once the best fitness has not strictly improved
// for n consecutive generations.
func FitnessStagnation(n int) Policy {
	return fitnessStagnation{n: n}
}

func (p fitnessStagnation) HasReached(s State) bool {
	return s.HasBest && s.StagnantGenerations >= p.n
}

func (p fitnessStagnation) String() string {
	return fmt.Sprintf("stagnation(%d)", p.n)
}

type or struct {
	policies []Policy
}

// Or is reached when any sub-policy is reached.
func Or(policies ...Policy) Policy {
	return or{policies: policies}
}

func (p or) HasReached(s State) bool {
	for _, sub := range p.policies {
		if sub.HasReached(s) {
			return true
		}
	}
	return false
}

func (p or) String() string {
	return "or(" + join(p.policies) + ")"
}

type and struct {
	policies []Policy
}

// And is reached when every sub-policy is reached. An empty And never is.
func And(policies ...Policy) Policy {
	return and{policies: policies}
}

func (p and) HasReached(s State) bool {
	if len(p.policies) == 0 {
		return false
	}
	for _, sub := range p.policies {
		if !sub.HasReached(s) {
			return false
		}
	}
	return true
}

func (p and) String() string {
	return "and(" + join(p.policies) + ")"
}

func join(policies []Policy) string {
	parts := make([]string, len(policies))
	for i, p := range policies {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// Reason describes which part of p is reached for s: the first reached branch
// of an Or, every branch of an And, or the leaf itself. It returns "" when p
// is not reached.
func Reason(p Policy, s State) string {
	if !p.HasReached(s) {
		return ""
	}
	switch c := p.(type) {
	case or:
		for _, sub := range c.policies {
			if sub.HasReached(s) {
				return Reason(sub, s)
			}
		}
	case and:
		parts := make([]string, len(c.policies))
		for i, sub := range c.policies {
			parts[i] = Reason(sub, s)
		}
		return strings.Join(parts, " and ")
	}
	return p.String()
}
