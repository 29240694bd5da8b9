package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalnine/evolvekit/chromosome"
	"github.com/signalnine/evolvekit/evolution"
	"github.com/signalnine/evolvekit/evolution/fitness"
	"github.com/signalnine/evolvekit/problems/cuttingstock"
	"github.com/signalnine/evolvekit/problems/maxones"
	"github.com/signalnine/evolvekit/randsrc"
)

func newMaxOnesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maxones",
		Short: "Evolve a bit string towards all ones",
		Long: `Evolves fixed-length bit strings scored by their number of ones.
The maximum fitness equals --length.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			length := a.v.GetInt("length")
			if length < 1 {
				return fmt.Errorf("length must be positive, got %d", length)
			}
			return a.runProblem(cmd, problemSetup{
				name: "maxones",
				build: func(rng randsrc.Source) (chromosome.Chromosome, fitness.Evaluator, error) {
					return maxones.New(length, rng), maxones.Fitness{}, nil
				},
			})
		},
	}

	defaults := evolution.DefaultConfig()
	defaults.Termination = "or(fitness(10), generations(200))"
	cmd.Flags().Int("length", 10, "Bit string length")
	addEvolutionFlags(cmd.Flags(), defaults)
	return cmd
}

func newCuttingStockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cuttingstock",
		Short: "Evolve a one-dimensional cutting plan",
		Long: `Evolves orderings of the demanded pieces, decoded first-fit into stock bars.
Fitness is 1/(1+waste+bars) and 0 when the demand is not met exactly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := parseCuttingStock(a.v.GetString("stocks"), a.v.GetString("demand"), a.v.GetInt("max-stocks"))
			if err != nil {
				return err
			}
			return a.runProblem(cmd, problemSetup{
				name: "cuttingstock",
				build: func(rng randsrc.Source) (chromosome.Chromosome, fitness.Evaluator, error) {
					return cuttingstock.New(problem, rng), cuttingstock.Fitness{Problem: problem}, nil
				},
				describe: func(w io.Writer, best *evolution.Individual) {
					describePlan(w, problem, best)
				},
			})
		},
	}

	defaults := evolution.DefaultConfig()
	defaults.MinSize, defaults.MaxSize = 50, 100
	defaults.Selection = "tournament"
	defaults.Crossover = "ordered"
	defaults.Mutation = "twors"
	defaults.EliteCount = 2
	defaults.Termination = "or(stagnation(50), generations(300))"
	cmd.Flags().String("stocks", "100,100", "Comma-separated stock lengths")
	cmd.Flags().String("demand", "45x2,35x1,20x2,10x3,5x5", "Comma-separated LENGTHxQUANTITY demand")
	cmd.Flags().Int("max-stocks", 0, "Maximum bars that may be cut (0 = unlimited)")
	addEvolutionFlags(cmd.Flags(), defaults)
	return cmd
}

func parseCuttingStock(stocks, demand string, maxStocks int) (*cuttingstock.Problem, error) {
	var lengths []int
	for _, part := range strings.Split(stocks, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("stock length %q: %w", part, err)
		}
		lengths = append(lengths, l)
	}
	demands, err := cuttingstock.ParseDemand(demand)
	if err != nil {
		return nil, err
	}
	problem, err := cuttingstock.NewProblem(lengths, demands)
	if err != nil {
		return nil, err
	}
	if maxStocks < 0 {
		return nil, fmt.Errorf("max stocks must not be negative, got %d", maxStocks)
	}
	problem.MaxStocks = maxStocks
	return problem, nil
}

func describePlan(w io.Writer, problem *cuttingstock.Problem, best *evolution.Individual) {
	if best.Fitness <= fitness.Infeasible {
		fmt.Fprintln(w, "  Plan:            no feasible plan found")
		return
	}
	plan, err := problem.Decode(best.Chromosome)
	if err != nil {
		fmt.Fprintf(w, "  Plan:            %v\n", err)
		return
	}
	fmt.Fprintf(w, "  Plan:            %d bars, waste %d\n", len(plan.Bars), plan.Waste())
	for _, line := range strings.Split(strings.TrimRight(plan.String(), "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}
