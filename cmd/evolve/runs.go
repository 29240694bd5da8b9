package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/signalnine/evolvekit/history"
)

func newRunsCmd(a *app) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Long:  `Lists runs recorded in the history store, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store history.Store) error {
				return listRuns(cmd, store)
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show a recorded run and its generations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd, func(store history.Store) error {
				return showRun(cmd, store, args[0])
			})
		},
	}
	runsCmd.AddCommand(showCmd)
	return runsCmd
}

func (a *app) withStore(cmd *cobra.Command, fn func(history.Store) error) error {
	store, err := history.NewStore(a.v.GetString("store"), a.v.GetString("db"))
	if err != nil {
		return err
	}
	if err := store.Init(cmd.Context()); err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer history.CloseIfSupported(store)
	return fn(store)
}

func listRuns(cmd *cobra.Command, store history.Store) error {
	out := cmd.OutOrStdout()
	runs, err := store.ListRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tPROBLEM\tSTATE\tGENERATIONS\tBEST\tSTARTED")
	fmt.Fprintln(w, "------\t-------\t-----\t-----------\t----\t-------")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%s\n",
			run.ID,
			run.Problem,
			run.State,
			humanize.Comma(int64(run.Generations)),
			run.BestFitness,
			humanize.Time(run.StartedAt),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal runs: %d\n", len(runs))
	return nil
}

func showRun(cmd *cobra.Command, store history.Store, id string) error {
	out := cmd.OutOrStdout()
	run, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	gens, err := store.GetGenerations(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run:          %s\n", run.ID)
	fmt.Fprintf(out, "Problem:      %s\n", run.Problem)
	fmt.Fprintf(out, "State:        %s\n", run.State)
	if run.Reason != "" {
		fmt.Fprintf(out, "Reason:       %s\n", run.Reason)
	}
	if run.Error != "" {
		fmt.Fprintf(out, "Error:        %s\n", run.Error)
	}
	fmt.Fprintf(out, "Started:      %s (%s)\n", run.StartedAt.Format("2006-01-02 15:04:05"), humanize.Time(run.StartedAt))
	fmt.Fprintf(out, "Elapsed:      %s\n", formatDuration(run.Elapsed))
	fmt.Fprintf(out, "Best:         %g %s\n", run.BestFitness, run.BestGenes)
	fmt.Fprintf(out, "Config:       %s\n\n", run.Config)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GEN\tBEST\tAVG\tWORST\tDIVERSITY\tEVALS")
	for _, g := range gens {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
			g.Generation, g.BestFitness, g.AvgFitness, g.WorstFitness, g.Diversity, g.Evaluations)
	}
	return w.Flush()
}
