package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/signalnine/evolvekit/eventlog"
)

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events FILE",
		Short: "Print the events of an event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open event log: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}
			events, err := eventlog.ReadAll(f)
			if err != nil {
				return fmt.Errorf("failed to read event log: %w", err)
			}

			for _, e := range events {
				switch e.Kind {
				case eventlog.KindGeneration:
					fmt.Fprintf(out, "%s gen %d best=%.4f best_ever=%.4f avg=%.4f div=%.4f evals=%d\n",
						e.RunID, e.Generation, e.BestFitness, e.BestEverFitness, e.AvgFitness, e.Diversity, e.Evaluations)
				case eventlog.KindTermination:
					fmt.Fprintf(out, "%s terminated at gen %d: %s (best=%.4f)\n",
						e.RunID, e.Generation, e.Reason, e.BestFitness)
				case eventlog.KindFinished:
					line := fmt.Sprintf("%s finished %s after %d generations in %s", e.RunID, e.State, e.Generation, formatDuration(e.Elapsed))
					if e.Error != "" {
						line += ": " + e.Error
					}
					fmt.Fprintln(out, line)
				default:
					fmt.Fprintf(out, "%s unknown event kind %d\n", e.RunID, e.Kind)
				}
			}
			fmt.Fprintf(out, "%d events, %s\n", len(events), humanize.Bytes(uint64(info.Size())))
			return nil
		},
	}
}
