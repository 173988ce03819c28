package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-rawnand/record"
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history DB",
		Short: "List recorded runs, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			history, err := record.Open(args[0])
			if err != nil {
				return err
			}
			defer history.Close()

			entries, err := history.Runs(limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tSTARTED\tDEVICE\tMODE\tSEED\tBLOCKS\tBAD\tCORRECTED\tFAILED\tSTATUS")
			for _, e := range entries {
				var corrected uint64
				for _, n := range e.Buckets {
					corrected += n
				}
				corrected += e.Overflow

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
					e.ID, e.StartedAt.Format(time.RFC3339), e.Device, e.Mode, e.Seed,
					e.BlocksTested, e.SkippedBad, corrected, e.Failed, e.Status)
			}
			return w.Flush()
		},
	}

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list; 0 lists all")

	return historyCmd
}
