package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-rawnand/flash/flashsim"
	"github.com/moffa90/go-rawnand/record"
	"github.com/moffa90/go-rawnand/stresstest"
)

func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run DEVICE",
		Short: "Run a stress test against a flash image.",
		Long: `Run erases, writes and verifies every good block in the range ` +
			`(--write) or only reads it (--read), then prints the ECC ` +
			`correction histogram. --write destroys the content of the range.`,
		Args: cobra.ExactArgs(1),
		RunE: runStressTest,
	}

	runCmd.Flags().BoolP("write", "w", false, "Erase, write and verify the range")
	runCmd.Flags().BoolP("read", "r", false, "Read the range and collect ECC statistics")
	runCmd.MarkFlagsMutuallyExclusive("write", "read")
	runCmd.MarkFlagsOneRequired("write", "read")

	runCmd.Flags().BoolP("markbad", "m", false, "Mark blocks bad when erasing or writing fails")
	runCmd.Flags().Uint32P("seed", "s", 0, "Seed for the pseudorandom payload")
	runCmd.Flags().IntP("iterations", "i", 1, "Number of passes over the range")
	runCmd.Flags().Int64P("offset", "o", 0, "Start of the range, erase block aligned")
	runCmd.Flags().Int64P("length", "l", 0, "Length of the range, erase block aligned; 0 means to the end")
	runCmd.Flags().String("record", "", "SQLite database to record the run in")
	runCmd.Flags().Int("max-ecc-bits", stresstest.DefaultMaxECCBits, "Number of ECC histogram buckets")
	runCmd.Flags().BoolP("progress", "p", false, "Print progress while running")

	return runCmd
}

func runStressTest(cmd *cobra.Command, args []string) error {
	run, err := runFromFlags(cmd)
	if err != nil {
		return err
	}
	maxBits, _ := cmd.Flags().GetInt("max-ecc-bits")
	recordPath, _ := cmd.Flags().GetString("record")
	progress, _ := cmd.Flags().GetBool("progress")
	logger := newLogger(cmd)

	img, err := flashsim.OpenImage(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	var history *record.Recorder
	if recordPath != "" {
		history, err = record.Open(recordPath)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	opts := []stresstest.Option{
		stresstest.WithLogger(logger),
		stresstest.WithMaxECCBits(maxBits),
		stresstest.WithReportWriter(cmd.ErrOrStderr()),
	}
	if progress {
		opts = append(opts, stresstest.WithProgressCallback(printProgress(cmd)))
	}

	engine := stresstest.New(img, opts...)
	if err := engine.Configure(run); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	summary, runErr := engine.Run(ctx)
	if history != nil && summary != nil {
		if err := history.Record(img.Path(), summary, runErr); err != nil {
			logger.Error("failed to record run", "error", err.Error())
		}
	}
	if runErr != nil {
		return runErr
	}

	if _, err := summary.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	return img.Close()
}

// runFromFlags builds the run description from the command line.
func runFromFlags(cmd *cobra.Command) (stresstest.Run, error) {
	flags := cmd.Flags()
	var run stresstest.Run

	write, _ := flags.GetBool("write")
	if write {
		run.Mode = stresstest.ModeWriteVerify
	} else {
		run.Mode = stresstest.ModeReadVerify
	}

	var err error
	if run.MarkBad, err = flags.GetBool("markbad"); err != nil {
		return run, err
	}
	if run.Seed, err = flags.GetUint32("seed"); err != nil {
		return run, err
	}
	if run.Iterations, err = flags.GetInt("iterations"); err != nil {
		return run, err
	}
	if run.Offset, err = flags.GetInt64("offset"); err != nil {
		return run, err
	}
	if run.Length, err = flags.GetInt64("length"); err != nil {
		return run, err
	}
	return run, nil
}

func printProgress(cmd *cobra.Command) stresstest.ProgressCallback {
	w := cmd.ErrOrStderr()
	return func(p stresstest.Progress) {
		if p.Phase == stresstest.PhaseComplete {
			fmt.Fprintf(w, "\r%-60s\r", "")
			return
		}
		fmt.Fprintf(w, "\rpass %d/%d block %d (%s) %5.1f%%",
			p.Iteration, p.Iterations, p.Block, p.Phase, p.Percentage)
	}
}
