package stresstest

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Summary is the outcome of a run. A failed run returns the summary of the
// blocks processed before the failure.
type Summary struct {
	// RunID identifies the run in logs and recorded history
	RunID string

	Run Run

	// BlocksTested counts tested blocks over all passes; bad blocks excluded
	BlocksTested int64

	// SkippedBad counts bad blocks skipped over all passes
	SkippedBad int64

	Histogram ECCHistogram

	Elapsed time.Duration
}

// WriteTo prints the summary in the operator-facing format.
func (s *Summary) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary (run %s, %s, seed %d):\n", s.RunID, s.Run.Mode, s.Run.Seed)
	fmt.Fprintf(&b, "  Blocks tested:      %d\n", s.BlocksTested)
	fmt.Fprintf(&b, "  Bad blocks skipped: %d\n", s.SkippedBad)
	fmt.Fprintf(&b, "  ECC corrections:\n")
	for i, n := range s.Histogram.Buckets {
		unit := "bits"
		if i == 0 {
			unit = "bit"
		}
		fmt.Fprintf(&b, "    %2d %-4s %d\n", i+1, unit+":", n)
	}
	fmt.Fprintf(&b, "    >%d bits: %d\n", len(s.Histogram.Buckets), s.Histogram.Overflow)
	fmt.Fprintf(&b, "  ECC failures:       %d\n", s.Histogram.Failed)
	fmt.Fprintf(&b, "  Elapsed:            %s\n", s.Elapsed.Round(time.Millisecond))

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}
