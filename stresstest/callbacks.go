package stresstest

import "time"

// Progress phases.
const (
	PhaseErasing   = "erasing"
	PhaseWriting   = "writing"
	PhaseReading   = "reading"
	PhaseVerifying = "verifying"
	PhaseComplete  = "complete"
)

// Progress contains information about a running test.
// Passed to ProgressCallback during Run.
type Progress struct {
	// Phase is one of the Phase* constants
	Phase string

	// Iteration is the current pass (1-based)
	Iteration int

	// Iterations is the total number of passes
	Iterations int

	// Block is the index of the erase block being processed
	Block int64

	// BlocksDone is the number of blocks finished across all passes,
	// including skipped bad blocks
	BlocksDone int64

	// TotalBlocks is the number of blocks across all passes
	TotalBlocks int64

	// Percentage is the completion percentage (0.0 to 100.0)
	Percentage float64

	// ElapsedTime is the time elapsed since the run started
	ElapsedTime time.Duration
}

// ProgressCallback is called during Run to report progress.
// Implementations should return quickly.
type ProgressCallback func(Progress)
