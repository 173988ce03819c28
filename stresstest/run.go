package stresstest

import "fmt"

// Mode selects what a run does to each block.
type Mode int

const (
	// ModeUnset is the zero value and is rejected by Configure.
	ModeUnset Mode = iota

	// ModeReadVerify only reads blocks, collecting ECC statistics.
	ModeReadVerify

	// ModeWriteVerify erases, writes and verifies blocks. Destroys content.
	ModeWriteVerify
)

func (m Mode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeReadVerify:
		return "read-verify"
	case ModeWriteVerify:
		return "write-verify"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Run describes one test run.
type Run struct {
	// Seed starts the pseudorandom payload chain
	Seed uint32

	// Iterations is the number of passes over the range. Zero means one.
	Iterations int

	// Offset is the start of the range; must be erase block aligned
	Offset int64

	// Length is the size of the range; must be erase block aligned. Zero
	// means up to the end of the region.
	Length int64

	// Mode selects read-verify or write-verify; required
	Mode Mode

	// MarkBad marks a block bad when erasing or writing it fails
	MarkBad bool
}

// State is the engine lifecycle state.
type State int

const (
	StateIdle State = iota
	StateConfigured
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
