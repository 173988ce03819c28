package stresstest

import (
	"fmt"
	"io"
)

// ValidationError indicates an invalid run parameter.
type ValidationError struct {
	Field  string
	Value  int64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// ResourceError indicates the block buffers could not be allocated.
type ResourceError struct {
	Needed    uint64
	Available uint64
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("not enough memory: need %d bytes, %d available", e.Needed, e.Available)
}

// StateError indicates an operation called in the wrong engine state.
type StateError struct {
	Operation string
	State     State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Operation, e.State)
}

// ByteDiff is one byte that read back differently than it was written.
type ByteDiff struct {
	// Offset is the byte offset within the erase block
	Offset int

	// Page is the page within the erase block
	Page int

	// PageOffset is the byte offset within the page
	PageOffset int

	Got  byte
	Want byte
}

// MismatchError indicates that a block failed verification.
type MismatchError struct {
	// Block is the erase block index within the region
	Block int64

	// Addr is the chip address of the block (region base included)
	Addr int64

	// Diffs lists every differing byte in offset order
	Diffs []ByteDiff
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify failed on block %d at 0x%08x: %d bytes differ",
		e.Block, e.Addr, len(e.Diffs))
}

// WriteReport prints one line per differing byte.
func (e *MismatchError) WriteReport(w io.Writer) error {
	for _, d := range e.Diffs {
		_, err := fmt.Fprintf(w,
			"block %d byte 0x%05x (page %d offset 0x%03x): read 0x%02x, expected 0x%02x\n",
			e.Block, d.Offset, d.Page, d.PageOffset, d.Got, d.Want)
		if err != nil {
			return err
		}
	}
	return nil
}

// compareBlock returns every byte where got differs from want.
func compareBlock(got, want []byte, pageSize int) []ByteDiff {
	var diffs []ByteDiff
	for i := range want {
		if got[i] != want[i] {
			diffs = append(diffs, ByteDiff{
				Offset:     i,
				Page:       i / pageSize,
				PageOffset: i % pageSize,
				Got:        got[i],
				Want:       want[i],
			})
		}
	}
	return diffs
}
