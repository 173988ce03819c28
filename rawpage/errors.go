package rawpage

import (
	"errors"
	"fmt"
)

// ErrReadOnly is returned by writes to an OOBDevice.
var ErrReadOnly = errors.New("device is read-only")

// ErrClosed is returned by operations on a closed Device.
var ErrClosed = errors.New("device is closed")

// NonSequentialWriteError indicates a write that does not continue the
// previous one, or that starts mid-stride with nothing buffered.
type NonSequentialWriteError struct {
	// Offset is the offset the write was issued at
	Offset int64

	// Expected is the offset the write had to start at. It is -1 when any
	// stride aligned offset was acceptable.
	Expected int64
}

func (e *NonSequentialWriteError) Error() string {
	if e.Expected < 0 {
		return fmt.Sprintf("non-sequential write at %d: offset is not stride aligned", e.Offset)
	}
	return fmt.Sprintf("non-sequential write at %d: expected offset %d", e.Offset, e.Expected)
}

// IsNonSequential returns true if err is or wraps a NonSequentialWriteError.
func IsNonSequential(err error) bool {
	var nsErr *NonSequentialWriteError
	return errors.As(err, &nsErr)
}

// LengthError indicates an OOB read that does not cover exactly one OOB area.
type LengthError struct {
	Length  int
	OOBSize int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("oob read of %d bytes: length must be %d", e.Length, e.OOBSize)
}
