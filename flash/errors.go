package flash

import (
	"errors"
	"fmt"
)

// ErrUncorrectable is returned (wrapped) by Device.ReadPage when the
// controller could not correct the page.
var ErrUncorrectable = errors.New("uncorrectable ecc error")

// ErrOutOfRange indicates an address outside the region.
var ErrOutOfRange = errors.New("address out of range")

// IOError represents a failed device operation.
// Contains the operation and the region address it was issued at.
type IOError struct {
	// Op is the operation that failed (OpRead, OpWrite, ...)
	Op string

	// Addr is the data-space address of the operation
	Addr int64

	// Err is the error returned by the device
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s at 0x%08x failed: %v", e.Op, e.Addr, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsIOError returns true if err is or wraps an IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

// CheckPage validates a page address against the geometry.
func (g Geometry) CheckPage(addr int64) error {
	if addr < 0 || addr >= g.TotalSize {
		return fmt.Errorf("page 0x%08x: %w", addr, ErrOutOfRange)
	}
	if addr%int64(g.PageSize) != 0 {
		return fmt.Errorf("page address 0x%08x is not aligned to %d", addr, g.PageSize)
	}
	return nil
}

// CheckBlock validates an erase block address against the geometry.
func (g Geometry) CheckBlock(addr int64) error {
	if addr < 0 || addr >= g.TotalSize {
		return fmt.Errorf("block 0x%08x: %w", addr, ErrOutOfRange)
	}
	if !g.BlockAligned(addr) {
		return fmt.Errorf("block address 0x%08x is not aligned to %d", addr, g.EraseSize)
	}
	return nil
}
