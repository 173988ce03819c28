package flash

// ECCStats holds the cumulative ECC counters reported by a controller.
type ECCStats struct {
	// Corrected is the total number of bitflips corrected so far
	Corrected uint32

	// Failed is the total number of reads ECC could not correct
	Failed uint32
}

// Sub returns the per-counter difference s - prev.
// Counters are unsigned and wrap, so a wrapped counter still yields the
// right delta.
func (s ECCStats) Sub(prev ECCStats) ECCStats {
	return ECCStats{
		Corrected: s.Corrected - prev.Corrected,
		Failed:    s.Failed - prev.Failed,
	}
}

// Device is a raw flash region.
//
// All addresses are data-space byte offsets relative to the start of the
// region. Page operations take a page aligned address, Erase, IsBad and
// MarkBad take an erase block aligned address.
//
// Implementations are not required to be safe for concurrent use.
type Device interface {
	// Geometry returns the layout of the region.
	Geometry() Geometry

	// ReadPage reads one page in raw mode. data must be PageSize bytes and
	// oob OOBSize bytes; either may be nil to skip that area. A page whose
	// bitflips could not be corrected returns an error wrapping
	// ErrUncorrectable after filling the buffers.
	ReadPage(addr int64, data, oob []byte) error

	// WritePage programs one page in raw mode. A nil oob leaves the OOB
	// area to the controller.
	WritePage(addr int64, data, oob []byte) error

	// Erase erases the block starting at addr.
	Erase(addr int64) error

	// IsBad reports whether the block starting at addr is marked bad.
	IsBad(addr int64) (bool, error)

	// MarkBad marks the block starting at addr as bad.
	MarkBad(addr int64) error

	// ECCStats returns the lifetime cumulative ECC counters.
	ECCStats() (ECCStats, error)
}
