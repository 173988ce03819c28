package flash

// ErasedByte is the value every bit of an erased page reads back as.
const ErasedByte = 0xFF

// Common small-page and large-page NAND layouts.
const (
	// LargePageSize is the data size of a typical 2 KiB page SLC NAND.
	LargePageSize = 2048

	// LargePageOOBSize is the OOB size paired with LargePageSize.
	LargePageOOBSize = 64

	// LargePageEraseSize is 64 pages of LargePageSize.
	LargePageEraseSize = 128 * 1024

	// SmallPageSize is the data size of legacy 512 byte page NAND.
	SmallPageSize = 512

	// SmallPageOOBSize is the OOB size paired with SmallPageSize.
	SmallPageOOBSize = 16

	// SmallPageEraseSize is 32 pages of SmallPageSize.
	SmallPageEraseSize = 16 * 1024
)

// Operation names used in IOError.
const (
	OpRead     = "read"
	OpWrite    = "write"
	OpErase    = "erase"
	OpIsBad    = "bad block query"
	OpMarkBad  = "mark bad"
	OpECCStats = "ecc stats"
	OpReadOOB  = "read oob"
)
