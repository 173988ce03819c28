package flash

import "fmt"

// Geometry describes the layout of a flash region.
type Geometry struct {
	// PageSize is the data size of one page in bytes
	PageSize int

	// OOBSize is the out-of-band size of one page in bytes
	OOBSize int

	// EraseSize is the size of one erase block in bytes (data only)
	EraseSize int

	// TotalSize is the data size of the whole region in bytes
	TotalSize int64

	// Base is the offset of the region within the chip. It is only used
	// when reporting addresses to an operator.
	Base int64
}

// Validate checks that the geometry is internally consistent.
func (g Geometry) Validate() error {
	switch {
	case g.PageSize <= 0:
		return fmt.Errorf("invalid page size %d", g.PageSize)
	case g.OOBSize < 0:
		return fmt.Errorf("invalid oob size %d", g.OOBSize)
	case g.EraseSize <= 0:
		return fmt.Errorf("invalid erase size %d", g.EraseSize)
	case g.EraseSize%g.PageSize != 0:
		return fmt.Errorf("erase size %d is not a multiple of page size %d", g.EraseSize, g.PageSize)
	case g.TotalSize <= 0:
		return fmt.Errorf("invalid total size %d", g.TotalSize)
	case g.TotalSize%int64(g.EraseSize) != 0:
		return fmt.Errorf("total size %d is not a multiple of erase size %d", g.TotalSize, g.EraseSize)
	case g.Base < 0:
		return fmt.Errorf("invalid region base %d", g.Base)
	}
	return nil
}

// Stride returns the raw size of one page: data plus OOB.
func (g Geometry) Stride() int {
	return g.PageSize + g.OOBSize
}

// PagesPerBlock returns the number of pages in one erase block.
func (g Geometry) PagesPerBlock() int {
	return g.EraseSize / g.PageSize
}

// TotalPages returns the number of pages in the region.
func (g Geometry) TotalPages() int64 {
	return g.TotalSize / int64(g.PageSize)
}

// BlockCount returns the number of erase blocks in the region.
func (g Geometry) BlockCount() int64 {
	return g.TotalSize / int64(g.EraseSize)
}

// PageAddr returns the data-space address of a page.
func (g Geometry) PageAddr(page int64) int64 {
	return page * int64(g.PageSize)
}

// BlockAddr returns the data-space address of an erase block.
func (g Geometry) BlockAddr(block int64) int64 {
	return block * int64(g.EraseSize)
}

// BlockAligned reports whether off falls on an erase block boundary.
func (g Geometry) BlockAligned(off int64) bool {
	return off%int64(g.EraseSize) == 0
}

// Split divides off into a unit index and the remainder within that unit.
// It is the addressing primitive shared by the raw and OOB views:
//
//	page, skip := flash.Split(off, int64(geo.Stride()))
func Split(off, unit int64) (index, rem int64) {
	return off / unit, off % unit
}

// IsErased reports whether every byte of buf holds the erased pattern.
func IsErased(buf []byte) bool {
	for _, b := range buf {
		if b != ErasedByte {
			return false
		}
	}
	return true
}

// Fill sets every byte of buf to the erased pattern.
func Fill(buf []byte) {
	for i := range buf {
		buf[i] = ErasedByte
	}
}
