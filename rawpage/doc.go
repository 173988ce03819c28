// Package rawpage exposes a flash region as a linear byte device in raw
// page+OOB layout.
//
// # Addressing
//
// Every page occupies Stride = PageSize+OOBSize bytes:
//
//	offset = page*Stride + intra-page offset
//
// Intra-page bytes [0, PageSize) are page data, [PageSize, Stride) are OOB.
// The stride is usually not a power of two (2048+64 = 2112).
//
// # Reading
//
// Reads may start and end anywhere. Each touched page is fetched whole from
// the device and only the requested bytes are copied out.
//
//	dev, err := rawpage.New(nand)
//	buf := make([]byte, 50)
//	n, err := dev.ReadAt(buf, 200) // bytes [200,250) of page 0
//
// # Writing
//
// Writes must be sequential. A partial stride is held in an accumulator until
// the following write completes it:
//
//	dev.WriteAt(first, 0)                 // first may end mid-page
//	dev.WriteAt(second, int64(len(first))) // must continue exactly there
//
// The first write after the accumulator drains must start on a stride
// boundary. Any other offset fails with a NonSequentialWriteError and does not
// touch the device. A full stride that reads as erased (all 0xFF) is not
// programmed.
//
// Bytes still in the accumulator when the Device is closed are dropped. Callers
// must end a write sequence on a stride boundary.
//
// A Device serves one caller at a time and does no locking.
//
// # OOB Window
//
// OOBDevice is a read-only view holding only the OOB area of each page, OOBSize
// bytes per page. Every read must cover exactly one page's OOB.
package rawpage
