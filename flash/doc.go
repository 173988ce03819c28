// Package flash describes the raw flash device surface consumed by the rest of
// this module.
//
// # Device Model
//
// A flash region is a sequence of erase blocks, each holding a fixed number of
// pages. Every page carries a data area and an out-of-band (OOB) area used by
// the controller for ECC bytes and markers:
//
//	block 0: [page 0 data][page 0 oob][page 1 data][page 1 oob] ...
//	block 1: ...
//
// Device addresses are byte offsets into the data space of the region only, so
// page N starts at N*PageSize and OOB bytes have no address of their own. The
// raw view used by package rawpage interleaves both areas with a stride of
// PageSize+OOBSize bytes per page:
//
//	raw offset = page*Stride + intra-page offset
//
// # Implementing a Device
//
// This package does NOT talk to hardware. Users provide a Device for their
// controller (an MTD character device, a SPI NAND driver, a simulator):
//
//	type MyNAND struct { /* ... */ }
//
//	func (n *MyNAND) Geometry() flash.Geometry                  { /* ... */ }
//	func (n *MyNAND) ReadPage(addr int64, data, oob []byte) error { /* ... */ }
//	func (n *MyNAND) WritePage(addr int64, data, oob []byte) error { /* ... */ }
//	func (n *MyNAND) Erase(addr int64) error                    { /* ... */ }
//	func (n *MyNAND) IsBad(addr int64) (bool, error)            { /* ... */ }
//	func (n *MyNAND) MarkBad(addr int64) error                  { /* ... */ }
//	func (n *MyNAND) ECCStats() (flash.ECCStats, error)         { /* ... */ }
//
// Package flashsim provides an in-memory and file-image backed implementation
// with fault injection for tests and host-side tooling.
//
// # ECC Statistics
//
// ECCStats reports lifetime cumulative counters. They are never reset by a
// read, so consumers that want per-operation figures must keep the previous
// snapshot and diff against it.
package flash
