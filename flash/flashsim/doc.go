// Package flashsim provides a simulated flash.Device.
//
// A Sim keeps page data and OOB in stride layout (PageSize+OOBSize bytes per
// page) on any io.ReaderAt/io.WriterAt: a byte slice for tests, or a file for
// host-side flash images. Programming follows NAND rules: a write can only
// clear bits, erase sets a whole block back to 0xFF.
//
// Faults can be injected per address:
//
//	sim, _ := flashsim.New(geo)
//	sim.SetBad(3)                                    // block 3 reports bad
//	sim.FailOn(flash.OpWrite, addr, errors.New("program timeout"))
//	sim.InjectFlip(addr+17, 0x01)                    // next read of that byte flips bit 0
//	sim.InjectECC(pageAddr, 3, 0)                    // next read of the page corrects 3 bits
//
// Every device call is recorded; Ops and Counters expose the log for
// assertions about what reached the device.
package flashsim
