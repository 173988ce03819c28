// Package stresstest runs destructive erase/write/verify cycles over a flash
// region and tracks the bitflips the controller corrects along the way.
//
// # Overview
//
// An Engine moves through the states Idle, Configured, Running and then Done
// or Failed. Each pass visits every erase block of the configured range:
//
//   - blocks reported bad are skipped and not counted
//   - in write-verify mode the block is filled from a seeded pseudorandom
//     stream, erased, programmed, read back page by page and compared
//   - in read-verify mode the block is only read, page by page, to collect
//     ECC statistics
//
// Any mismatch, device failure or interrupt ends the run immediately. Nothing
// is retried.
//
// # Basic Usage
//
//	eng := stresstest.New(nand,
//	    stresstest.WithReportWriter(os.Stderr),
//	    stresstest.WithProgressCallback(func(p stresstest.Progress) {
//	        fmt.Printf("\r[%s] block %d %.1f%%", p.Phase, p.Block, p.Percentage)
//	    }),
//	)
//
//	err := eng.Configure(stresstest.Run{
//	    Mode:       stresstest.ModeWriteVerify,
//	    Seed:       1,
//	    Iterations: 4,
//	    MarkBad:    true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := eng.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary.WriteTo(os.Stdout)
//
// # ECC Accounting
//
// Controllers report lifetime cumulative counters. After every page read the
// engine diffs the counters against the previous snapshot. A page that needed
// k corrected bits increments histogram bucket k-1, or the overflow bucket
// when k exceeds the configured maximum; a page ECC could not correct
// increments the failure count.
//
// # Error Handling
//
// The package provides structured error types:
//   - ValidationError: invalid run parameters, reported before any device access
//   - ResourceError: not enough memory for the block buffers
//   - MismatchError: read-back differs from what was written; lists every byte
//   - flash.IOError: a device operation failed
//   - StateError: an operation was called in the wrong engine state
package stresstest
