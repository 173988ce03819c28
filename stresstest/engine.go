package stresstest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/xid"

	"github.com/moffa90/go-rawnand/flash"
)

// Engine runs stress tests against one flash region.
//
// All run state lives in the Engine, so separate engines, or consecutive runs
// on one engine, do not share statistics or seeds. Engine is NOT safe for
// concurrent use.
type Engine struct {
	dev    flash.Device
	geo    flash.Geometry
	config Config

	state State
	run   Run
}

// New creates an Engine for dev with the given options.
func New(dev flash.Device, opts ...Option) *Engine {
	if dev == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Engine{
		dev:    dev,
		geo:    dev.Geometry(),
		config: cfg,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Configure validates run and stores it for the next Run. Nothing is sent to
// the device. Configure may be called again after a run has finished.
func (e *Engine) Configure(run Run) error {
	if e.state == StateRunning {
		return &StateError{Operation: "configure", State: e.state}
	}
	if err := e.geo.Validate(); err != nil {
		return fmt.Errorf("device geometry: %w", err)
	}

	if run.Mode != ModeReadVerify && run.Mode != ModeWriteVerify {
		return &ValidationError{Field: "mode", Value: int64(run.Mode),
			Reason: "one of read-verify or write-verify is required"}
	}
	if run.Iterations < 0 {
		return &ValidationError{Field: "iterations", Value: int64(run.Iterations),
			Reason: "must not be negative"}
	}
	if run.Iterations == 0 {
		run.Iterations = 1
	}

	total := e.geo.TotalSize
	if run.Offset < 0 || run.Offset >= total {
		return &ValidationError{Field: "offset", Value: run.Offset,
			Reason: fmt.Sprintf("outside device of %d bytes", total)}
	}
	if !e.geo.BlockAligned(run.Offset) {
		return &ValidationError{Field: "offset", Value: run.Offset,
			Reason: fmt.Sprintf("not aligned to erase size %d", e.geo.EraseSize)}
	}

	if run.Length == 0 {
		run.Length = total - run.Offset
	}
	if run.Length < 0 || run.Offset+run.Length > total {
		return &ValidationError{Field: "length", Value: run.Length,
			Reason: fmt.Sprintf("exceeds device of %d bytes from offset %d", total, run.Offset)}
	}
	if !e.geo.BlockAligned(run.Length) {
		return &ValidationError{Field: "length", Value: run.Length,
			Reason: fmt.Sprintf("not aligned to erase size %d", e.geo.EraseSize)}
	}

	e.run = run
	e.state = StateConfigured
	return nil
}

// Run executes the configured test.
//
// The context is checked before every block; cancelling it ends the run like
// any other fatal condition. On failure the returned Summary covers the
// blocks processed so far.
func (e *Engine) Run(ctx context.Context) (*Summary, error) {
	if e.state != StateConfigured {
		return nil, &StateError{Operation: "run", State: e.state}
	}
	e.state = StateRunning

	summary := &Summary{
		RunID: xid.New().String(),
		Run:   e.run,
	}
	start := time.Now()

	e.logInfo("starting run",
		"run_id", summary.RunID,
		"mode", e.run.Mode.String(),
		"seed", e.run.Seed,
		"iterations", e.run.Iterations,
		"offset", fmt.Sprintf("0x%08x", e.geo.Base+e.run.Offset),
		"length", e.run.Length,
	)

	hist, err := e.execute(ctx, summary, start)
	summary.Histogram = hist.Clone()
	summary.Elapsed = time.Since(start)

	if err != nil {
		e.state = StateFailed
		e.logError("run failed",
			"run_id", summary.RunID,
			"blocks_tested", summary.BlocksTested,
			"error", err.Error(),
		)
		e.reportFailure(err)
		return summary, err
	}

	e.state = StateDone
	e.reportProgress(Progress{
		Phase:       PhaseComplete,
		Iteration:   e.run.Iterations,
		Iterations:  e.run.Iterations,
		BlocksDone:  e.totalBlocks(),
		TotalBlocks: e.totalBlocks(),
		Percentage:  100,
		ElapsedTime: summary.Elapsed,
	})
	e.logInfo("run complete",
		"run_id", summary.RunID,
		"blocks_tested", summary.BlocksTested,
		"corrections", hist.Corrections(),
		"ecc_failures", hist.Failed,
		"elapsed", summary.Elapsed.String(),
	)
	return summary, nil
}

func (e *Engine) execute(ctx context.Context, summary *Summary, start time.Time) (*ECCHistogram, error) {
	hist := NewECCHistogram(e.config.MaxECCBits)

	eraseSize := e.geo.EraseSize
	if err := e.checkMemory(uint64(2 * eraseSize)); err != nil {
		return hist, err
	}
	written := make([]byte, eraseSize)
	readBack := make([]byte, eraseSize)

	stats, err := e.dev.ECCStats()
	if err != nil {
		return hist, &flash.IOError{Op: flash.OpECCStats, Addr: e.run.Offset, Err: err}
	}
	hist.Prime(stats)

	seeds := newSeedChain(e.run.Seed)
	blocks := e.run.Length / int64(eraseSize)
	total := e.totalBlocks()
	var done int64

	for iter := 1; iter <= e.run.Iterations; iter++ {
		for i := int64(0); i < blocks; i++ {
			if err := ctx.Err(); err != nil {
				return hist, fmt.Errorf("cancelled: %w", err)
			}

			addr := e.run.Offset + i*int64(eraseSize)
			block := addr / int64(eraseSize)
			progress := Progress{
				Iteration:   iter,
				Iterations:  e.run.Iterations,
				Block:       block,
				BlocksDone:  done,
				TotalBlocks: total,
				Percentage:  float64(done) / float64(total) * 100,
				ElapsedTime: time.Since(start),
			}
			gen := seeds.next()

			bad, err := e.dev.IsBad(addr)
			if err != nil {
				return hist, &flash.IOError{Op: flash.OpIsBad, Addr: addr, Err: err}
			}
			if bad {
				e.logInfo("skipping bad block", "block", block, "addr", fmt.Sprintf("0x%08x", e.geo.Base+addr))
				summary.SkippedBad++
				done++
				continue
			}

			switch e.run.Mode {
			case ModeReadVerify:
				progress.Phase = PhaseReading
				e.reportProgress(progress)
				err = e.readBlock(addr, readBack, hist)
			case ModeWriteVerify:
				err = e.writeVerifyBlock(addr, written, readBack, gen, hist, progress)
			}
			if err != nil {
				return hist, err
			}

			summary.BlocksTested++
			done++
		}
	}

	return hist, nil
}

// writeVerifyBlock erases the block at addr, programs a payload drawn from
// gen and verifies it.
func (e *Engine) writeVerifyBlock(addr int64, written, readBack []byte, gen *rand.Rand,
	hist *ECCHistogram, progress Progress) error {
	fillPayload(written, gen)

	progress.Phase = PhaseErasing
	e.reportProgress(progress)
	if err := e.dev.Erase(addr); err != nil {
		return e.deviceFailure(flash.OpErase, addr, addr, err)
	}

	progress.Phase = PhaseWriting
	e.reportProgress(progress)
	pageSize := e.geo.PageSize
	for p := 0; p < e.geo.PagesPerBlock(); p++ {
		pageAddr := addr + int64(p*pageSize)
		if err := e.dev.WritePage(pageAddr, written[p*pageSize:(p+1)*pageSize], nil); err != nil {
			return e.deviceFailure(flash.OpWrite, pageAddr, addr, err)
		}
	}

	progress.Phase = PhaseVerifying
	e.reportProgress(progress)
	if err := e.readBlock(addr, readBack, hist); err != nil {
		return err
	}

	if diffs := compareBlock(readBack, written, pageSize); len(diffs) > 0 {
		return &MismatchError{
			Block: addr / int64(e.geo.EraseSize),
			Addr:  e.geo.Base + addr,
			Diffs: diffs,
		}
	}
	return nil
}

// readBlock reads the block at addr page by page into buf, accounting the
// ECC delta of every page.
func (e *Engine) readBlock(addr int64, buf []byte, hist *ECCHistogram) error {
	pageSize := e.geo.PageSize
	for p := 0; p < e.geo.PagesPerBlock(); p++ {
		pageAddr := addr + int64(p*pageSize)
		err := e.dev.ReadPage(pageAddr, buf[p*pageSize:(p+1)*pageSize], nil)
		if err != nil && !errors.Is(err, flash.ErrUncorrectable) {
			return &flash.IOError{Op: flash.OpRead, Addr: pageAddr, Err: err}
		}

		stats, serr := e.dev.ECCStats()
		if serr != nil {
			return &flash.IOError{Op: flash.OpECCStats, Addr: pageAddr, Err: serr}
		}
		hist.Observe(stats)

		if err != nil {
			e.logError("uncorrectable page", "addr", fmt.Sprintf("0x%08x", e.geo.Base+pageAddr))
		}
	}
	return nil
}

// deviceFailure wraps a failed erase or write and marks the block bad if the
// run asks for it.
func (e *Engine) deviceFailure(op string, addr, blockAddr int64, err error) error {
	ioErr := &flash.IOError{Op: op, Addr: addr, Err: err}
	if !e.run.MarkBad {
		return ioErr
	}

	e.logInfo("marking block bad",
		"block", blockAddr/int64(e.geo.EraseSize),
		"addr", fmt.Sprintf("0x%08x", e.geo.Base+blockAddr),
	)
	if mbErr := e.dev.MarkBad(blockAddr); mbErr != nil {
		return errors.Join(ioErr, &flash.IOError{Op: flash.OpMarkBad, Addr: blockAddr, Err: mbErr})
	}
	return ioErr
}

func (e *Engine) checkMemory(need uint64) error {
	if e.config.MemoryProbe == nil {
		return nil
	}
	avail, err := e.config.MemoryProbe()
	if err != nil {
		e.logDebug("memory probe failed", "error", err.Error())
		return nil
	}
	if avail < need {
		return &ResourceError{Needed: need, Available: avail}
	}
	return nil
}

func (e *Engine) totalBlocks() int64 {
	return e.run.Length / int64(e.geo.EraseSize) * int64(e.run.Iterations)
}

// reportFailure prints the failure report if a report writer is configured.
func (e *Engine) reportFailure(err error) {
	w := e.config.Report
	if w == nil {
		return
	}

	var mismatch *MismatchError
	if errors.As(err, &mismatch) {
		_ = mismatch.WriteReport(w)
	}
	fmt.Fprintf(w, "FAILED: %v\n", err)
}

// reportProgress calls the progress callback if configured.
func (e *Engine) reportProgress(progress Progress) {
	if e.config.ProgressCallback != nil {
		e.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (e *Engine) logDebug(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (e *Engine) logInfo(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (e *Engine) logError(msg string, keysAndValues ...interface{}) {
	if e.config.Logger != nil {
		e.config.Logger.Error(msg, keysAndValues...)
	}
}
