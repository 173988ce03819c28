package rawpage

import (
	"fmt"
	"io"

	"tinygo.org/x/tinyfs"

	"github.com/moffa90/go-rawnand/flash"
)

var _ tinyfs.BlockDevice = (*Device)(nil)

// Device is a flash region viewed in raw page+OOB layout.
//
// Device is NOT safe for concurrent use. Writes from independent sources
// must not be interleaved on one Device.
type Device struct {
	dev    flash.Device
	geo    flash.Geometry
	stride int64
	config Config

	// Write accumulator. wbase is the stride aligned offset of the page
	// being assembled and is only meaningful while wfill > 0.
	wbuf  []byte
	wfill int
	wbase int64

	closed bool
}

// New creates a raw view of dev.
//
// Example:
//
//	dev, err := rawpage.New(nand, rawpage.WithAllowBadErase(false))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
func New(dev flash.Device, opts ...Option) (*Device, error) {
	if dev == nil {
		panic("device cannot be nil")
	}

	geo := dev.Geometry()
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("device geometry: %w", err)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Device{
		dev:    dev,
		geo:    geo,
		stride: int64(geo.Stride()),
		config: cfg,
		wbuf:   make([]byte, geo.Stride()),
	}, nil
}

// Geometry returns the geometry of the underlying region.
func (d *Device) Geometry() flash.Geometry {
	return d.geo
}

// Size returns the raw size of the region: pages times stride.
func (d *Device) Size() int64 {
	return d.geo.TotalPages() * d.stride
}

// WriteBlockSize returns the stride. It is the unit a write must be aligned
// to when nothing is buffered.
func (d *Device) WriteBlockSize() int64 {
	return d.stride
}

// EraseBlockSize returns the raw size of one erase block.
func (d *Device) EraseBlockSize() int64 {
	return int64(d.geo.PagesPerBlock()) * d.stride
}

// Pending returns the number of bytes held in the write accumulator.
func (d *Device) Pending() int {
	return d.wfill
}

// ReadAt reads len(p) raw bytes starting at off.
//
// Each page touched is read whole, data and OOB, and only the requested
// range is copied out. Device errors are returned unchanged along with the
// number of bytes delivered before the failing page. Reads reaching past the
// end are shortened and return io.EOF.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("read at %d: %w", off, flash.ErrOutOfRange)
	}

	size := d.Size()
	if off >= size {
		return 0, io.EOF
	}

	want := len(p)
	short := false
	if int64(want) > size-off {
		want = int(size - off)
		short = true
	}

	scratch := make([]byte, d.stride)
	n := 0
	for n < want {
		page, skip := flash.Split(off+int64(n), d.stride)
		err := d.dev.ReadPage(d.geo.PageAddr(page), scratch[:d.geo.PageSize], scratch[d.geo.PageSize:])
		if err != nil {
			return n, err
		}
		n += copy(p[n:want], scratch[skip:])
	}

	if short {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p at off. Writes must be sequential, see the package
// documentation.
//
// On success WriteAt returns len(p) even if a trailing partial stride is
// still buffered. A failed page write aborts the call; pages programmed
// earlier in the same call stay programmed and the accumulator is emptied.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if d.closed {
		return 0, ErrClosed
	}
	if err := d.checkSequential(off); err != nil {
		return 0, err
	}
	if off+int64(len(p)) > d.Size() {
		return 0, fmt.Errorf("write of %d bytes at %d: %w", len(p), off, flash.ErrOutOfRange)
	}
	if len(p) == 0 {
		return 0, nil
	}

	if d.wfill == 0 {
		d.wbase = off
	}

	// Top up the accumulator.
	done := copy(d.wbuf[d.wfill:], p)
	d.wfill += done
	if d.wfill < len(d.wbuf) {
		return len(p), nil
	}

	base := d.wbase
	d.wfill = 0
	if err := d.program(base, d.wbuf); err != nil {
		return 0, err
	}

	// Whole strides go straight from p.
	cur := base + d.stride
	for len(p)-done >= int(d.stride) {
		if err := d.program(cur, p[done:done+int(d.stride)]); err != nil {
			return done, err
		}
		done += int(d.stride)
		cur += d.stride
	}

	if rest := p[done:]; len(rest) > 0 {
		d.wfill = copy(d.wbuf, rest)
		d.wbase = cur
		d.logDebug("buffered partial stride", "offset", cur, "bytes", d.wfill)
	}

	return len(p), nil
}

// Erase erases every erase block touched by the raw range [off, off+count).
//
// Blocks reported bad are skipped unless WithAllowBadErase(true) was given.
// The first failure aborts the call.
func (d *Device) Erase(off, count int64) error {
	if d.closed {
		return ErrClosed
	}
	if count <= 0 {
		return nil
	}
	if off < 0 || off+count > d.Size() {
		return fmt.Errorf("erase of %d bytes at %d: %w", count, off, flash.ErrOutOfRange)
	}

	first, _ := flash.Split(off, d.stride)
	last, _ := flash.Split(off+count-1, d.stride)
	end := d.geo.PageAddr(last + 1)

	eraseSize := int64(d.geo.EraseSize)
	for addr := d.geo.PageAddr(first) / eraseSize * eraseSize; addr < end; addr += eraseSize {
		if !d.config.AllowBadErase {
			bad, err := d.dev.IsBad(addr)
			if err != nil {
				return err
			}
			if bad {
				d.logInfo("skipping bad block", "addr", fmt.Sprintf("0x%08x", d.geo.Base+addr))
				continue
			}
		}
		if err := d.dev.Erase(addr); err != nil {
			return err
		}
	}
	return nil
}

// EraseBlocks erases count raw erase blocks starting at block start.
func (d *Device) EraseBlocks(start, count int64) error {
	ebs := d.EraseBlockSize()
	return d.Erase(start*ebs, count*ebs)
}

// Close releases the accumulator. Buffered bytes that never completed a
// stride are dropped.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	if d.wfill > 0 {
		d.logError("dropping unflushed partial stride",
			"offset", d.wbase,
			"bytes", d.wfill,
		)
	}
	d.wbuf = nil
	d.wfill = 0
	d.closed = true
	return nil
}

func (d *Device) checkSequential(off int64) error {
	if d.wfill > 0 {
		if want := d.wbase + int64(d.wfill); off != want {
			return &NonSequentialWriteError{Offset: off, Expected: want}
		}
		return nil
	}
	if off < 0 || off%d.stride != 0 {
		return &NonSequentialWriteError{Offset: off, Expected: -1}
	}
	return nil
}

// program writes one full stride at the stride aligned raw offset off.
func (d *Device) program(off int64, stride []byte) error {
	page := off / d.stride
	if flash.IsErased(stride) {
		d.logDebug("skipping erased page", "page", page)
		return nil
	}
	return d.dev.WritePage(d.geo.PageAddr(page), stride[:d.geo.PageSize], stride[d.geo.PageSize:])
}

// logDebug logs a debug message if a logger is configured.
func (d *Device) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (d *Device) logInfo(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (d *Device) logError(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Error(msg, keysAndValues...)
	}
}
