package rawpage

import (
	"fmt"
	"io"

	"github.com/moffa90/go-rawnand/flash"
)

// OOBDevice is a read-only view of the OOB areas of a flash region, OOBSize
// bytes per page in page order.
type OOBDevice struct {
	dev    flash.Device
	geo    flash.Geometry
	config Config
}

// NewOOB creates an OOB view of dev.
func NewOOB(dev flash.Device, opts ...Option) (*OOBDevice, error) {
	if dev == nil {
		panic("device cannot be nil")
	}

	geo := dev.Geometry()
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("device geometry: %w", err)
	}
	if geo.OOBSize == 0 {
		return nil, fmt.Errorf("device has no oob area")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &OOBDevice{dev: dev, geo: geo, config: cfg}, nil
}

// Size returns pages times OOBSize.
func (o *OOBDevice) Size() int64 {
	return o.geo.TotalPages() * int64(o.geo.OOBSize)
}

// ReadAt reads the OOB area of page off/OOBSize. len(p) must equal OOBSize;
// an offset inside an OOB area selects the page the area belongs to.
func (o *OOBDevice) ReadAt(p []byte, off int64) (int, error) {
	if len(p) != o.geo.OOBSize {
		return 0, &LengthError{Length: len(p), OOBSize: o.geo.OOBSize}
	}
	if off < 0 {
		return 0, fmt.Errorf("oob read at %d: %w", off, flash.ErrOutOfRange)
	}

	page, _ := flash.Split(off, int64(o.geo.OOBSize))
	if page >= o.geo.TotalPages() {
		return 0, io.EOF
	}

	if err := o.dev.ReadPage(o.geo.PageAddr(page), nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteAt always fails with ErrReadOnly.
func (o *OOBDevice) WriteAt(p []byte, off int64) (int, error) {
	return 0, ErrReadOnly
}
