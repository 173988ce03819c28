package flashsim

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-rawnand/flash"
)

// MetaSuffix is appended to an image path to name its metadata sidecar.
const MetaSuffix = ".yaml"

// imageMeta is the on-disk sidecar describing an image.
type imageMeta struct {
	PageSize  int     `yaml:"page_size"`
	OOBSize   int     `yaml:"oob_size"`
	EraseSize int     `yaml:"erase_size"`
	TotalSize int64   `yaml:"total_size"`
	Base      int64   `yaml:"base,omitempty"`
	BadBlocks []int64 `yaml:"bad_blocks,omitempty"`
	Corrected uint32  `yaml:"ecc_corrected,omitempty"`
	Failed    uint32  `yaml:"ecc_failed,omitempty"`
}

func (m imageMeta) geometry() flash.Geometry {
	return flash.Geometry{
		PageSize:  m.PageSize,
		OOBSize:   m.OOBSize,
		EraseSize: m.EraseSize,
		TotalSize: m.TotalSize,
		Base:      m.Base,
	}
}

// Image is a Sim persisted in a file.
//
// The image file holds every page in stride layout; the sidecar at
// path+MetaSuffix holds the geometry, the bad block table and the ECC
// counters. Marking a block bad rewrites the sidecar immediately.
type Image struct {
	*Sim

	path string
	file *os.File
}

// CreateImage creates an erased image file and its sidecar. An existing
// image at path is overwritten.
func CreateImage(path string, geo flash.Geometry) (*Image, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}

	blank := make([]byte, int64(geo.PagesPerBlock())*int64(geo.Stride()))
	flash.Fill(blank)
	for b := int64(0); b < geo.BlockCount(); b++ {
		if _, err := f.WriteAt(blank, b*int64(len(blank))); err != nil {
			f.Close()
			return nil, fmt.Errorf("erase image block %d: %w", b, err)
		}
	}

	img, err := newImage(path, f, imageMeta{
		PageSize:  geo.PageSize,
		OOBSize:   geo.OOBSize,
		EraseSize: geo.EraseSize,
		TotalSize: geo.TotalSize,
		Base:      geo.Base,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := img.saveMeta(); err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

// OpenImage opens an image created by CreateImage.
func OpenImage(path string) (*Image, error) {
	raw, err := os.ReadFile(path + MetaSuffix)
	if err != nil {
		return nil, fmt.Errorf("read image metadata: %w", err)
	}

	var meta imageMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse image metadata: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}

	img, err := newImage(path, f, meta)
	if err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

func newImage(path string, f *os.File, meta imageMeta) (*Image, error) {
	geo := meta.geometry()
	if err := geo.Validate(); err != nil {
		return nil, fmt.Errorf("image geometry: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if want := geo.TotalPages() * int64(geo.Stride()); info.Size() != want {
		return nil, fmt.Errorf("image is %d bytes, geometry needs %d", info.Size(), want)
	}

	sim, err := NewWithBacking(geo, f)
	if err != nil {
		return nil, err
	}
	for _, b := range meta.BadBlocks {
		if b < 0 || b >= geo.BlockCount() {
			return nil, fmt.Errorf("bad block %d outside image", b)
		}
		sim.SetBad(b)
	}
	sim.SetECCStats(flash.ECCStats{Corrected: meta.Corrected, Failed: meta.Failed})

	img := &Image{Sim: sim, path: path, file: f}
	sim.onMarkBad = func(int64) error { return img.saveMeta() }
	return img, nil
}

// Path returns the image file path.
func (img *Image) Path() string {
	return img.path
}

// Close writes the sidecar and closes the image file.
func (img *Image) Close() error {
	if img.file == nil {
		return nil
	}
	err := errors.Join(img.saveMeta(), img.file.Sync(), img.file.Close())
	img.file = nil
	return err
}

func (img *Image) saveMeta() error {
	geo := img.geo
	meta := imageMeta{
		PageSize:  geo.PageSize,
		OOBSize:   geo.OOBSize,
		EraseSize: geo.EraseSize,
		TotalSize: geo.TotalSize,
		Base:      geo.Base,
		BadBlocks: img.BadBlocks(),
		Corrected: img.stats.Corrected,
		Failed:    img.stats.Failed,
	}

	raw, err := yaml.Marshal(&meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(img.path+MetaSuffix, raw, 0o644); err != nil {
		return fmt.Errorf("write image metadata: %w", err)
	}
	return nil
}
