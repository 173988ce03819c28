package flashsim

import (
	"fmt"
	"io"
)

// Backing stores the raw stride-layout content of a simulated region.
type Backing interface {
	io.ReaderAt
	io.WriterAt
}

// Memory is a Backing held in a byte slice.
type Memory []byte

// NewMemory returns an erased Memory of size bytes.
func NewMemory(size int64) Memory {
	m := make(Memory, size)
	for i := range m {
		m[i] = 0xFF
	}
	return m
}

func (m Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m)) {
		return 0, fmt.Errorf("read at %d: out of range", off)
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m)) {
		return 0, fmt.Errorf("write at %d: out of range", off)
	}
	return copy(m[off:], p), nil
}
