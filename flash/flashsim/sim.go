package flashsim

import (
	"fmt"

	"github.com/moffa90/go-rawnand/flash"
)

// Op is one recorded device call.
type Op struct {
	// Kind is one of the flash.Op* names
	Kind string

	// Addr is the data-space address the call was issued at
	Addr int64
}

// Counters summarizes the recorded device calls.
type Counters struct {
	Reads      int
	Writes     int
	Erases     int
	BadQueries int
	MarkBads   int
}

type faultKey struct {
	op   string
	addr int64
}

type eccEvent struct {
	corrected uint32
	failed    uint32
}

// Sim is a simulated flash region.
//
// Sim is not safe for concurrent use, matching the flash.Device contract.
type Sim struct {
	geo     flash.Geometry
	stride  int64
	backing Backing

	bad    map[int64]bool
	stats  flash.ECCStats
	faults map[faultKey]error
	flips  map[int64]byte
	ecc    map[int64][]eccEvent

	ops []Op

	// onMarkBad is called after a block is marked bad.
	onMarkBad func(block int64) error
}

// New creates an erased in-memory Sim.
func New(geo flash.Geometry) (*Sim, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	return NewWithBacking(geo, NewMemory(geo.TotalPages()*int64(geo.Stride())))
}

// NewWithBacking creates a Sim over existing stride-layout content.
func NewWithBacking(geo flash.Geometry, backing Backing) (*Sim, error) {
	if err := geo.Validate(); err != nil {
		return nil, err
	}
	if backing == nil {
		return nil, fmt.Errorf("backing cannot be nil")
	}

	return &Sim{
		geo:     geo,
		stride:  int64(geo.Stride()),
		backing: backing,
		bad:     make(map[int64]bool),
		faults:  make(map[faultKey]error),
		flips:   make(map[int64]byte),
		ecc:     make(map[int64][]eccEvent),
	}, nil
}

// Geometry implements flash.Device.
func (s *Sim) Geometry() flash.Geometry {
	return s.geo
}

// ReadPage implements flash.Device.
func (s *Sim) ReadPage(addr int64, data, oob []byte) error {
	s.record(flash.OpRead, addr)
	if err := s.geo.CheckPage(addr); err != nil {
		return err
	}
	if err := s.fault(flash.OpRead, addr); err != nil {
		return err
	}
	if data != nil && len(data) != s.geo.PageSize {
		return fmt.Errorf("data buffer is %d bytes, page size is %d", len(data), s.geo.PageSize)
	}
	if oob != nil && len(oob) != s.geo.OOBSize {
		return fmt.Errorf("oob buffer is %d bytes, oob size is %d", len(oob), s.geo.OOBSize)
	}

	raw := s.rawOffset(addr)
	if data != nil {
		if _, err := s.backing.ReadAt(data, raw); err != nil {
			return err
		}
		for i := range data {
			if mask, ok := s.flips[addr+int64(i)]; ok {
				data[i] ^= mask
				delete(s.flips, addr+int64(i))
			}
		}
	}
	if oob != nil {
		if _, err := s.backing.ReadAt(oob, raw+int64(s.geo.PageSize)); err != nil {
			return err
		}
	}

	if events := s.ecc[addr]; len(events) > 0 {
		ev := events[0]
		s.ecc[addr] = events[1:]
		s.stats.Corrected += ev.corrected
		s.stats.Failed += ev.failed
		if ev.failed > 0 {
			return fmt.Errorf("page 0x%08x: %w", addr, flash.ErrUncorrectable)
		}
	}
	return nil
}

// WritePage implements flash.Device. Programming only clears bits.
func (s *Sim) WritePage(addr int64, data, oob []byte) error {
	s.record(flash.OpWrite, addr)
	if err := s.geo.CheckPage(addr); err != nil {
		return err
	}
	if err := s.fault(flash.OpWrite, addr); err != nil {
		return err
	}

	raw := s.rawOffset(addr)
	if data != nil {
		if len(data) != s.geo.PageSize {
			return fmt.Errorf("data buffer is %d bytes, page size is %d", len(data), s.geo.PageSize)
		}
		if err := s.program(raw, data); err != nil {
			return err
		}
	}
	if oob != nil {
		if len(oob) != s.geo.OOBSize {
			return fmt.Errorf("oob buffer is %d bytes, oob size is %d", len(oob), s.geo.OOBSize)
		}
		if err := s.program(raw+int64(s.geo.PageSize), oob); err != nil {
			return err
		}
	}
	return nil
}

// Erase implements flash.Device.
func (s *Sim) Erase(addr int64) error {
	s.record(flash.OpErase, addr)
	if err := s.geo.CheckBlock(addr); err != nil {
		return err
	}
	if err := s.fault(flash.OpErase, addr); err != nil {
		return err
	}

	blank := make([]byte, int64(s.geo.PagesPerBlock())*s.stride)
	flash.Fill(blank)
	_, err := s.backing.WriteAt(blank, s.rawOffset(addr))
	return err
}

// IsBad implements flash.Device.
func (s *Sim) IsBad(addr int64) (bool, error) {
	s.record(flash.OpIsBad, addr)
	if err := s.geo.CheckBlock(addr); err != nil {
		return false, err
	}
	if err := s.fault(flash.OpIsBad, addr); err != nil {
		return false, err
	}
	return s.bad[addr/int64(s.geo.EraseSize)], nil
}

// MarkBad implements flash.Device.
func (s *Sim) MarkBad(addr int64) error {
	s.record(flash.OpMarkBad, addr)
	if err := s.geo.CheckBlock(addr); err != nil {
		return err
	}
	if err := s.fault(flash.OpMarkBad, addr); err != nil {
		return err
	}

	block := addr / int64(s.geo.EraseSize)
	s.bad[block] = true
	if s.onMarkBad != nil {
		return s.onMarkBad(block)
	}
	return nil
}

// ECCStats implements flash.Device.
func (s *Sim) ECCStats() (flash.ECCStats, error) {
	if err := s.fault(flash.OpECCStats, 0); err != nil {
		return flash.ECCStats{}, err
	}
	return s.stats, nil
}

// SetBad marks a block bad without recording a device call.
func (s *Sim) SetBad(block int64) {
	s.bad[block] = true
}

// BadBlocks returns the indices of all bad blocks in ascending order.
func (s *Sim) BadBlocks() []int64 {
	var blocks []int64
	for b := int64(0); b < s.geo.BlockCount(); b++ {
		if s.bad[b] {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// FailOn makes every op call at addr return err. A nil err clears the fault.
// ECC stats faults use address 0.
func (s *Sim) FailOn(op string, addr int64, err error) {
	key := faultKey{op: op, addr: addr}
	if err == nil {
		delete(s.faults, key)
		return
	}
	s.faults[key] = err
}

// InjectFlip XORs mask into the data byte at addr on its next read. The
// stored content is left intact.
func (s *Sim) InjectFlip(addr int64, mask byte) {
	s.flips[addr] = mask
}

// InjectECC queues an ECC event for the next read of the page at addr.
// Events queue up per page and fire one per read.
func (s *Sim) InjectECC(addr int64, corrected, failed uint32) {
	s.ecc[addr] = append(s.ecc[addr], eccEvent{corrected: corrected, failed: failed})
}

// SetECCStats overwrites the cumulative counters.
func (s *Sim) SetECCStats(stats flash.ECCStats) {
	s.stats = stats
}

// Ops returns the recorded device calls in order.
func (s *Sim) Ops() []Op {
	return append([]Op(nil), s.ops...)
}

// Counters returns per-kind totals of the recorded device calls.
func (s *Sim) Counters() Counters {
	var c Counters
	for _, op := range s.ops {
		switch op.Kind {
		case flash.OpRead:
			c.Reads++
		case flash.OpWrite:
			c.Writes++
		case flash.OpErase:
			c.Erases++
		case flash.OpIsBad:
			c.BadQueries++
		case flash.OpMarkBad:
			c.MarkBads++
		}
	}
	return c
}

// ResetOps clears the call log.
func (s *Sim) ResetOps() {
	s.ops = nil
}

// Raw returns a copy of the stored data and OOB of the page at addr,
// bypassing faults, flips and the call log.
func (s *Sim) Raw(addr int64) ([]byte, error) {
	if err := s.geo.CheckPage(addr); err != nil {
		return nil, err
	}
	buf := make([]byte, s.stride)
	if _, err := s.backing.ReadAt(buf, s.rawOffset(addr)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Sim) rawOffset(addr int64) int64 {
	return addr / int64(s.geo.PageSize) * s.stride
}

func (s *Sim) program(off int64, p []byte) error {
	cur := make([]byte, len(p))
	if _, err := s.backing.ReadAt(cur, off); err != nil {
		return err
	}
	for i := range cur {
		cur[i] &= p[i]
	}
	_, err := s.backing.WriteAt(cur, off)
	return err
}

func (s *Sim) fault(op string, addr int64) error {
	return s.faults[faultKey{op: op, addr: addr}]
}

func (s *Sim) record(kind string, addr int64) {
	s.ops = append(s.ops, Op{Kind: kind, Addr: addr})
}
