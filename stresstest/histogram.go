package stresstest

import "github.com/moffa90/go-rawnand/flash"

// ECCHistogram counts corrected-bit events by magnitude.
//
// Buckets[k-1] counts reads that needed k corrected bits, for k up to
// len(Buckets). Larger corrections go to Overflow. Failed counts reads ECC
// could not correct.
type ECCHistogram struct {
	Buckets  []uint64
	Overflow uint64
	Failed   uint64

	last flash.ECCStats
}

// NewECCHistogram returns an empty histogram with maxBits buckets.
func NewECCHistogram(maxBits int) *ECCHistogram {
	return &ECCHistogram{Buckets: make([]uint64, maxBits)}
}

// Prime sets the snapshot later observations are diffed against.
func (h *ECCHistogram) Prime(stats flash.ECCStats) {
	h.last = stats
}

// Observe diffs cumulative counters against the previous snapshot, counts
// the delta and keeps stats as the new snapshot.
func (h *ECCHistogram) Observe(stats flash.ECCStats) {
	delta := stats.Sub(h.last)
	h.last = stats

	if delta.Corrected > 0 {
		if int64(delta.Corrected) > int64(len(h.Buckets)) {
			h.Overflow++
		} else {
			h.Buckets[delta.Corrected-1]++
		}
	}
	if delta.Failed > 0 {
		h.Failed++
	}
}

// Corrections returns the number of reads that needed any correction.
func (h *ECCHistogram) Corrections() uint64 {
	total := h.Overflow
	for _, n := range h.Buckets {
		total += n
	}
	return total
}

// Clone returns a copy that does not share buckets with h.
func (h *ECCHistogram) Clone() ECCHistogram {
	c := *h
	c.Buckets = append([]uint64(nil), h.Buckets...)
	return c
}
