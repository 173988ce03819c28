package stresstest

import (
	"encoding/binary"
	"math/rand"
)

// seedChain hands out one generator per block position. Each position
// reseeds the chain from the generator's own first output, so the payload of
// block n depends on the initial seed and n only. Bad blocks and read-only
// passes advance the chain like any other position.
type seedChain struct {
	seed int64
}

func newSeedChain(seed uint32) *seedChain {
	return &seedChain{seed: int64(seed)}
}

// next advances the chain by one block position and returns the generator
// for that block's payload.
func (c *seedChain) next() *rand.Rand {
	r := rand.New(rand.NewSource(c.seed))
	c.seed = r.Int63()
	return r
}

// fillPayload overwrites buf with output of r.
func fillPayload(buf []byte, r *rand.Rand) {
	var word [8]byte
	for i := 0; i < len(buf); i += len(word) {
		binary.LittleEndian.PutUint64(word[:], r.Uint64())
		copy(buf[i:], word[:])
	}
}
