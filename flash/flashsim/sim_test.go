package flashsim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/moffa90/go-rawnand/flash"
)

func smallGeometry() flash.Geometry {
	return flash.Geometry{
		PageSize:  flash.SmallPageSize,
		OOBSize:   flash.SmallPageOOBSize,
		EraseSize: flash.SmallPageEraseSize,
		TotalSize: 8 * flash.SmallPageEraseSize,
	}
}

func pattern(n int, seed byte) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = seed + byte(i)
	}
	return buf
}

var _ = Describe("Sim", func() {
	var (
		geo flash.Geometry
		sim *Sim
	)

	BeforeEach(func() {
		geo = smallGeometry()
		var err error
		sim, err = New(geo)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should reject an invalid geometry", func() {
		geo.EraseSize = 1000
		_, err := New(geo)
		Expect(err).To(HaveOccurred())
	})

	It("should start erased", func() {
		data := make([]byte, geo.PageSize)
		oob := make([]byte, geo.OOBSize)
		Expect(sim.ReadPage(0, data, oob)).To(Succeed())
		Expect(flash.IsErased(data)).To(BeTrue())
		Expect(flash.IsErased(oob)).To(BeTrue())
	})

	It("should read back programmed data and oob", func() {
		data := pattern(geo.PageSize, 1)
		oob := pattern(geo.OOBSize, 7)
		addr := geo.PageAddr(3)
		Expect(sim.WritePage(addr, data, oob)).To(Succeed())

		gotData := make([]byte, geo.PageSize)
		gotOOB := make([]byte, geo.OOBSize)
		Expect(sim.ReadPage(addr, gotData, gotOOB)).To(Succeed())
		Expect(gotData).To(Equal(data))
		Expect(gotOOB).To(Equal(oob))

		raw, err := sim.Raw(addr)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw[:geo.PageSize]).To(Equal(data))
		Expect(raw[geo.PageSize:]).To(Equal(oob))
	})

	It("should only clear bits when programming", func() {
		first := make([]byte, geo.PageSize)
		flash.Fill(first)
		first[0] = 0xF0
		Expect(sim.WritePage(0, first, nil)).To(Succeed())

		second := make([]byte, geo.PageSize)
		flash.Fill(second)
		second[0] = 0x0F
		Expect(sim.WritePage(0, second, nil)).To(Succeed())

		got := make([]byte, geo.PageSize)
		Expect(sim.ReadPage(0, got, nil)).To(Succeed())
		Expect(got[0]).To(Equal(byte(0x00)))
	})

	It("should erase a whole block", func() {
		addr := geo.BlockAddr(1)
		for p := 0; p < geo.PagesPerBlock(); p++ {
			Expect(sim.WritePage(addr+int64(p*geo.PageSize), pattern(geo.PageSize, 0), pattern(geo.OOBSize, 0))).To(Succeed())
		}
		Expect(sim.Erase(addr)).To(Succeed())

		for p := 0; p < geo.PagesPerBlock(); p++ {
			raw, err := sim.Raw(addr + int64(p*geo.PageSize))
			Expect(err).NotTo(HaveOccurred())
			Expect(flash.IsErased(raw)).To(BeTrue())
		}
	})

	It("should reject misaligned and out of range addresses", func() {
		Expect(sim.ReadPage(1, make([]byte, geo.PageSize), nil)).NotTo(Succeed())
		Expect(sim.Erase(int64(geo.PageSize))).NotTo(Succeed())
		err := sim.WritePage(geo.TotalSize, make([]byte, geo.PageSize), nil)
		Expect(errors.Is(err, flash.ErrOutOfRange)).To(BeTrue())
	})

	It("should serve oob-only reads", func() {
		oob := pattern(geo.OOBSize, 9)
		Expect(sim.WritePage(0, nil, oob)).To(Succeed())

		got := make([]byte, geo.OOBSize)
		Expect(sim.ReadPage(0, nil, got)).To(Succeed())
		Expect(got).To(Equal(oob))
	})

	Context("bad blocks", func() {
		It("should report injected and marked bad blocks", func() {
			sim.SetBad(2)
			bad, err := sim.IsBad(geo.BlockAddr(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(bad).To(BeTrue())

			Expect(sim.MarkBad(geo.BlockAddr(5))).To(Succeed())
			Expect(sim.BadBlocks()).To(Equal([]int64{2, 5}))
		})
	})

	Context("fault injection", func() {
		It("should fail the configured operation only", func() {
			boom := errors.New("program timeout")
			addr := geo.PageAddr(4)
			sim.FailOn(flash.OpWrite, addr, boom)

			Expect(sim.WritePage(addr, pattern(geo.PageSize, 0), nil)).To(MatchError(boom))
			Expect(sim.WritePage(geo.PageAddr(5), pattern(geo.PageSize, 0), nil)).To(Succeed())

			sim.FailOn(flash.OpWrite, addr, nil)
			Expect(sim.WritePage(addr, pattern(geo.PageSize, 0), nil)).To(Succeed())
		})

		It("should flip a byte once without touching storage", func() {
			Expect(sim.WritePage(0, pattern(geo.PageSize, 0), nil)).To(Succeed())
			sim.InjectFlip(17, 0x01)

			got := make([]byte, geo.PageSize)
			Expect(sim.ReadPage(0, got, nil)).To(Succeed())
			Expect(got[17]).To(Equal(byte(17) ^ 0x01))

			Expect(sim.ReadPage(0, got, nil)).To(Succeed())
			Expect(got[17]).To(Equal(byte(17)))
		})

		It("should raise cumulative ecc counters on read", func() {
			sim.InjectECC(0, 3, 0)
			sim.InjectECC(0, 0, 1)

			Expect(sim.ReadPage(0, make([]byte, geo.PageSize), nil)).To(Succeed())
			stats, err := sim.ECCStats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats).To(Equal(flash.ECCStats{Corrected: 3}))

			err = sim.ReadPage(0, make([]byte, geo.PageSize), nil)
			Expect(errors.Is(err, flash.ErrUncorrectable)).To(BeTrue())
			stats, _ = sim.ECCStats()
			Expect(stats).To(Equal(flash.ECCStats{Corrected: 3, Failed: 1}))
		})
	})

	It("should record every device call", func() {
		_ = sim.Erase(0)
		_ = sim.WritePage(0, pattern(geo.PageSize, 0), nil)
		_ = sim.ReadPage(0, make([]byte, geo.PageSize), nil)
		_, _ = sim.IsBad(0)

		Expect(sim.Ops()).To(Equal([]Op{
			{Kind: flash.OpErase, Addr: 0},
			{Kind: flash.OpWrite, Addr: 0},
			{Kind: flash.OpRead, Addr: 0},
			{Kind: flash.OpIsBad, Addr: 0},
		}))
		Expect(sim.Counters()).To(Equal(Counters{Reads: 1, Writes: 1, Erases: 1, BadQueries: 1}))

		sim.ResetOps()
		Expect(sim.Ops()).To(BeEmpty())
	})
})
