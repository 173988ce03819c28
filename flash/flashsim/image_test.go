package flashsim

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/moffa90/go-rawnand/flash"
)

var _ = Describe("Image", func() {
	var (
		path string
		geo  flash.Geometry
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "nand.img")
		geo = smallGeometry()
	})

	It("should create an erased image of stride-layout size", func() {
		img, err := CreateImage(path, geo)
		Expect(err).NotTo(HaveOccurred())
		defer img.Close()

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(Equal(geo.TotalPages() * int64(geo.Stride())))

		raw, err := img.Raw(geo.PageAddr(9))
		Expect(err).NotTo(HaveOccurred())
		Expect(flash.IsErased(raw)).To(BeTrue())
	})

	It("should persist content, bad blocks and ecc counters", func() {
		img, err := CreateImage(path, geo)
		Expect(err).NotTo(HaveOccurred())

		data := pattern(geo.PageSize, 3)
		Expect(img.WritePage(geo.PageAddr(2), data, nil)).To(Succeed())
		Expect(img.MarkBad(geo.BlockAddr(6))).To(Succeed())
		img.InjectECC(geo.PageAddr(2), 2, 0)
		Expect(img.ReadPage(geo.PageAddr(2), make([]byte, geo.PageSize), nil)).To(Succeed())
		Expect(img.Close()).To(Succeed())

		reopened, err := OpenImage(path)
		Expect(err).NotTo(HaveOccurred())
		defer reopened.Close()

		Expect(reopened.Geometry()).To(Equal(geo))
		Expect(reopened.BadBlocks()).To(Equal([]int64{6}))
		stats, err := reopened.ECCStats()
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Corrected).To(Equal(uint32(2)))

		got := make([]byte, geo.PageSize)
		Expect(reopened.ReadPage(geo.PageAddr(2), got, nil)).To(Succeed())
		Expect(got).To(Equal(data))
	})

	It("should refuse an image whose size does not match its metadata", func() {
		img, err := CreateImage(path, geo)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Close()).To(Succeed())
		Expect(os.Truncate(path, 100)).To(Succeed())

		_, err = OpenImage(path)
		Expect(err).To(MatchError(ContainSubstring("geometry needs")))
	})

	It("should fail without metadata", func() {
		_, err := OpenImage(filepath.Join(filepath.Dir(path), "missing.img"))
		Expect(err).To(HaveOccurred())
	})
})
