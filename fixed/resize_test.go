package fixed_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2fixed/fixed"
)

var _ = Describe("S2: rounding modes at 5.5, dropping 4 fractional bits", func() {
	DescribeTable("rounds 5.5 to 0 fractional bits",
		func(rnd fixed.RoundMode, want float64) {
			v, err := fixed.New(fixed.WithIntBits(5), fixed.WithFracBits(4), fixed.WithValue(5.5))
			Expect(err).NotTo(HaveOccurred())

			err = v.Resize(fixed.Format{IntBits: 5, FracBits: 0}, fixed.OverflowWrap, rnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Value()).To(Equal(want))
		},
		Entry("near_pos_inf", fixed.RoundNearPosInf, 6.0),
		Entry("near_zero", fixed.RoundNearZero, 5.0),
		Entry("direct_neg_inf", fixed.RoundDirectNegInf, 5.0),
		Entry("direct_zero", fixed.RoundDirectZero, 5.0),
		Entry("near_even", fixed.RoundNearEven, 6.0),
	)
})

var _ = Describe("S3: rounding at -5.25, dropping to 1 fractional bit", func() {
	DescribeTable("rounds -5.25 to 1 fractional bit",
		func(rnd fixed.RoundMode, want float64) {
			v, err := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(4), fixed.WithValue(-5.25))
			Expect(err).NotTo(HaveOccurred())

			err = v.Resize(fixed.Format{IntBits: 6, FracBits: 1}, fixed.OverflowWrap, rnd)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Value()).To(Equal(want))
		},
		Entry("near_pos_inf", fixed.RoundNearPosInf, -5.0),
		Entry("near_zero", fixed.RoundNearZero, -5.0),
		Entry("direct_neg_inf", fixed.RoundDirectNegInf, -5.5),
		Entry("direct_zero", fixed.RoundDirectZero, -5.0),
		Entry("near_even", fixed.RoundNearEven, -5.0),
	)
})

var _ = Describe("Add associativity up to resize (testable property 2)", func() {
	It("agrees on the rational value regardless of grouping", func() {
		a, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(1.25))
		b, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(-2.5))
		c, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(3.75))

		ab, err := fixed.Add(a, b)
		Expect(err).NotTo(HaveOccurred())
		abc1, err := fixed.Add(ab, c)
		Expect(err).NotTo(HaveOccurred())

		bc, err := fixed.Add(b, c)
		Expect(err).NotTo(HaveOccurred())
		abc2, err := fixed.Add(a, bc)
		Expect(err).NotTo(HaveOccurred())

		Expect(abc1.Value()).To(Equal(abc2.Value()))
	})
})

var _ = Describe("Promotion idempotence (testable property 8)", func() {
	It("gives the same value whether the add happens Small or pre-promoted to Large", func() {
		a, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(3.5))
		b, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(-1.25))
		Expect(a.IsSmall()).To(BeTrue())
		Expect(b.IsSmall()).To(BeTrue())

		smallSum, err := fixed.Add(a, b)
		Expect(err).NotTo(HaveOccurred())

		largeA, err := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithBitField(a.ScaledBig()))
		Expect(err).NotTo(HaveOccurred())
		largeB, err := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithBitField(b.ScaledBig()))
		Expect(err).NotTo(HaveOccurred())
		err = largeA.Resize(fixed.Format{IntBits: 100, FracBits: 4}, fixed.OverflowWrap, fixed.RoundDirectNegInf)
		Expect(err).NotTo(HaveOccurred())
		err = largeB.Resize(fixed.Format{IntBits: 100, FracBits: 4}, fixed.OverflowWrap, fixed.RoundDirectNegInf)
		Expect(err).NotTo(HaveOccurred())
		Expect(largeA.IsSmall()).To(BeFalse())

		largeSum, err := fixed.Add(largeA, largeB)
		Expect(err).NotTo(HaveOccurred())

		Expect(largeSum.Value()).To(Equal(smallSum.Value()))
	})
})
