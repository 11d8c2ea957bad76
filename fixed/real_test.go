package fixed_test

import (
	"math/big"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/m2fixed/fixed"
)

// bigIntComparer lets go-cmp compare *big.Int by value instead of
// panicking on its unexported fields.
var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool { return a.Cmp(b) == 0 })

var _ = Describe("Real construction", func() {
	It("defaults to a signed 1-bit integer format", func() {
		r, err := fixed.New()
		Expect(err).NotTo(HaveOccurred())
		Expect(r.IntBits()).To(Equal(int64(1)))
		Expect(r.FracBits()).To(Equal(int64(0)))
		Expect(r.Signed()).To(BeTrue())
		Expect(r.IsSmall()).To(BeTrue())
	})

	It("rejects a format with fewer than 1 total bit", func() {
		_, err := fixed.New(fixed.WithIntBits(0), fixed.WithFracBits(0))
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&fixed.ValueError{}))
	})

	It("quantizes a float value with sat/near_pos_inf", func() {
		r, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(4), fixed.WithValue(2.5))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.String()).To(Equal("2.5"))
	})

	It("stores a bit_field verbatim, masked and sign-extended", func() {
		r, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithBitField(big.NewInt(0xA)))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Value()).To(Equal(-6.0))
	})

	It("copies format from format_inst", func() {
		template, _ := fixed.New(fixed.WithIntBits(10), fixed.WithFracBits(6), fixed.WithSigned(false))
		r, err := fixed.New(fixed.WithFormatFrom(template), fixed.WithValue(3))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.IntBits()).To(Equal(int64(10)))
		Expect(r.FracBits()).To(Equal(int64(6)))
		Expect(r.Signed()).To(BeFalse())
	})

	It("promotes to the Large engine above the word ceiling", func() {
		r, err := fixed.New(fixed.WithIntBits(40), fixed.WithFracBits(40))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.IsSmall()).To(BeFalse())
	})

	It("assigns each constructed value its own xid debug tag by default", func() {
		a, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0))
		Expect(err).NotTo(HaveOccurred())
		b, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0))
		Expect(err).NotTo(HaveOccurred())

		Expect(a.DebugTag()).NotTo(BeEmpty())
		Expect(a.DebugTag()).NotTo(Equal(b.DebugTag()))

		a.WithDebugTag("trace-42")
		Expect(a.DebugTag()).To(Equal("trace-42"))
	})
})

var _ = Describe("S1: basic resize, near_pos_inf", func() {
	It("quantizes (4,4) 2.5 down to (1,4) 0.5", func() {
		v, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(4), fixed.WithSigned(true), fixed.WithValue(2.5))
		Expect(err).NotTo(HaveOccurred())

		err = v.Resize(fixed.Format{IntBits: 1, FracBits: 4}, fixed.DefaultOverflowMode, fixed.RoundNearPosInf)
		Expect(err).NotTo(HaveOccurred())
		Expect(v.String()).To(Equal("0.5"))
	})

	It("multiplies by an integer before resize and keeps the exact value", func() {
		v, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(4), fixed.WithSigned(true), fixed.WithValue(2.5))
		Expect(err).NotTo(HaveOccurred())

		two := fixed.FromInt(2)
		product, err := fixed.Mul(v, two)
		Expect(err).NotTo(HaveOccurred())
		Expect(product.Value()).To(Equal(5.0))
	})
})

var _ = Describe("S4: wrap/sat/excep on overflow", func() {
	It("wraps a signed (4,0) 7 plus 3 back to (4,0)", func() {
		seven, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(7))
		Expect(err).NotTo(HaveOccurred())
		three, err := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(3))
		Expect(err).NotTo(HaveOccurred())

		sum, err := fixed.Add(seven, three)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.IntBits()).To(Equal(int64(5)))
		Expect(sum.Value()).To(Equal(10.0))

		err = sum.Resize(fixed.Format{IntBits: 4, FracBits: 0}, fixed.OverflowWrap, fixed.RoundDirectNegInf)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Value()).To(Equal(-6.0))
	})

	It("saturates instead of wrapping", func() {
		seven, _ := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(7))
		three, _ := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(3))
		sum, _ := fixed.Add(seven, three)

		err := sum.Resize(fixed.Format{IntBits: 4, FracBits: 0}, fixed.OverflowSat, fixed.RoundDirectNegInf)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Value()).To(Equal(7.0))
	})

	It("raises OverflowException", func() {
		seven, _ := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(7))
		three, _ := fixed.New(fixed.WithIntBits(4), fixed.WithFracBits(0), fixed.WithValue(3))
		sum, _ := fixed.Add(seven, three)

		err := sum.Resize(fixed.Format{IntBits: 4, FracBits: 0}, fixed.OverflowExcep, fixed.RoundDirectNegInf)
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&fixed.OverflowException{}))
	})
})

var _ = Describe("S5: Large promotion on 40x40 multiply", func() {
	It("promotes both operands and keeps the exact integer product", func() {
		a, err := fixed.New(fixed.WithIntBits(40), fixed.WithFracBits(0), fixed.WithBitField(big.NewInt(123456789)))
		Expect(err).NotTo(HaveOccurred())
		b, err := fixed.New(fixed.WithIntBits(40), fixed.WithFracBits(0), fixed.WithBitField(big.NewInt(987654321)))
		Expect(err).NotTo(HaveOccurred())

		product, err := fixed.Mul(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(product.IsSmall()).To(BeFalse())

		want := new(big.Int).Mul(big.NewInt(123456789), big.NewInt(987654321))
		Expect(cmp.Diff(want, product.ScaledBig(), bigIntComparer)).To(BeEmpty())
	})
})

var _ = Describe("Multiply commutativity (testable property 3)", func() {
	It("a*b equals b*a in value and format", func() {
		a, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(3.25))
		b, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(-1.5))

		ab, err := fixed.Mul(a, b)
		Expect(err).NotTo(HaveOccurred())
		ba, err := fixed.Mul(b, a)
		Expect(err).NotTo(HaveOccurred())

		Expect(cmp.Diff(ab.Format(), ba.Format())).To(BeEmpty())
		Expect(cmp.Diff(ab.ScaledBig(), ba.ScaledBig(), bigIntComparer)).To(BeEmpty())
	})
})

var _ = Describe("Divide reconstruction (testable property 4)", func() {
	It("(a/b)*b resized back to a's format recovers a when exact", func() {
		a, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(6))
		b, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(2))

		q, err := fixed.Div(a, b)
		Expect(err).NotTo(HaveOccurred())
		back, err := fixed.Mul(q, b)
		Expect(err).NotTo(HaveOccurred())

		err = back.Resize(a.Format(), fixed.OverflowWrap, fixed.RoundDirectNegInf)
		Expect(err).NotTo(HaveOccurred())
		Expect(back.Value()).To(Equal(a.Value()))
	})
})

var _ = Describe("Resize idempotence (testable property 5)", func() {
	It("resizing to the same format is a no-op regardless of modes", func() {
		a, _ := fixed.New(fixed.WithIntBits(8), fixed.WithFracBits(4), fixed.WithValue(-3.125))
		before := a.ScaledBig()
		err := a.Resize(a.Format(), fixed.OverflowSat, fixed.RoundNearEven)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.ScaledBig()).To(Equal(before))
	})
})

var _ = Describe("Sign-extension invariant (testable property 6)", func() {
	It("keeps a Small signed value's upper bits equal to the sign bit after an op", func() {
		a, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(-5))
		b, _ := fixed.New(fixed.WithIntBits(6), fixed.WithFracBits(2), fixed.WithValue(1))
		sum, err := fixed.Add(a, b)
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Value()).To(Equal(-4.0))
	})
})
