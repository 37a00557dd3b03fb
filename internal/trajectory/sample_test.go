package trajectory_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lorenzviz/internal/dynamo"
	"github.com/san-kum/lorenzviz/internal/physics"
	"github.com/san-kum/lorenzviz/internal/trajectory"
)

var _ = Describe("Sample", func() {
	var (
		classic physics.Params
		x0      dynamo.State
	)

	BeforeEach(func() {
		classic = physics.ClassicParams()
		x0 = dynamo.State{1, 0, 20}
	})

	DescribeTable("returns exactly the requested number of points",
		func(p physics.Params, initial dynamo.State, n int) {
			tr, err := trajectory.Sample(p, initial, trajectory.DefaultSpan(), n)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Points).To(HaveLen(n))
			Expect(tr.Times).To(HaveLen(n))
		},
		Entry("classic, default count", physics.ClassicParams(), dynamo.State{1, 0, 20}, trajectory.DefaultSamples),
		Entry("slider minimum", physics.Params{Sigma: 1, Rho: 1, Beta: 1}, dynamo.State{-50, -50, -50}, 500),
		Entry("slider maximum", physics.Params{Sigma: 50, Rho: 50, Beta: 50}, dynamo.State{50, 50, 50}, 500),
		Entry("periodic window", physics.Params{Sigma: 10, Rho: 160, Beta: 8.0 / 3.0}, dynamo.State{1, 1, 1}, 2),
		Entry("origin is a fixed point", physics.ClassicParams(), dynamo.State{0, 0, 0}, 123),
	)

	It("starts at the initial condition", func() {
		tr, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), 1000)
		Expect(err).NotTo(HaveOccurred())
		for i := range x0 {
			Expect(tr.Points[0][i]).To(BeNumerically("~", x0[i], 1e-9))
		}
	})

	It("samples strictly increasing, evenly spaced times over the span", func() {
		span := trajectory.Span{T0: 0, T1: 25}
		n := 10000
		tr, err := trajectory.Sample(classic, x0, span, n)
		Expect(err).NotTo(HaveOccurred())

		Expect(tr.Times[0]).To(Equal(span.T0))
		Expect(tr.Times[n-1]).To(Equal(span.T1))

		want := (span.T1 - span.T0) / float64(n-1)
		for i := 1; i < n; i++ {
			Expect(tr.Times[i]).To(BeNumerically(">", tr.Times[i-1]))
			Expect(tr.Times[i] - tr.Times[i-1]).To(BeNumerically("~", want, 1e-9))
		}
	})

	It("stays bounded in the chaotic regime", func() {
		tr, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), trajectory.DefaultSamples)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range tr.Points {
			Expect(p.IsValid()).To(BeTrue())
			for _, v := range p {
				Expect(math.Abs(v)).To(BeNumerically("<", 300))
			}
		}
	})

	It("leaves the origin fixed", func() {
		tr, err := trajectory.Sample(classic, dynamo.State{0, 0, 0}, trajectory.DefaultSpan(), 50)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range tr.Points {
			Expect(p.Norm()).To(BeZero())
		}
	})

	It("is deterministic across calls", func() {
		a, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), 2000)
		Expect(err).NotTo(HaveOccurred())
		b, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), 2000)
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Points).To(Equal(a.Points))
	})

	It("does not modify the caller's initial state", func() {
		_, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(x0).To(Equal(dynamo.State{1, 0, 20}))
	})

	It("honours a non-zero start time", func() {
		tr, err := trajectory.Sample(classic, x0, trajectory.Span{T0: 5, T1: 6}, 11)
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Times[0]).To(Equal(5.0))
		Expect(tr.Times[10]).To(Equal(6.0))
		Expect(tr.Points[0]).To(Equal(x0))
	})

	Context("when integration fails", func() {
		It("propagates non-finite derivatives unmodified", func() {
			bad := physics.Params{Sigma: math.Inf(1), Rho: 28, Beta: 8.0 / 3.0}
			_, err := trajectory.Sample(bad, dynamo.State{1, 1, 1}, trajectory.DefaultSpan(), 100)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
		})

		It("rejects a NaN initial state", func() {
			_, err := trajectory.Sample(classic, dynamo.State{math.NaN(), 0, 0}, trajectory.DefaultSpan(), 10)
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})
	})

	Context("with malformed requests", func() {
		It("rejects a non-positive sample count", func() {
			_, err := trajectory.Sample(classic, x0, trajectory.DefaultSpan(), 0)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a reversed span", func() {
			_, err := trajectory.Sample(classic, x0, trajectory.Span{T0: 25, T1: 0}, 10)
			Expect(errors.Is(err, dynamo.ErrInvalidSpan)).To(BeTrue())
		})

		It("rejects a state that is not three-dimensional", func() {
			_, err := trajectory.Sample(classic, dynamo.State{1, 2}, trajectory.DefaultSpan(), 10)
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})
	})
})

var _ = Describe("Linspace", func() {
	It("includes both ends", func() {
		ts := trajectory.Linspace(0, 1, 5)
		Expect(ts).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
	})

	It("handles degenerate counts", func() {
		Expect(trajectory.Linspace(3, 4, 1)).To(Equal([]float64{3}))
		Expect(trajectory.Linspace(3, 4, 0)).To(BeEmpty())
	})
})
