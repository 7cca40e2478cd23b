package harness_test

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/autopilot/internal/control"
	"github.com/san-kum/autopilot/internal/dynamo"
	"github.com/san-kum/autopilot/internal/harness"
	"github.com/san-kum/autopilot/internal/integrators"
	"github.com/san-kum/autopilot/internal/physics"
	"github.com/san-kum/autopilot/internal/state"
)

// recorder remembers every axis state a law was handed.
type recorder struct {
	seen []state.Axis
	out  state.Force
}

func (r *recorder) Evaluate(s state.Axis) state.Force {
	r.seen = append(r.seen, s)
	return r.out
}

type tickObserver struct {
	ticks []int
}

func (o *tickObserver) OnTick(tick int, x dynamo.State, u dynamo.Control, t float64) {
	o.ticks = append(o.ticks, tick)
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string                                        { return "count" }
func (c *countMetric) Observe(x dynamo.State, u dynamo.Control, t float64) { c.count++ }
func (c *countMetric) Value() float64                                      { return float64(c.count) }
func (c *countMetric) Reset()                                              { c.count = 0 }

func newAxis(order int) *physics.Axis {
	a, err := physics.NewAxis(order)
	Expect(err).NotTo(HaveOccurred())
	return a
}

var _ = Describe("Loop", func() {
	var cfg harness.Config

	BeforeEach(func() {
		cfg = harness.Config{Dt: 0.1, Duration: 1.0, ValidateState: true}
	})

	Describe("tick contract", func() {
		It("calls the law once per tick with ticks 0, 1, 2, ...", func() {
			rec := &recorder{}
			loop := harness.New(newAxis(2), integrators.NewRK4(), rec, harness.AxisBinding())

			result, err := loop.Run(context.Background(), dynamo.State{1.0, 0.0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(rec.seen).To(HaveLen(10))
			for i, s := range rec.seen {
				Expect(s.Tick).To(Equal(i))
				Expect(s.DeltaTime).To(Equal(0.1))
			}
			Expect(result.Ticks).To(Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
		})

		It("records one more state than control", func() {
			loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())

			result, err := loop.Run(context.Background(), dynamo.State{1.0, 0.0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.States).To(HaveLen(11))
			Expect(result.Times).To(HaveLen(11))
			Expect(result.Controls).To(HaveLen(10))
			Expect(result.StepsTaken).To(Equal(10))
			Expect(result.Times[10]).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("samples the plant state the law acts on", func() {
			rec := &recorder{out: state.Force{Force: 1.0}}
			loop := harness.New(newAxis(2), integrators.NewRK4(), rec, harness.AxisBinding())

			_, err := loop.Run(context.Background(), dynamo.State{0.0, 0.0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			// constant unit force from rest: x = t^2/2, v = t
			Expect(rec.seen[4].Position).To(BeNumerically("~", 0.08, 1e-12))
			Expect(rec.seen[4].Velocity).To(BeNumerically("~", 0.4, 1e-12))
		})
	})

	Describe("PID regulation", func() {
		It("drives a double integrator toward the origin", func() {
			pid, err := control.NewPID(control.DefaultPIDConfig())
			Expect(err).NotTo(HaveOccurred())
			loop := harness.New(newAxis(2), integrators.NewRK4(), pid, harness.AxisBinding())

			result, err := loop.Run(context.Background(), dynamo.State{2.0, 0.0}, harness.Config{Dt: 0.01, Duration: 20, ValidateState: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			Expect(math.Abs(result.Final()[0])).To(BeNumerically("<", 0.05))
		})

		It("produces the reference force on the first two ticks", func() {
			pid, _ := control.NewPID(control.DefaultPIDConfig())
			loop := harness.New(newAxis(2), integrators.NewRK4(), pid, harness.AxisBinding())

			result, err := loop.Run(context.Background(), dynamo.State{2.0, 0.0}, harness.Config{Dt: 0.01, Duration: 0.01})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Controls[0][0]).To(BeNumerically("~", -14.01, 1e-9))
		})
	})

	Describe("hooks", func() {
		It("feeds observers and metrics every tick", func() {
			obs := &tickObserver{}
			metric := &countMetric{count: 99}
			loop := harness.New(newAxis(2), integrators.NewEuler(), control.NewHold(), harness.AxisBinding())
			loop.AddObserver(obs)
			loop.AddMetric(metric)

			result, err := loop.Run(context.Background(), dynamo.State{0.0, 0.0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(obs.ticks).To(HaveLen(10))
			Expect(result.Metrics).To(HaveKeyWithValue("count", 10.0))
		})
	})

	Describe("failures", func() {
		It("rejects an initial state of the wrong size", func() {
			loop := harness.New(newAxis(3), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())

			_, err := loop.Run(context.Background(), dynamo.State{1.0, 0.0}, cfg)

			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})

		It("rejects a non-positive dt", func() {
			loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())

			_, err := loop.Run(context.Background(), dynamo.State{1.0, 0.0}, harness.Config{Dt: 0, Duration: 1})

			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		})

		It("stops on a non-finite plant state", func() {
			nan := control.NewConstant[state.Axis](state.Force{Force: math.NaN()})
			loop := harness.New(newAxis(2), integrators.NewRK4(), nan, harness.AxisBinding())

			result, err := loop.Run(context.Background(), dynamo.State{1.0, 0.0}, cfg)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.StepsTaken).To(Equal(0))
			Expect(result.Errors).To(HaveLen(1))
			Expect(result.Errors[0]).To(MatchError(dynamo.ErrInvalidState))

			var simErr *dynamo.SimulationError
			Expect(result.Errors[0]).To(BeAssignableToTypeOf(simErr))
		})

		It("rejects a non-finite initial state before the law runs", func() {
			law := &recorder{}
			loop := harness.New(newAxis(2), integrators.NewRK4(), law, harness.AxisBinding())
			effort := &countMetric{}
			loop.AddMetric(effort)

			result, err := loop.Run(context.Background(), dynamo.State{math.NaN(), 0.0}, cfg)

			Expect(result).To(BeNil())
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			var simErr *dynamo.SimulationError
			Expect(errors.As(err, &simErr)).To(BeTrue())
			Expect(simErr.Tick).To(Equal(0))
			Expect(law.seen).To(BeEmpty())
			Expect(effort.count).To(Equal(0))

			err = loop.Stream(context.Background(), dynamo.State{0.0, math.Inf(1)}, cfg, func(harness.Sample) bool { return true })
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(law.seen).To(BeEmpty())
		})

		It("lets a non-finite initial state through when validation is off", func() {
			law := &recorder{}
			loop := harness.New(newAxis(2), integrators.NewRK4(), law, harness.AxisBinding())

			session, err := loop.Start(dynamo.State{math.NaN(), 0.0}, harness.Config{Dt: 0.1})

			Expect(err).NotTo(HaveOccurred())
			_, err = session.Step(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(law.seen).To(HaveLen(1))
		})

		It("honors a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())

			result, err := loop.Run(ctx, dynamo.State{1.0, 0.0}, cfg)

			Expect(err).To(MatchError(context.Canceled))
			Expect(result.StepsTaken).To(Equal(0))
		})
	})

	Describe("realtime pacing", func() {
		It("spaces ticks by dt of wall time", func() {
			loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())
			start := time.Now()

			_, err := loop.Run(context.Background(), dynamo.State{0.0, 0.0}, harness.Config{Dt: 0.01, Duration: 0.05, Realtime: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically(">=", 40*time.Millisecond))
		})
	})

	Describe("Stream", func() {
		It("stops when the callback declines", func() {
			loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())
			var ticks []int

			err := loop.Stream(context.Background(), dynamo.State{0.0, 0.0}, harness.Config{Dt: 0.01}, func(s harness.Sample) bool {
				ticks = append(ticks, s.Tick)
				return len(ticks) < 5
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(ticks).To(Equal([]int{0, 1, 2, 3, 4}))
		})
	})

	Describe("vehicle binding", func() {
		It("flies the airframe on trim toward the trim pitch", func() {
			af := physics.NewAirframe()
			loop := harness.New(af, integrators.NewRK4(), control.NewTrim(), harness.VehicleBinding())

			result, err := loop.Run(context.Background(), make(dynamo.State, 12), harness.Config{Dt: 0.01, Duration: 15, ValidateState: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Errors).To(BeEmpty())
			final := result.Final()
			Expect(final[4]).To(BeNumerically("~", af.TrimPitch(control.TrimSurfaces.Elevator), 1e-3))
			for _, u := range result.Controls {
				Expect(u).To(Equal(control.TrimSurfaces.Vector()))
			}
		})
	})
})

var _ = Describe("Session", func() {
	It("advances one tick per step", func() {
		loop := harness.New(newAxis(2), integrators.NewRK4(), control.NewHold(), harness.AxisBinding())
		session, err := loop.Start(dynamo.State{1.0, 0.0}, harness.Config{Dt: 0.01, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 3; i++ {
			sample, err := session.Step(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(sample.Tick).To(Equal(i))
		}
		Expect(session.Tick()).To(Equal(3))
		Expect(session.Time()).To(BeNumerically("~", 0.03, 1e-12))
	})
})

var _ = Describe("Ensemble", func() {
	It("gives every vehicle its own law", func() {
		newLaw := func() dynamo.Law[state.Axis, state.Force] {
			pid, _ := control.NewPID(control.DefaultPIDConfig())
			return pid
		}
		ens := harness.NewEnsemble(newAxis(2), func() dynamo.Integrator { return integrators.NewRK4() }, newLaw, harness.AxisBinding())

		initial := []dynamo.State{{1.0, 0.0}, {-1.0, 0.0}, {0.0, 0.0}}
		results, err := ens.Run(context.Background(), initial, harness.Config{Dt: 0.01, Duration: 1})

		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		Expect(results[0].Final()[0]).To(BeNumerically("~", -results[1].Final()[0], 1e-12))
		Expect(results[2].Final()[0]).To(Equal(0.0))
	})
})
