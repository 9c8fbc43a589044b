package sim

import (
	"bytes"
	"errors"
	"log"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type firing struct {
	name string
	time VTime
}

// firingRecorder is a hook that remembers every fired event.
type firingRecorder struct {
	firings []firing
}

func (r *firingRecorder) Func(ctx HookCtx) {
	if ctx.Pos != HookPosEventFired {
		return
	}

	s := ctx.Domain.(*Scheduler)
	r.firings = append(r.firings, firing{
		name: ctx.Item.(*Event).Name(),
		time: s.Now(),
	})
}

func (r *firingRecorder) times() []VTime {
	times := make([]VTime, 0, len(r.firings))
	for _, f := range r.firings {
		times = append(times, f.time)
	}

	return times
}

func mustEvent(name string, action func() ChangeSet, trigger Trigger) *Event {
	e, err := NewEvent(name, ActionFunc(action), trigger)
	Expect(err).NotTo(HaveOccurred())

	return e
}

var _ = ginkgo.Describe("Scheduler", func() {
	var (
		integrator *fakeIntegrator
		recorder   *firingRecorder
	)

	ginkgo.BeforeEach(func() {
		integrator = newFakeIntegrator(1,
			map[string]float64{"x": 0, "y": 0}, "isHighRisk")
		recorder = &firingRecorder{}
	})

	build := func(b SchedulerBuilder) *Scheduler {
		s, err := b.WithHooks(recorder).Build(integrator)
		Expect(err).NotTo(HaveOccurred())

		return s
	}

	ginkgo.It("should reject a non-positive step size", func() {
		_, err := MakeSchedulerBuilder().WithStepSize(0).Build(integrator)
		Expect(err).To(MatchError(ErrConfiguration))

		_, err = MakeSchedulerBuilder().WithStepSize(-1).Build(integrator)
		Expect(err).To(MatchError(ErrConfiguration))
	})

	ginkgo.It("should evaluate time 0 and run a first pass when built", func() {
		e := mustEvent("at-zero", noop, OneShot(0))

		s := build(MakeSchedulerBuilder().WithEvents(e))

		Expect(s.Now()).To(Equal(VTime(0)))
		Expect(integrator.evaluated).To(Equal([]VTime{0}))
		Expect(recorder.times()).To(Equal([]VTime{0}))
		Expect(e.IsBound()).To(BeTrue())
	})

	ginkgo.It("should consider events registered after build from the next pass", func() {
		s := build(MakeSchedulerBuilder())

		e := mustEvent("late", noop, OneShot(0))
		Expect(s.RegisterEvent(e)).To(Succeed())
		Expect(recorder.firings).To(BeEmpty())

		Expect(s.Step()).To(Succeed())
		Expect(recorder.times()).To(Equal([]VTime{1}))
	})

	ginkgo.It("should not register an event twice", func() {
		s := build(MakeSchedulerBuilder())
		e := mustEvent("e", noop, OneShot(3))

		Expect(s.RegisterEvent(e)).To(Succeed())
		Expect(s.RegisterEvent(e)).To(MatchError(ErrState))
		Expect(s.Events()).To(HaveLen(1))
	})

	ginkgo.It("should step every intermediate step", func() {
		integrator = newFakeIntegrator(0.5, map[string]float64{"x": 0})
		s := build(MakeSchedulerBuilder().WithStepSize(0.5))

		Expect(s.StepTo(5)).To(Succeed())

		Expect(s.Now()).To(BeNumerically("~", 5, 1e-12))
		Expect(integrator.evaluated).To(HaveLen(11))
		for i, t := range integrator.evaluated {
			Expect(t).To(BeNumerically("~", float64(i)*0.5, 1e-12))
		}
	})

	ginkgo.It("should not drift with a step that is not exact in binary", func() {
		integrator = newFakeIntegrator(0.1, map[string]float64{"x": 0})
		s := build(MakeSchedulerBuilder().WithStepSize(0.1))

		Expect(s.StepTo(10)).To(Succeed())

		Expect(integrator.evaluated).To(HaveLen(101))
		Expect(s.Now()).To(BeNumerically("~", 10, 1e-9))
	})

	ginkgo.It("should fire a one-shot timeout exactly once", func() {
		e := mustEvent("once", noop, OneShot(5))
		s := build(MakeSchedulerBuilder().WithEvents(e))

		Expect(s.StepTo(20)).To(Succeed())

		Expect(recorder.times()).To(Equal([]VTime{5}))
	})

	ginkgo.It("should fire a recurring timeout on its period only", func() {
		e := mustEvent("every-3", noop, Recurring(0, 3))
		s := build(MakeSchedulerBuilder().WithEvents(e))

		Expect(s.StepTo(12)).To(Succeed())

		Expect(recorder.times()).To(Equal([]VTime{0, 3, 6, 9, 12}))
	})

	ginkgo.It("should fire a recurring timeout on a fractional grid", func() {
		integrator = newFakeIntegrator(0.1, map[string]float64{"x": 0})
		e := mustEvent("every-0.3", noop, Recurring(0, 0.3))
		s := build(MakeSchedulerBuilder().WithStepSize(0.1).WithEvents(e))

		Expect(s.StepTo(3)).To(Succeed())

		times := recorder.times()
		Expect(times).To(HaveLen(11))
		for i, t := range times {
			Expect(t).To(BeNumerically("~", float64(i)*0.3, 1e-9))
		}
	})

	ginkgo.It("should fire a condition event inside its window only", func() {
		e := mustEvent("window", noop, When(func() bool {
			now := integrator.now()
			return now >= 10 && now < 20
		}))
		s := build(MakeSchedulerBuilder().WithEvents(e))

		Expect(s.StepTo(30)).To(Succeed())

		expected := make([]VTime, 0, 10)
		for t := 10; t < 20; t++ {
			expected = append(expected, VTime(t))
		}
		Expect(recorder.times()).To(Equal(expected))
	})

	ginkgo.It("should reproduce rate firings for the same seed", func() {
		run := func(seed uint64) []firing {
			integrator = newFakeIntegrator(0.5, map[string]float64{"x": 0})
			recorder = &firingRecorder{}

			a := mustEvent("a", noop, Poisson(2))
			b := mustEvent("b", noop, Rate{Scale: 5, First: At(1)})
			s := build(MakeSchedulerBuilder().
				WithStepSize(0.5).
				WithSeed(seed).
				WithEvents(a, b))

			Expect(s.StepTo(100)).To(Succeed())

			return recorder.firings
		}

		first := run(42)
		second := run(42)

		Expect(first).NotTo(BeEmpty())
		Expect(second).To(Equal(first))

		for _, f := range first {
			Expect(float64(f.time) / 0.5).To(
				BeNumerically("~", float64(StepIndex(f.time, 0.5)), 1e-9))
		}
	})

	ginkgo.It("should draw from the shared source in registration order", func() {
		mockCtrl := gomock.NewController(ginkgo.GinkgoT())
		src := NewMockExponentialSource(mockCtrl)

		gomock.InOrder(
			src.EXPECT().Exponential(1.0).Return(2.0),
			src.EXPECT().Exponential(3.0).Return(4.0),
		)

		a := mustEvent("a", noop, Poisson(1))
		b := mustEvent("b", noop, Poisson(3))
		build(MakeSchedulerBuilder().WithRandomSource(src).WithEvents(a, b))

		nextA, _ := a.NextOccurrence()
		nextB, _ := b.NextOccurrence()
		Expect(nextA).To(Equal(VTime(2)))
		Expect(nextB).To(Equal(VTime(4)))
	})

	ginkgo.It("should let later events see earlier events' changes", func() {
		s := build(MakeSchedulerBuilder())

		var seen float64
		a := mustEvent("a",
			func() ChangeSet { return ChangeSet{"x": 5.0} },
			OneShot(2))
		b := mustEvent("b",
			func() ChangeSet {
				v, err := s.Value("x")
				Expect(err).NotTo(HaveOccurred())
				seen = v

				return ChangeSet{"y": v * 2}
			},
			OneShot(2))
		Expect(s.RegisterEvent(a)).To(Succeed())
		Expect(s.RegisterEvent(b)).To(Succeed())

		Expect(s.StepTo(2)).To(Succeed())

		Expect(seen).To(Equal(5.0))
		Expect(s.Value("y")).To(Equal(10.0))
	})

	ginkgo.It("should keep an override for the rest of the step", func() {
		s := build(MakeSchedulerBuilder())
		e := mustEvent("set",
			func() ChangeSet { return ChangeSet{"x": 7} },
			OneShot(1))
		Expect(s.RegisterEvent(e)).To(Succeed())

		Expect(s.Step()).To(Succeed())
		Expect(s.Value("x")).To(Equal(7.0))

		Expect(s.Step()).To(Succeed())
		Expect(s.Value("x")).To(Equal(7.0))
	})

	ginkgo.It("should apply flag changes", func() {
		s := build(MakeSchedulerBuilder())
		e := mustEvent("risk",
			func() ChangeSet { return ChangeSet{"isHighRisk": true} },
			OneShot(1))
		Expect(s.RegisterEvent(e)).To(Succeed())

		Expect(s.Step()).To(Succeed())

		Expect(s.Flag("isHighRisk")).To(BeTrue())
	})

	ginkgo.It("should reject unknown keys without writing the valid ones", func() {
		s := build(MakeSchedulerBuilder())
		e := mustEvent("typo",
			func() ChangeSet {
				return ChangeSet{"x": 3.0, "isHighRisk": true, "z": 1.0}
			},
			OneShot(1))
		Expect(s.RegisterEvent(e)).To(Succeed())

		err := s.Step()

		Expect(err).To(MatchError(ErrLookup))
		var stepErr *StepError
		Expect(errors.As(err, &stepErr)).To(BeTrue())
		Expect(stepErr.Event).To(Equal("typo"))
		Expect(stepErr.Time).To(Equal(VTime(1)))

		Expect(s.Value("x")).To(Equal(0.0))
		Expect(s.Flag("isHighRisk")).To(BeFalse())
	})

	ginkgo.It("should reject values of the wrong type", func() {
		s := build(MakeSchedulerBuilder())

		Expect(s.Apply(ChangeSet{"isHighRisk": 1.0})).
			To(MatchError(ErrChangeValue))
		Expect(s.Apply(ChangeSet{"x": "high"})).
			To(MatchError(ErrChangeValue))
	})

	ginkgo.It("should abort the step when an event fails", func() {
		s := build(MakeSchedulerBuilder())

		bad := mustEvent("bad",
			func() ChangeSet { return ChangeSet{"nope": 1.0} },
			OneShot(1))
		after := mustEvent("after", noop, OneShot(1))
		Expect(s.RegisterEvent(bad)).To(Succeed())
		Expect(s.RegisterEvent(after)).To(Succeed())

		Expect(s.Step()).To(MatchError(ErrLookup))
		Expect(after.FireCount()).To(BeZero())
	})

	ginkgo.It("should evaluate before activating events", func() {
		mockCtrl := gomock.NewController(ginkgo.GinkgoT())
		mock := NewMockIntegrator(mockCtrl)

		e := mustEvent("e",
			func() ChangeSet { return ChangeSet{"x": 3.0} },
			OneShot(0))

		gomock.InOrder(
			mock.EXPECT().EvaluateAll(VTime(0)).Return(nil),
			mock.EXPECT().HasFlag("x").Return(false),
			mock.EXPECT().HasQuantity("x").Return(true),
			mock.EXPECT().Write("x", VTime(0), 3.0).Return(nil),
		)

		_, err := MakeSchedulerBuilder().WithEvents(e).Build(mock)
		Expect(err).NotTo(HaveOccurred())
	})

	ginkgo.It("should stop the step when evaluation fails", func() {
		mockCtrl := gomock.NewController(ginkgo.GinkgoT())
		mock := NewMockIntegrator(mockCtrl)
		boom := errors.New("boom")

		mock.EXPECT().EvaluateAll(VTime(0)).Return(boom)

		e := mustEvent("e", noop, OneShot(0))
		_, err := MakeSchedulerBuilder().WithEvents(e).Build(mock)

		Expect(err).To(MatchError(boom))
		Expect(e.FireCount()).To(BeZero())
	})

	ginkgo.It("should invoke hooks around each step", func() {
		mockCtrl := gomock.NewController(ginkgo.GinkgoT())
		hook := NewMockHook(mockCtrl)

		positions := []*HookPos{}
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
		}).AnyTimes()

		e := mustEvent("e", noop, OneShot(1))
		s, err := MakeSchedulerBuilder().
			WithHooks(hook).
			WithEvents(e).
			Build(integrator)
		Expect(err).NotTo(HaveOccurred())

		positions = positions[:0]
		Expect(s.Step()).To(Succeed())

		Expect(positions).To(Equal([]*HookPos{
			HookPosBeforeStep,
			HookPosAfterEvaluate,
			HookPosEventFired,
			HookPosAfterStep,
		}))
	})

	ginkgo.It("should log fired events", func() {
		buf := new(bytes.Buffer)
		logger := NewEventLogger(log.New(buf, "", 0))

		e := mustEvent("risk",
			func() ChangeSet { return ChangeSet{"isHighRisk": true, "x": 1.0} },
			OneShot(2))
		s := build(MakeSchedulerBuilder().WithHooks(logger).WithEvents(e))

		Expect(s.StepTo(3)).To(Succeed())

		Expect(buf.String()).To(Equal(
			"2.000000, risk(timeout) -> [isHighRisk, x]\n"))
	})
})
