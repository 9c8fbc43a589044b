package sim

import (
	"fmt"
	"math"
)

// A SchedulerBuilder can build schedulers.
type SchedulerBuilder struct {
	dt     VTime
	random ExponentialSource
	events []*Event
	hooks  []Hook
}

// MakeSchedulerBuilder returns a SchedulerBuilder with a step size of 1 and a
// random source seeded with 0.
func MakeSchedulerBuilder() SchedulerBuilder {
	return SchedulerBuilder{dt: 1}
}

// WithStepSize sets the fixed step of the simulation.
func (b SchedulerBuilder) WithStepSize(dt VTime) SchedulerBuilder {
	b.dt = dt
	return b
}

// WithRandomSource sets the source rate events draw from.
func (b SchedulerBuilder) WithRandomSource(src ExponentialSource) SchedulerBuilder {
	b.random = src
	return b
}

// WithSeed uses a SeededSource with the given seed.
func (b SchedulerBuilder) WithSeed(seed uint64) SchedulerBuilder {
	b.random = NewSeededSource(seed)
	return b
}

// WithEvents registers events before the initial activation pass, so that
// events due at time 0 fire during Build.
func (b SchedulerBuilder) WithEvents(events ...*Event) SchedulerBuilder {
	b.events = append(append([]*Event(nil), b.events...), events...)
	return b
}

// WithHooks attaches hooks before the initial step runs.
func (b SchedulerBuilder) WithHooks(hooks ...Hook) SchedulerBuilder {
	b.hooks = append(append([]Hook(nil), b.hooks...), hooks...)
	return b
}

// Build creates the scheduler, pins the time to 0, evaluates the model at 0,
// and runs the first activation pass.
func (b SchedulerBuilder) Build(integrator Integrator) (*Scheduler, error) {
	if integrator == nil {
		return nil, fmt.Errorf("%w: scheduler requires an integrator",
			ErrConfiguration)
	}

	if !(b.dt > 0) || math.IsInf(float64(b.dt), 1) {
		return nil, fmt.Errorf("%w: step size must be positive, got %v",
			ErrConfiguration, float64(b.dt))
	}

	random := b.random
	if random == nil {
		random = NewSeededSource(0)
	}

	s := &Scheduler{
		HookableBase: NewHookableBase(),
		integrator:   integrator,
		random:       random,
		dt:           b.dt,
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	for _, e := range b.events {
		if err := s.RegisterEvent(e); err != nil {
			return nil, err
		}
	}

	if err := s.runStep(); err != nil {
		return nil, err
	}

	return s, nil
}
