package sim

import (
	"fmt"
	"math"
)

// A Scheduler drives a hybrid simulation. Every step it moves the clock by
// one fixed increment, lets the integrator recompute the continuous
// quantities, and then activates the registered events in registration
// order, applying each event's changes before the next event is activated.
//
// A Scheduler is not safe for concurrent use.
type Scheduler struct {
	*HookableBase

	integrator Integrator
	random     ExponentialSource

	now    VTime
	dt     VTime
	events []*Event
}

// Now returns the current simulation time.
func (s *Scheduler) Now() VTime {
	return s.now
}

// StepSize returns the fixed step of the simulation.
func (s *Scheduler) StepSize() VTime {
	return s.dt
}

// ExponentialDraw returns one draw from the shared random source.
func (s *Scheduler) ExponentialDraw(scale float64) float64 {
	return s.random.Exponential(scale)
}

// Events returns the registered events in activation order.
func (s *Scheduler) Events() []*Event {
	events := make([]*Event, len(s.events))
	copy(events, s.events)

	return events
}

// EventByName returns the first registered event with the given name.
func (s *Scheduler) EventByName(name string) (*Event, bool) {
	for _, e := range s.events {
		if e.Name() == name {
			return e, true
		}
	}

	return nil, false
}

// Value returns the value of a quantity at the current time.
func (s *Scheduler) Value(name string) (float64, error) {
	return s.integrator.Read(name, s.now)
}

// Flag returns the current value of a discrete flag.
func (s *Scheduler) Flag(name string) (bool, error) {
	return s.integrator.Flag(name)
}

// RegisterEvent binds the event to the scheduler and appends it to the
// activation order. An event registered while a step is in progress is first
// considered in the next activation pass.
func (s *Scheduler) RegisterEvent(e *Event) error {
	if e == nil {
		return fmt.Errorf("%w: cannot register a nil event", ErrConfiguration)
	}

	if err := e.bind(s); err != nil {
		return err
	}

	s.events = append(s.events, e)

	return nil
}

// Apply writes a change set into the model at the current time. The change
// set is validated as a whole first; if any key is unknown or any value has
// the wrong type, nothing is written.
func (s *Scheduler) Apply(changes ChangeSet) error {
	keys := changes.Keys()

	quantities := make(map[string]float64, len(keys))
	flags := make(map[string]bool)

	for _, key := range keys {
		value := changes[key]

		switch {
		case s.integrator.HasFlag(key):
			b, ok := value.(bool)
			if !ok {
				return fmt.Errorf("%w: flag %q takes a bool, got %T",
					ErrChangeValue, key, value)
			}

			flags[key] = b
		case s.integrator.HasQuantity(key):
			v, ok := toFloat(value)
			if !ok {
				return fmt.Errorf("%w: quantity %q takes a number, got %T",
					ErrChangeValue, key, value)
			}

			quantities[key] = v
		default:
			return fmt.Errorf("%w: %q is not a quantity or flag of the model",
				ErrLookup, key)
		}
	}

	for _, key := range keys {
		if b, ok := flags[key]; ok {
			if err := s.integrator.SetFlag(key, b); err != nil {
				return err
			}

			continue
		}

		if err := s.integrator.Write(key, s.now, quantities[key]); err != nil {
			return err
		}
	}

	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v)
	case float32:
		return float64(v), !math.IsNaN(float64(v))
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Step advances the simulation by one step.
func (s *Scheduler) Step() error {
	s.now = RoundToStep(s.now+s.dt, s.dt)

	return s.runStep()
}

// StepTo keeps stepping while the current time is before t. Every
// intermediate step is evaluated and gets its own activation pass.
func (s *Scheduler) StepTo(t VTime) error {
	for s.now+timeTolerance(s.dt) < t {
		if err := s.Step(); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scheduler) runStep() error {
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeStep, Item: s.now})

	if err := s.integrator.EvaluateAll(s.now); err != nil {
		return &StepError{Time: s.now, Wrapped: err}
	}

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterEvaluate, Item: s.now})

	if err := s.activateEvents(); err != nil {
		return err
	}

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterStep, Item: s.now})

	return nil
}

func (s *Scheduler) activateEvents() error {
	n := len(s.events)
	for i := 0; i < n; i++ {
		e := s.events[i]

		changes, fired, err := e.Activate()
		if err != nil {
			return &StepError{Time: s.now, Event: e.Name(), Wrapped: err}
		}

		if !fired {
			continue
		}

		if len(changes) > 0 {
			if err := s.Apply(changes); err != nil {
				return &StepError{Time: s.now, Event: e.Name(), Wrapped: err}
			}
		}

		s.InvokeHook(HookCtx{
			Domain: s,
			Pos:    HookPosEventFired,
			Item:   e,
			Detail: changes,
		})
	}

	return nil
}
