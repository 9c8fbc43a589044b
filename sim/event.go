package sim

import (
	"fmt"
	"sort"
)

// A ChangeSet maps model keys to the values an event wants them to take.
// Quantity keys take numbers and flag keys take booleans.
type ChangeSet map[string]any

// Keys returns the keys of the change set in sorted order.
func (c ChangeSet) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// An Action computes the changes of an event. It must not modify the model
// directly; everything it wants to change goes into the returned ChangeSet.
type Action interface {
	Compute() ChangeSet
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func() ChangeSet

// Compute calls f.
func (f ActionFunc) Compute() ChangeSet {
	return f()
}

// A Predicate gates a condition event.
type Predicate interface {
	Holds() bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func() bool

// Holds calls f.
func (f PredicateFunc) Holds() bool {
	return f()
}

// Model is the part of the simulation an event sees while it activates.
type Model interface {
	// Now returns the current simulation time.
	Now() VTime

	// StepSize returns the fixed step of the simulation.
	StepSize() VTime

	// ExponentialDraw returns one draw from an exponential distribution
	// with the given mean.
	ExponentialDraw(scale float64) float64
}

// An Event is a unit of discrete behavior. It is checked once per step and,
// when due, computes a ChangeSet and moves its cursor forward.
type Event struct {
	ID string

	name    string
	action  Action
	trigger Trigger
	first   VTime
	cursor  *VTime
	fired   uint64
	model   Model
}

// NewEvent creates an event. The trigger is validated and copied, so later
// changes to the caller's trigger value have no effect on the event.
func NewEvent(name string, action Action, trigger Trigger) (*Event, error) {
	if action == nil {
		return nil, fmt.Errorf("%w: event %q has no action",
			ErrConfiguration, name)
	}

	if f, ok := action.(ActionFunc); ok && f == nil {
		return nil, fmt.Errorf("%w: event %q has no action",
			ErrConfiguration, name)
	}

	if trigger == nil {
		return nil, fmt.Errorf("%w: event %q has no trigger",
			ErrConfiguration, name)
	}

	if err := trigger.validate(); err != nil {
		return nil, fmt.Errorf("event %q: %w", name, err)
	}

	t := trigger.clone()

	e := &Event{
		ID:      GetIDGenerator().Generate(),
		name:    name,
		action:  action,
		trigger: t,
		first:   t.firstOccurrence(),
		cursor:  t.initialCursor(),
	}

	return e, nil
}

// Name returns the name of the event.
func (e *Event) Name() string {
	return e.name
}

// Kind returns the trigger kind of the event.
func (e *Event) Kind() TriggerKind {
	return e.trigger.Kind()
}

// Trigger returns a copy of the trigger the event was created with.
func (e *Event) Trigger() Trigger {
	return e.trigger.clone()
}

// FirstOccurrence returns the earliest time the event may fire. It is 0 for
// condition events, where it carries no meaning.
func (e *Event) FirstOccurrence() VTime {
	return e.first
}

// NextOccurrence returns the cursor of the event. The second return value is
// false if the event is disarmed or, for condition events, not armed yet.
func (e *Event) NextOccurrence() (VTime, bool) {
	if e.cursor == nil {
		return 0, false
	}

	return *e.cursor, true
}

// FireCount returns how many times the event has fired.
func (e *Event) FireCount() uint64 {
	return e.fired
}

// IsBound tells if the event has been registered with a model.
func (e *Event) IsBound() bool {
	return e.model != nil
}

func (e *Event) bind(m Model) error {
	if e.model != nil {
		return fmt.Errorf("%w: event %q is already registered",
			ErrState, e.name)
	}

	e.model = m

	return nil
}

// Activate checks if the event is due and, if it is, runs its action and
// reschedules it. The boolean result tells whether the event fired; a fired
// event always returns a non-nil ChangeSet, possibly empty.
func (e *Event) Activate() (ChangeSet, bool, error) {
	if e.model == nil {
		return nil, false, fmt.Errorf(
			"%w: event %q must be registered before it is activated",
			ErrState, e.name)
	}

	if !e.trigger.isDue(e.cursor, e.model) {
		return nil, false, nil
	}

	changes := e.action.Compute()
	if changes == nil {
		changes = ChangeSet{}
	}

	e.cursor = e.trigger.next(e.cursor, e.model)
	e.fired++

	return changes, true, nil
}
