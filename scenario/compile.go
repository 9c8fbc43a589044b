package scenario

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/sarchlab/stockflow/sim"
)

// State is the read-only view of the model that compiled actions and
// predicates use. *stockflow.Model implements it.
type State interface {
	Value(name string) (float64, error)
	Flag(name string) (bool, error)
	HasQuantity(name string) bool
	HasFlag(name string) bool
}

// Compile turns the declarations into events in declaration order. Every
// name the declarations refer to is checked against the state.
func (s *Scenario) Compile(state State) ([]*sim.Event, error) {
	events := make([]*sim.Event, 0, len(s.Events))

	for i, d := range s.Events {
		e, err := d.compile(state)
		if err != nil {
			return nil, fmt.Errorf("scenario event %d (%s): %w",
				i, d.Name, err)
		}

		events = append(events, e)
	}

	return events, nil
}

func (d Declaration) compile(state State) (*sim.Event, error) {
	d.Set = copyValues(d.Set)
	d.Add = copyValues(d.Add)

	if err := d.checkRefs(state); err != nil {
		return nil, err
	}

	trigger, err := d.trigger(state)
	if err != nil {
		return nil, err
	}

	return sim.NewEvent(d.Name, d.action(state), trigger)
}

func copyValues(m map[string]Value) map[string]Value {
	if m == nil {
		return nil
	}

	c := make(map[string]Value, len(m))
	for k, v := range m {
		c[k] = v
	}

	return c
}

func optionalTime(v *float64) *sim.VTime {
	if v == nil {
		return nil
	}

	return sim.At(sim.VTime(*v))
}

func (d Declaration) trigger(state State) (sim.Trigger, error) {
	if err := d.checkTriggerFields(); err != nil {
		return nil, err
	}

	switch d.Trigger {
	case "timeout":
		return sim.Timeout{
			First:      optionalTime(d.First),
			Recurrence: optionalTime(d.Every),
		}, nil
	case "rate":
		return sim.Rate{Scale: d.Scale, First: optionalTime(d.First)}, nil
	case "condition":
		if d.When == nil {
			return sim.Condition{}, nil
		}

		pred, err := d.When.predicate(state)
		if err != nil {
			return nil, err
		}

		return sim.Condition{Predicate: pred}, nil
	default:
		return nil, fmt.Errorf("%w: unknown trigger %q",
			sim.ErrConfiguration, d.Trigger)
	}
}

// checkTriggerFields rejects parameters that the declared trigger does not
// take.
func (d Declaration) checkTriggerFields() error {
	var unused []string

	switch d.Trigger {
	case "timeout":
		unused = d.presentFields(false, false, true, true)
	case "rate":
		unused = d.presentFields(false, true, false, true)
	case "condition":
		unused = d.presentFields(true, true, true, false)
	}

	if len(unused) > 0 {
		return fmt.Errorf("%w: %s trigger does not take %s",
			sim.ErrConfiguration, d.Trigger, strings.Join(unused, ", "))
	}

	return nil
}

func (d Declaration) presentFields(first, every, scale, when bool) []string {
	var names []string

	if first && d.First != nil {
		names = append(names, "first")
	}

	if every && d.Every != nil {
		names = append(names, "every")
	}

	if scale && d.Scale != 0 {
		names = append(names, "scale")
	}

	if when && d.When != nil {
		names = append(names, "when")
	}

	return names
}

func (d Declaration) checkRefs(state State) error {
	for _, key := range sortedKeys(d.Set) {
		v := d.Set[key]

		switch {
		case state.HasFlag(key):
			if v.Kind != BoolValue {
				return fmt.Errorf("%w: flag %q must be set to a bool",
					sim.ErrChangeValue, key)
			}
		case state.HasQuantity(key):
			if v.Kind == BoolValue {
				return fmt.Errorf("%w: quantity %q cannot be set to a bool",
					sim.ErrChangeValue, key)
			}
		default:
			return fmt.Errorf("%w: %q", sim.ErrLookup, key)
		}

		if v.Kind == RefValue && !state.HasQuantity(v.Ref) {
			return fmt.Errorf("%w: %q", sim.ErrLookup, v.Ref)
		}
	}

	for _, key := range sortedKeys(d.Add) {
		v := d.Add[key]

		if !state.HasQuantity(key) {
			return fmt.Errorf("%w: %q", sim.ErrLookup, key)
		}

		if v.Kind == BoolValue {
			return fmt.Errorf("%w: cannot add a bool to %q",
				sim.ErrChangeValue, key)
		}

		if v.Kind == RefValue && !state.HasQuantity(v.Ref) {
			return fmt.Errorf("%w: %q", sim.ErrLookup, v.Ref)
		}
	}

	return nil
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func mustValue(state State, name string) float64 {
	v, err := state.Value(name)
	if err != nil {
		log.Panic(err)
	}

	return v
}

func resolve(state State, v Value) any {
	switch v.Kind {
	case BoolValue:
		return v.Bool
	case RefValue:
		return mustValue(state, v.Ref)
	default:
		return v.Number
	}
}

// action reads everything it needs through the state when it runs, so an
// event sees the changes of the events activated before it in the same step.
func (d Declaration) action(state State) sim.Action {
	set := d.Set
	add := d.Add

	return sim.ActionFunc(func() sim.ChangeSet {
		changes := sim.ChangeSet{}

		for key, v := range set {
			changes[key] = resolve(state, v)
		}

		for key, v := range add {
			base, ok := changes[key].(float64)
			if !ok {
				base = mustValue(state, key)
			}

			changes[key] = base + resolve(state, v).(float64)
		}

		return changes
	})
}
