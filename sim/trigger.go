package sim

import (
	"fmt"
	"math"
)

// TriggerKind names the strategy that decides when an event becomes eligible.
type TriggerKind int

// The trigger kinds. The set is closed.
const (
	TriggerTimeout TriggerKind = iota
	TriggerCondition
	TriggerRate
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerTimeout:
		return "timeout"
	case TriggerCondition:
		return "condition"
	case TriggerRate:
		return "rate"
	default:
		return fmt.Sprintf("TriggerKind(%d)", int(k))
	}
}

// A Trigger decides when an event fires and where its cursor moves after a
// firing. Only Timeout, Condition, and Rate implement it.
type Trigger interface {
	Kind() TriggerKind

	validate() error
	clone() Trigger
	firstOccurrence() VTime
	initialCursor() *VTime
	isDue(cursor *VTime, m Model) bool
	next(cursor *VTime, m Model) *VTime
}

// Timeout fires at First and, when Recurrence is set, every Recurrence after
// that. Without a Recurrence the event fires once.
type Timeout struct {
	First      *VTime
	Recurrence *VTime
}

// OneShot returns a Timeout that fires once at first.
func OneShot(first VTime) Timeout {
	return Timeout{First: At(first)}
}

// Recurring returns a Timeout that fires at first and then every period.
func Recurring(first, period VTime) Timeout {
	return Timeout{First: At(first), Recurrence: At(period)}
}

// Kind returns TriggerTimeout.
func (Timeout) Kind() TriggerKind { return TriggerTimeout }

func (t Timeout) validate() error {
	if t.First == nil {
		return fmt.Errorf(
			"%w: timeout trigger requires a first occurrence",
			ErrConfiguration)
	}

	if t.Recurrence != nil && !(*t.Recurrence > 0) {
		return fmt.Errorf(
			"%w: timeout recurrence must be greater than 0, got %v",
			ErrConfiguration, float64(*t.Recurrence))
	}

	return nil
}

func (t Timeout) clone() Trigger {
	c := Timeout{}
	if t.First != nil {
		c.First = At(*t.First)
	}

	if t.Recurrence != nil {
		c.Recurrence = At(*t.Recurrence)
	}

	return c
}

func (t Timeout) firstOccurrence() VTime { return *t.First }

func (t Timeout) initialCursor() *VTime { return At(*t.First) }

func (Timeout) isDue(cursor *VTime, m Model) bool {
	return cursor != nil && notAfter(*cursor, m.Now(), m.StepSize())
}

func (t Timeout) next(cursor *VTime, _ Model) *VTime {
	if t.Recurrence == nil {
		return nil
	}

	return At(*cursor + *t.Recurrence)
}

// Condition fires on every step in which its predicate holds.
type Condition struct {
	Predicate Predicate
}

// When returns a Condition trigger over a predicate function.
func When(f func() bool) Condition {
	if f == nil {
		return Condition{}
	}

	return Condition{Predicate: PredicateFunc(f)}
}

// Kind returns TriggerCondition.
func (Condition) Kind() TriggerKind { return TriggerCondition }

func (c Condition) validate() error {
	if c.Predicate == nil {
		return fmt.Errorf(
			"%w: condition trigger requires a predicate", ErrConfiguration)
	}

	if f, ok := c.Predicate.(PredicateFunc); ok && f == nil {
		return fmt.Errorf(
			"%w: condition trigger requires a predicate", ErrConfiguration)
	}

	return nil
}

func (c Condition) clone() Trigger { return Condition{Predicate: c.Predicate} }

func (Condition) firstOccurrence() VTime { return 0 }

func (Condition) initialCursor() *VTime { return nil }

// A condition event is armed by its first firing. From then on the cursor
// enforces a one-step cooldown, which never blocks firing on consecutive
// steps.
func (c Condition) isDue(cursor *VTime, m Model) bool {
	if cursor != nil && !notAfter(*cursor, m.Now(), m.StepSize()) {
		return false
	}

	return c.Predicate.Holds()
}

func (Condition) next(cursor *VTime, m Model) *VTime {
	n := m.Now() + m.StepSize()
	if cursor != nil && *cursor > n {
		n = *cursor
	}

	return At(n)
}

// Rate fires at exponentially distributed intervals. Scale is the mean of the
// interval; each draw is snapped to the step grid.
type Rate struct {
	Scale float64
	First *VTime
}

// Poisson returns a Rate trigger with the given mean interval that is first
// eligible at time 0.
func Poisson(scale float64) Rate {
	return Rate{Scale: scale}
}

// Kind returns TriggerRate.
func (Rate) Kind() TriggerKind { return TriggerRate }

func (r Rate) validate() error {
	if !(r.Scale > 0) || math.IsInf(r.Scale, 1) {
		return fmt.Errorf(
			"%w: rate trigger requires a positive finite rate, got %v",
			ErrConfiguration, r.Scale)
	}

	if r.First != nil && *r.First < 0 {
		return fmt.Errorf(
			"%w: rate first occurrence must be non-negative, got %v",
			ErrConfiguration, float64(*r.First))
	}

	return nil
}

func (r Rate) clone() Trigger {
	c := Rate{Scale: r.Scale}
	if r.First != nil {
		c.First = At(*r.First)
	}

	return c
}

func (r Rate) firstOccurrence() VTime {
	if r.First == nil {
		return 0
	}

	return *r.First
}

func (r Rate) initialCursor() *VTime { return At(r.firstOccurrence()) }

func (Rate) isDue(cursor *VTime, m Model) bool {
	return cursor != nil && notAfter(*cursor, m.Now(), m.StepSize())
}

func (r Rate) next(cursor *VTime, m Model) *VTime {
	draw := VTime(m.ExponentialDraw(r.Scale))
	if draw < 0 {
		draw = 0
	}

	return At(*cursor + RoundToStep(draw, m.StepSize()))
}
