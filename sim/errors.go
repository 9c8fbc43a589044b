package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports an event that was declared with trigger
	// parameters that do not fit its trigger type.
	ErrConfiguration = errors.New("sim: invalid event configuration")

	// ErrState reports a call made out of order, such as activating an event
	// that was never registered with a scheduler.
	ErrState = errors.New("sim: invalid state")

	// ErrLookup reports a quantity or flag name that the model does not know,
	// or a read at a time with no recorded value.
	ErrLookup = errors.New("sim: unknown key")

	// ErrChangeValue reports a change whose value type does not fit its key,
	// for example a number assigned to a flag.
	ErrChangeValue = errors.New("sim: invalid change value")
)

// StepError wraps an error raised while the scheduler was processing the step
// at Time.
type StepError struct {
	Time    VTime
	Event   string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Event == "" {
		return fmt.Sprintf("step @ %.6f: %v", float64(e.Time), e.Wrapped)
	}

	return fmt.Sprintf("step @ %.6f, event %q: %v",
		float64(e.Time), e.Event, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
