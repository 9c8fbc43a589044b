package sim

// An Integrator owns the continuous state of a model. It evaluates every
// quantity at a given time, memoizes the values per step, and stores the
// auxiliary discrete flags that events may toggle.
//
// The scheduler never reads or writes any time other than its current one.
type Integrator interface {
	// EvaluateAll computes every quantity at time t. Values that are already
	// recorded for t are kept.
	EvaluateAll(t VTime) error

	// Read returns the value of a quantity at time t. It fails with
	// ErrLookup if the name is unknown or t has no recorded value.
	Read(name string, t VTime) (float64, error)

	// Write overwrites the value of a quantity at time t. It fails with
	// ErrLookup if the name is unknown.
	Write(name string, t VTime, value float64) error

	// HasQuantity tells if name is a continuous quantity.
	HasQuantity(name string) bool

	// HasFlag tells if name is a discrete flag.
	HasFlag(name string) bool

	// Flag returns the current value of a flag.
	Flag(name string) (bool, error)

	// SetFlag sets the current value of a flag.
	SetFlag(name string, value bool) error
}
