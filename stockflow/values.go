package stockflow

import (
	"fmt"

	"github.com/sarchlab/stockflow/sim"
)

// Values gives an equation read access to the model at the time the equation
// is evaluated.
type Values struct {
	m   *Model
	idx int64
}

// Get returns the value of a quantity at the evaluation time. An unknown
// name fails the evaluation and reads as 0.
func (v *Values) Get(name string) float64 {
	q, ok := v.m.byName[name]
	if !ok {
		v.m.fail(fmt.Errorf("%w: equation reads unknown quantity %q",
			sim.ErrLookup, name))

		return 0
	}

	return v.m.value(q, v.idx)
}

// Flag returns the current value of a flag. An unknown name fails the
// evaluation and reads as false.
func (v *Values) Flag(name string) bool {
	b, ok := v.m.flags[name]
	if !ok {
		v.m.fail(fmt.Errorf("%w: equation reads unknown flag %q",
			sim.ErrLookup, name))

		return false
	}

	return b
}

// Time returns the evaluation time.
func (v *Values) Time() sim.VTime {
	return v.m.timeOf(v.idx)
}

// StepSize returns the step size of the model.
func (v *Values) StepSize() sim.VTime {
	return v.m.dt
}

// If returns then if cond holds and otherwise else.
func If(cond bool, then, otherwise float64) float64 {
	if cond {
		return then
	}

	return otherwise
}
