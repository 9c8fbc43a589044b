package sim

import (
	"log"
	"math"
)

// VTime defines the time in the simulated space. The unit is whatever the
// model uses for its step size (days for most stock-and-flow models).
type VTime float64

// RoundToStep snaps a time (or a duration) to the nearest multiple of the step
// size. Ties round half up, so a value exactly between two grid points moves
// to the later one.
//
//	              Input
//	         [          )
//	|--------|----------|----------|----->
//	                    |
//	                    Output (for inputs in the upper half)
func RoundToStep(v, dt VTime) VTime {
	if dt <= 0 {
		log.Panic("step size must be positive")
	}

	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		log.Panic("invalid time")
	}

	n := math.Floor(float64(v/dt) + 0.5)

	return VTime(n) * dt
}

// StepIndex returns the number of whole steps between time 0 and t.
func StepIndex(t, dt VTime) int64 {
	return int64(math.Floor(float64(t/dt) + 0.5))
}

// timeTolerance is the slack used when deciding whether a cursor is due.
// Cursors are accumulated by repeated addition and may sit a few ULPs off the
// grid point the clock lands on.
func timeTolerance(dt VTime) VTime {
	return dt * 1e-9
}

func notAfter(a, b, dt VTime) bool {
	return a <= b+timeTolerance(dt)
}

// At returns a pointer to a copy of t. It is meant for filling the optional
// time fields of triggers.
func At(t VTime) *VTime {
	return &t
}
