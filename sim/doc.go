// Package sim is the event and time-stepping core of a hybrid simulation.
//
// Time advances on a fixed grid. On every step the Scheduler lets an
// Integrator recompute the continuous quantities and then activates the
// registered events in order. An event that fires returns a ChangeSet,
// which is written into the model before the next event is activated.
// Events fire on a timeout, while a condition holds, or at exponentially
// distributed intervals.
package sim
