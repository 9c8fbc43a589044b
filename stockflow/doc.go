// Package stockflow provides a stock-and-flow integrator for the sim
// scheduler.
//
// A Model holds named quantities of four kinds: stocks, flows, converters, and
// constants. Stocks accumulate by explicit Euler integration on the model's
// fixed step; every other kind is a plain function of the other quantities at
// the same time. Every value is memoized per step, and a memoized value always
// wins over recomputation. That is what lets an event override a quantity for
// the rest of a step and have the override feed the next step's integration.
//
// A Model also stores boolean flags. Equations can read them, and only the
// scheduler's change application writes them.
package stockflow
