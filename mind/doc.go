// Package mind builds a stock-and-flow model of the progression from defeat
// and humiliation through entrapment to suicidal ideation and behavior.
//
// The model is configuration data for the stockflow integrator. Its
// discrete high-risk state is a flag that only events change; equations read
// it on every step.
package mind
