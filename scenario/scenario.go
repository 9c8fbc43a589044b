// Package scenario declares discrete events in YAML and compiles them into
// sim events.
//
// A scenario file looks like this:
//
//	events:
//	  - name: severe-life-event
//	    trigger: rate
//	    scale: 30
//	    add:
//	      Life_Events_Effect: severe_event_effect
//	  - name: high-risk-onset
//	    trigger: condition
//	    when: {quantity: RISK, op: ">=", value: 40}
//	    set:
//	      isHighRisk: true
//	  - name: checkup
//	    trigger: timeout
//	    first: 10
//	    every: 30
//	    set:
//	      Defeat_Humiliation: 0
//
// Values under set and add are numbers, booleans (flags only), or the name
// of a quantity whose current value is used.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// A Scenario is a list of event declarations.
type Scenario struct {
	Events []Declaration `yaml:"events"`
}

// A Declaration describes one event.
type Declaration struct {
	Name    string           `yaml:"name"`
	Trigger string           `yaml:"trigger"`
	First   *float64         `yaml:"first,omitempty"`
	Every   *float64         `yaml:"every,omitempty"`
	Scale   float64          `yaml:"scale,omitempty"`
	When    *Guard           `yaml:"when,omitempty"`
	Set     map[string]Value `yaml:"set,omitempty"`
	Add     map[string]Value `yaml:"add,omitempty"`
}

// A Guard is the predicate of a condition event. It either compares a
// quantity with a number or checks a flag.
type Guard struct {
	Quantity string  `yaml:"quantity,omitempty"`
	Op       string  `yaml:"op,omitempty"`
	Value    float64 `yaml:"value,omitempty"`
	Flag     string  `yaml:"flag,omitempty"`
	Is       bool    `yaml:"is,omitempty"`
}

// Parse reads a scenario from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	s := &Scenario{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario: %w", err)
	}

	return s, nil
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}
