package scenario

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind tells what a Value holds.
type ValueKind int

// The value kinds.
const (
	NumberValue ValueKind = iota
	BoolValue
	RefValue
)

// A Value is the right-hand side of a set or add entry.
type Value struct {
	Kind   ValueKind
	Number float64
	Bool   bool
	Ref    string
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{Kind: NumberValue, Number: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: BoolValue, Bool: v} }

// Ref returns a Value that reads the named quantity.
func Ref(name string) Value { return Value{Kind: RefValue, Ref: name} }

// UnmarshalYAML decodes a scalar into a Value.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number, bool, or name",
			node.Line)
	}

	switch node.ShortTag() {
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return err
		}

		*v = Bool(b)
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}

		*v = Number(f)
	case "!!str":
		*v = Ref(node.Value)
	default:
		return fmt.Errorf("line %d: unsupported value %q",
			node.Line, node.Value)
	}

	return nil
}

// MarshalYAML encodes a Value as a scalar.
func (v Value) MarshalYAML() (any, error) {
	switch v.Kind {
	case BoolValue:
		return v.Bool, nil
	case RefValue:
		return v.Ref, nil
	default:
		return v.Number, nil
	}
}
