package scenario

import (
	"fmt"
	"log"

	"github.com/sarchlab/stockflow/sim"
)

var comparisons = map[string]func(a, b float64) bool{
	">":  func(a, b float64) bool { return a > b },
	">=": func(a, b float64) bool { return a >= b },
	"<":  func(a, b float64) bool { return a < b },
	"<=": func(a, b float64) bool { return a <= b },
	"==": func(a, b float64) bool { return a == b },
	"!=": func(a, b float64) bool { return a != b },
}

func (g *Guard) predicate(state State) (sim.Predicate, error) {
	switch {
	case g.Quantity != "" && g.Flag != "":
		return nil, fmt.Errorf(
			"%w: condition checks either a quantity or a flag",
			sim.ErrConfiguration)
	case g.Flag != "":
		if !state.HasFlag(g.Flag) {
			return nil, fmt.Errorf("%w: flag %q", sim.ErrLookup, g.Flag)
		}

		name, want := g.Flag, g.Is

		return sim.PredicateFunc(func() bool {
			v, err := state.Flag(name)
			if err != nil {
				log.Panic(err)
			}

			return v == want
		}), nil
	case g.Quantity != "":
		if !state.HasQuantity(g.Quantity) {
			return nil, fmt.Errorf("%w: %q", sim.ErrLookup, g.Quantity)
		}

		cmp, ok := comparisons[g.Op]
		if !ok {
			return nil, fmt.Errorf("%w: unknown comparison %q",
				sim.ErrConfiguration, g.Op)
		}

		name, threshold := g.Quantity, g.Value

		return sim.PredicateFunc(func() bool {
			return cmp(mustValue(state, name), threshold)
		}), nil
	default:
		return nil, fmt.Errorf(
			"%w: condition needs a quantity or a flag", sim.ErrConfiguration)
	}
}
