package stockflow

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/sarchlab/stockflow/sim"
)

var (
	// ErrCycle reports quantities that depend on each other at the same
	// time.
	ErrCycle = errors.New("stockflow: dependency cycle")

	// ErrInvalidValue reports an equation that produced NaN or an infinity.
	ErrInvalidValue = errors.New("stockflow: equation produced an invalid value")

	// ErrHistoryImmutable reports a write at a time other than the latest
	// evaluated one.
	ErrHistoryImmutable = errors.New("stockflow: history is immutable")
)

// Kind is the role of a quantity in the model.
type Kind int

// The quantity kinds.
const (
	Stock Kind = iota
	Flow
	Converter
	Constant
)

func (k Kind) String() string {
	switch k {
	case Stock:
		return "stock"
	case Flow:
		return "flow"
	case Converter:
		return "converter"
	case Constant:
		return "constant"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// An Equation computes a quantity from the other quantities of the model. For
// a stock, the equation is its net rate of change.
type Equation func(v *Values) float64

type quantity struct {
	name    string
	kind    Kind
	initial float64
	eq      Equation
	values  map[int64]float64
}

type evalKey struct {
	q   *quantity
	idx int64
}

// Model is a stock-and-flow model. It implements sim.Integrator.
type Model struct {
	dt     sim.VTime
	order  []*quantity
	byName map[string]*quantity

	flags     map[string]bool
	flagOrder []string

	latest int64

	inProgress map[evalKey]struct{}
	err        error
}

// New creates an empty model with the given step size.
func New(dt sim.VTime) *Model {
	if !(dt > 0) {
		log.Panic("step size must be positive")
	}

	return &Model{
		dt:         dt,
		byName:     make(map[string]*quantity),
		flags:      make(map[string]bool),
		latest:     -1,
		inProgress: make(map[evalKey]struct{}),
	}
}

// StepSize returns the step size of the model.
func (m *Model) StepSize() sim.VTime {
	return m.dt
}

func (m *Model) declare(name string, kind Kind, initial float64, eq Equation) {
	if _, ok := m.byName[name]; ok {
		log.Panicf("quantity %s already declared", name)
	}

	if _, ok := m.flags[name]; ok {
		log.Panicf("%s already declared as a flag", name)
	}

	if eq == nil && (kind == Flow || kind == Converter) {
		log.Panicf("%s %s requires an equation", kind, name)
	}

	q := &quantity{
		name:    name,
		kind:    kind,
		initial: initial,
		eq:      eq,
		values:  make(map[int64]float64),
	}

	m.order = append(m.order, q)
	m.byName[name] = q
}

// Stock declares a stock with an initial value and a net-rate equation. A nil
// equation keeps the stock constant unless an event changes it.
func (m *Model) Stock(name string, initial float64, rate Equation) {
	m.declare(name, Stock, initial, rate)
}

// Flow declares a flow.
func (m *Model) Flow(name string, eq Equation) {
	m.declare(name, Flow, 0, eq)
}

// Converter declares a converter.
func (m *Model) Converter(name string, eq Equation) {
	m.declare(name, Converter, 0, eq)
}

// Constant declares a constant.
func (m *Model) Constant(name string, value float64) {
	m.declare(name, Constant, value, nil)
}

// DeclareFlag declares a discrete flag with its initial value.
func (m *Model) DeclareFlag(name string, initial bool) {
	if _, ok := m.byName[name]; ok {
		log.Panicf("%s already declared as a quantity", name)
	}

	if _, ok := m.flags[name]; ok {
		log.Panicf("flag %s already declared", name)
	}

	m.flags[name] = initial
	m.flagOrder = append(m.flagOrder, name)
}

// KindOf returns the kind of a quantity.
func (m *Model) KindOf(name string) (Kind, bool) {
	q, ok := m.byName[name]
	if !ok {
		return 0, false
	}

	return q.kind, true
}

// EvaluateAll computes every quantity at t, in declaration order. Values
// already recorded for t are kept.
func (m *Model) EvaluateAll(t sim.VTime) error {
	idx := sim.StepIndex(t, m.dt)
	if idx < 0 {
		return fmt.Errorf("stockflow: cannot evaluate at negative time %v",
			float64(t))
	}

	m.err = nil

	for _, q := range m.order {
		m.value(q, idx)

		if m.err != nil {
			err := m.err
			m.err = nil

			return err
		}
	}

	if idx > m.latest {
		m.latest = idx
	}

	return nil
}

func (m *Model) fail(err error) {
	if m.err == nil {
		m.err = err
	}
}

func (m *Model) value(q *quantity, idx int64) float64 {
	if v, ok := q.values[idx]; ok {
		return v
	}

	if m.err != nil {
		return 0
	}

	key := evalKey{q: q, idx: idx}
	if _, busy := m.inProgress[key]; busy {
		m.fail(fmt.Errorf("%w: %s at t=%v",
			ErrCycle, q.name, float64(m.timeOf(idx))))

		return 0
	}

	m.inProgress[key] = struct{}{}
	defer delete(m.inProgress, key)

	var v float64

	switch q.kind {
	case Stock:
		v = m.integrate(q, idx)
	case Constant:
		v = q.initial
	default:
		v = q.eq(&Values{m: m, idx: idx})
	}

	if m.err != nil {
		return 0
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		m.fail(fmt.Errorf("%w: %s at t=%v is %v",
			ErrInvalidValue, q.name, float64(m.timeOf(idx)), v))

		return 0
	}

	q.values[idx] = v

	return v
}

func (m *Model) integrate(q *quantity, idx int64) float64 {
	if idx <= 0 {
		return q.initial
	}

	prev := m.value(q, idx-1)
	if q.eq == nil {
		return prev
	}

	rate := q.eq(&Values{m: m, idx: idx - 1})

	return prev + float64(m.dt)*rate
}

func (m *Model) timeOf(idx int64) sim.VTime {
	return sim.VTime(idx) * m.dt
}

// Read returns the value of a quantity at time t.
func (m *Model) Read(name string, t sim.VTime) (float64, error) {
	q, ok := m.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: quantity %q", sim.ErrLookup, name)
	}

	v, ok := q.values[sim.StepIndex(t, m.dt)]
	if !ok {
		return 0, fmt.Errorf("%w: quantity %q has no value at t=%v",
			sim.ErrLookup, name, float64(t))
	}

	return v, nil
}

// Write overwrites the value of a quantity at time t. Only the latest
// evaluated time can be written.
func (m *Model) Write(name string, t sim.VTime, value float64) error {
	q, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%w: quantity %q", sim.ErrLookup, name)
	}

	idx := sim.StepIndex(t, m.dt)
	if idx != m.latest {
		return fmt.Errorf("%w: cannot write %q at t=%v, model is at t=%v",
			ErrHistoryImmutable, name, float64(t),
			float64(m.timeOf(m.latest)))
	}

	q.values[idx] = value

	return nil
}

// HasQuantity tells if name is a quantity of the model.
func (m *Model) HasQuantity(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// HasFlag tells if name is a flag of the model.
func (m *Model) HasFlag(name string) bool {
	_, ok := m.flags[name]
	return ok
}

// Flag returns the current value of a flag.
func (m *Model) Flag(name string) (bool, error) {
	v, ok := m.flags[name]
	if !ok {
		return false, fmt.Errorf("%w: flag %q", sim.ErrLookup, name)
	}

	return v, nil
}

// SetFlag sets the current value of a flag.
func (m *Model) SetFlag(name string, value bool) error {
	if _, ok := m.flags[name]; !ok {
		return fmt.Errorf("%w: flag %q", sim.ErrLookup, name)
	}

	m.flags[name] = value

	return nil
}
