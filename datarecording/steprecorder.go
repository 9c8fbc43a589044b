package datarecording

import (
	"fmt"
	"log"
	"strings"

	"github.com/rs/xid"

	"github.com/sarchlab/stockflow/sim"
)

// QuantityValue is the value of one quantity at one step.
type QuantityValue struct {
	RunID string
	Time  float64
	Name  string
	Value float64
}

// EventFiring is one activation of an event that fired.
type EventFiring struct {
	RunID   string
	Time    float64
	EventID string
	Event   string
	Trigger string
	Changes string
}

// Table names used by the StepRecorder.
const (
	QuantityValueTable = "quantity_value"
	EventFiringTable   = "event_firing"
)

// A Source lists quantities and reads their values at the latest evaluated
// time. *stockflow.Model implements it.
type Source interface {
	Names() []string
	Value(name string) (float64, error)
}

// StepRecorder is a hook that records every quantity after each step and
// every event firing.
type StepRecorder struct {
	recorder DataRecorder
	source   Source
	runID    string
	now      sim.VTime
}

// NewStepRecorder creates a StepRecorder with a fresh run ID and creates its
// tables.
func NewStepRecorder(recorder DataRecorder, source Source) *StepRecorder {
	r := &StepRecorder{
		recorder: recorder,
		source:   source,
		runID:    xid.New().String(),
	}

	recorder.CreateTable(QuantityValueTable, QuantityValue{})
	recorder.CreateTable(EventFiringTable, EventFiring{})

	return r
}

// RunID returns the ID that tags the recorded rows.
func (r *StepRecorder) RunID() string {
	return r.runID
}

// Func records the data of the hook position.
func (r *StepRecorder) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosBeforeStep:
		r.now = ctx.Item.(sim.VTime)
	case sim.HookPosEventFired:
		r.recordFiring(ctx)
	case sim.HookPosAfterStep:
		r.recordQuantities()
	}
}

func (r *StepRecorder) recordFiring(ctx sim.HookCtx) {
	evt := ctx.Item.(*sim.Event)
	changes, _ := ctx.Detail.(sim.ChangeSet)

	r.recorder.InsertData(EventFiringTable, EventFiring{
		RunID:   r.runID,
		Time:    float64(r.now),
		EventID: evt.ID,
		Event:   evt.Name(),
		Trigger: evt.Kind().String(),
		Changes: formatChanges(changes),
	})
}

func (r *StepRecorder) recordQuantities() {
	for _, name := range r.source.Names() {
		v, err := r.source.Value(name)
		if err != nil {
			log.Panic(err)
		}

		r.recorder.InsertData(QuantityValueTable, QuantityValue{
			RunID: r.runID,
			Time:  float64(r.now),
			Name:  name,
			Value: v,
		})
	}
}

func formatChanges(changes sim.ChangeSet) string {
	parts := make([]string, 0, len(changes))
	for _, k := range changes.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, changes[k]))
	}

	return strings.Join(parts, ", ")
}
