package sim

import (
	"log"
	"strings"
)

// EventLogger is a hook that prints a line for every fired event.
type EventLogger struct {
	*log.Logger
}

// NewEventLogger returns a new EventLogger which writes into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{Logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosEventFired {
		return
	}

	evt, ok := ctx.Item.(*Event)
	if !ok {
		return
	}

	changes, _ := ctx.Detail.(ChangeSet)

	now := VTime(0)
	if evt.model != nil {
		now = evt.model.Now()
	}

	h.Printf("%.6f, %s(%s) -> [%s]",
		float64(now), evt.Name(), evt.Kind(),
		strings.Join(changes.Keys(), ", "))
}
