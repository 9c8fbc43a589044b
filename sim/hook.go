package sim

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookCtx holds the information about the site where a hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// HookPosBeforeStep triggers after the clock moves to a new step and before
// anything is evaluated. Item is the new time.
var HookPosBeforeStep = &HookPos{Name: "BeforeStep"}

// HookPosAfterEvaluate triggers after the continuous quantities of the step
// are computed and before any event is activated. Item is the step time.
var HookPosAfterEvaluate = &HookPos{Name: "AfterEvaluate"}

// HookPosEventFired triggers after a fired event's changes are applied. Item
// is the *Event and Detail is the ChangeSet.
var HookPosEventFired = &HookPos{Name: "EventFired"}

// HookPosAfterStep triggers once the activation pass of a step completes.
// Item is the step time.
var HookPosAfterStep = &HookPos{Name: "AfterStep"}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase provides the hook bookkeeping for types that implement
// Hookable.
type HookableBase struct {
	Hooks []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	return &HookableBase{Hooks: make([]Hook, 0)}
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
