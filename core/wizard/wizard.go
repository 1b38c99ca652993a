package wizard

import "blind-configurator/core/types"

// Action is what the primary wizard button does on the current step
type Action string

const (
	ActionNext   Action = "next"
	ActionSubmit Action = "submit"
)

// Wizard tracks the current step. Advancing is gated on the current step's
// predicate; going back never is. Failed moves are no-ops, not errors.
type Wizard struct {
	validator *Validator
	current   StepID
}

// New starts a wizard on the first step
func New(validator *Validator) *Wizard {
	if validator == nil {
		validator = defaultValidator
	}
	return &Wizard{validator: validator, current: allSteps[0].ID}
}

// Current returns the current step
func (w *Wizard) Current() StepID {
	return w.current
}

// position returns the index of the current step among the visible steps.
// A current step that is no longer visible falls back to the first step.
func (w *Wizard) position(cfg types.Configuration) (int, []StepID) {
	visible := w.validator.VisibleSteps(cfg)
	for i, id := range visible {
		if id == w.current {
			return i, visible
		}
	}
	if len(visible) > 0 {
		w.current = visible[0]
	}
	return 0, visible
}

// CanProceed reports whether the current step is valid
func (w *Wizard) CanProceed(cfg types.Configuration) bool {
	return w.validator.IsStepValid(cfg, w.current)
}

// IsFirst reports whether the wizard is on the first visible step
func (w *Wizard) IsFirst(cfg types.Configuration) bool {
	i, _ := w.position(cfg)
	return i == 0
}

// IsLast reports whether the wizard is on the last visible step
func (w *Wizard) IsLast(cfg types.Configuration) bool {
	i, visible := w.position(cfg)
	return i == len(visible)-1
}

// Action returns submit on the last visible step, next otherwise
func (w *Wizard) Action(cfg types.Configuration) Action {
	if w.IsLast(cfg) {
		return ActionSubmit
	}
	return ActionNext
}

// Next advances to the next visible step when the current step is valid.
// It returns false, leaving the wizard unchanged, when it cannot advance.
func (w *Wizard) Next(cfg types.Configuration) bool {
	i, visible := w.position(cfg)
	if i+1 >= len(visible) || !w.CanProceed(cfg) {
		return false
	}
	w.current = visible[i+1]
	return true
}

// Previous moves back one visible step. It returns false on the first step.
func (w *Wizard) Previous(cfg types.Configuration) bool {
	i, visible := w.position(cfg)
	if i == 0 {
		return false
	}
	w.current = visible[i-1]
	return true
}

// Progress returns the 1-based position of the current step and the step count
func (w *Wizard) Progress(cfg types.Configuration) (position, total int) {
	i, visible := w.position(cfg)
	return i + 1, len(visible)
}

// ReadyToSubmit reports whether the configuration may be handed to the cart
func (w *Wizard) ReadyToSubmit(cfg types.Configuration) bool {
	return w.IsLast(cfg) && w.validator.ReadyToSubmit(cfg)
}

// Clone returns an independent copy of the wizard
func (w *Wizard) Clone() *Wizard {
	c := *w
	return &c
}
