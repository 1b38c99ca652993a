// Package wizard gates progress through the configurator steps.
//
// Every step is always visible: the remote step is shown for manual blinds as
// well, and motorised is the default control type.
package wizard

import (
	"strings"

	"blind-configurator/core/measure"
	"blind-configurator/core/types"
)

// StepID identifies a wizard step
type StepID string

const (
	StepColour       StepID = "colour"
	StepMount        StepID = "mount"
	StepMeasurements StepID = "measurements"
	StepControl      StepID = "control"
	StepRemote       StepID = "remote"
	StepAccessories  StepID = "accessories"
	StepName         StepID = "name"
)

// Step describes a step for display
type Step struct {
	ID       StepID `json:"id"`
	Title    string `json:"title"`
	Optional bool   `json:"optional,omitempty"`
}

var allSteps = []Step{
	{ID: StepColour, Title: "Pick your colour"},
	{ID: StepMount, Title: "Mount style"},
	{ID: StepMeasurements, Title: "Measurements"},
	{ID: StepControl, Title: "Control type"},
	{ID: StepRemote, Title: "Remote option"},
	{ID: StepAccessories, Title: "Optional accessories", Optional: true},
	{ID: StepName, Title: "Name your window"},
}

// Steps returns every step in order
func Steps() []Step {
	return append([]Step(nil), allSteps...)
}

// Lookup returns the step with the given id
func Lookup(id StepID) (Step, bool) {
	for _, s := range allSteps {
		if s.ID == id {
			return s, true
		}
	}
	return Step{}, false
}

// Validator evaluates step predicates against measurement limits
type Validator struct {
	limits measure.Limits
}

// NewValidator creates a validator for the given limits
func NewValidator(limits measure.Limits) *Validator {
	return &Validator{limits: limits}
}

var defaultValidator = NewValidator(measure.DefaultLimits())

// IsStepValid evaluates a step with the default measurement limits
func IsStepValid(cfg types.Configuration, step StepID) bool {
	return defaultValidator.IsStepValid(cfg, step)
}

// VisibleSteps returns the ordered steps shown for a configuration
func VisibleSteps(cfg types.Configuration) []StepID {
	return defaultValidator.VisibleSteps(cfg)
}

// Limits returns the measurement limits in use
func (v *Validator) Limits() measure.Limits {
	return v.limits
}

// IsStepValid reports whether the step's required fields are populated.
// Unknown steps are never valid.
func (v *Validator) IsStepValid(cfg types.Configuration, step StepID) bool {
	switch step {
	case StepColour:
		return cfg.FrameColor != "" && cfg.FabricType != "" && cfg.FabricColor != ""
	case StepMount:
		return cfg.MountType != ""
	case StepMeasurements:
		return v.limits.Contains(cfg.Width, cfg.Height)
	case StepControl:
		return cfg.ControlType != ""
	case StepRemote:
		// AdditionalRemote is a bool and therefore always answered
		return true
	case StepAccessories:
		return true
	case StepName:
		return strings.TrimSpace(cfg.WindowName) != ""
	default:
		return false
	}
}

// VisibleSteps returns the ordered steps shown for a configuration
func (v *Validator) VisibleSteps(cfg types.Configuration) []StepID {
	ids := make([]StepID, len(allSteps))
	for i, s := range allSteps {
		ids[i] = s.ID
	}
	return ids
}

// InvalidSteps returns the visible steps whose predicate fails, in order
func (v *Validator) InvalidSteps(cfg types.Configuration) []StepID {
	var invalid []StepID
	for _, id := range v.VisibleSteps(cfg) {
		if !v.IsStepValid(cfg, id) {
			invalid = append(invalid, id)
		}
	}
	return invalid
}

// ReadyToSubmit reports whether every visible step is valid
func (v *Validator) ReadyToSubmit(cfg types.Configuration) bool {
	return len(v.InvalidSteps(cfg)) == 0
}
