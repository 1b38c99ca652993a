// Package api - Request and response types
// JSON field names are snake_case throughout.
package api

import (
	"time"

	"blind-configurator/adapters/cart"
	"blind-configurator/core/engine"
	"blind-configurator/core/measure"
	"blind-configurator/core/store"
	"blind-configurator/core/types"
	"blind-configurator/core/wizard"
)

// ConfigurationRequest is a configuration whose dimensions may arrive as
// millimetres, text, or a {cm, mm} pair
type ConfigurationRequest struct {
	FrameColor           string               `json:"frame_color"`
	FabricType           string               `json:"fabric_type"`
	FabricColor          string               `json:"fabric_color"`
	MountType            string               `json:"mount_type"`
	Width                measure.RawDimension `json:"width"`
	Height               measure.RawDimension `json:"height"`
	MeasurementGuarantee bool                 `json:"measurement_guarantee"`
	ControlType          *string              `json:"control_type"`
	AdditionalRemote     bool                 `json:"additional_remote"`
	SmartHubQuantity     int                  `json:"smart_hub_quantity"`
	WindowName           string               `json:"window_name"`
}

// Configuration converts the request. An absent control type keeps the
// motorised default.
func (r ConfigurationRequest) Configuration() types.Configuration {
	cfg := types.NewConfiguration()
	cfg.FrameColor = r.FrameColor
	cfg.FabricType = r.FabricType
	cfg.FabricColor = r.FabricColor
	cfg.MountType = r.MountType
	cfg.Width, cfg.Height = measure.Normalize(r.Width, r.Height)
	cfg.MeasurementGuarantee = r.MeasurementGuarantee
	if r.ControlType != nil {
		cfg.ControlType = *r.ControlType
	}
	cfg.AdditionalRemote = r.AdditionalRemote
	cfg.SmartHubQuantity = r.SmartHubQuantity
	if cfg.SmartHubQuantity < 0 {
		cfg.SmartHubQuantity = 0
	}
	cfg.WindowName = r.WindowName
	return cfg
}

// NormalizeRequest is the body of POST /v1/normalize
type NormalizeRequest struct {
	Width  measure.RawDimension `json:"width"`
	Height measure.RawDimension `json:"height"`
}

// NormalizeResponse carries canonical millimetres
type NormalizeResponse struct {
	WidthMM  int          `json:"width_mm"`
	HeightMM int          `json:"height_mm"`
	Width    measure.Pair `json:"width"`
	Height   measure.Pair `json:"height"`
}

// StepValidation is the body of POST /v1/steps/{step}/validate responses
type StepValidation struct {
	Step  wizard.StepID `json:"step"`
	Valid bool          `json:"valid"`
}

// PatchRequest is a partial session update
type PatchRequest struct {
	FrameColor           *string               `json:"frame_color,omitempty"`
	FabricType           *string               `json:"fabric_type,omitempty"`
	FabricColor          *string               `json:"fabric_color,omitempty"`
	MountType            *string               `json:"mount_type,omitempty"`
	Width                *measure.RawDimension `json:"width,omitempty"`
	Height               *measure.RawDimension `json:"height,omitempty"`
	MeasurementGuarantee *bool                 `json:"measurement_guarantee,omitempty"`
	ControlType          *string               `json:"control_type,omitempty"`
	AdditionalRemote     *bool                 `json:"additional_remote,omitempty"`
	SmartHubQuantity     *int                  `json:"smart_hub_quantity,omitempty"`
	WindowName           *string               `json:"window_name,omitempty"`
}

// Patch converts the request into a store patch
func (r PatchRequest) Patch() store.Patch {
	p := store.Patch{
		FrameColor:           r.FrameColor,
		FabricType:           r.FabricType,
		FabricColor:          r.FabricColor,
		MountType:            r.MountType,
		MeasurementGuarantee: r.MeasurementGuarantee,
		ControlType:          r.ControlType,
		AdditionalRemote:     r.AdditionalRemote,
		SmartHubQuantity:     r.SmartHubQuantity,
		WindowName:           r.WindowName,
	}
	if r.Width != nil {
		mm := r.Width.Millimetres()
		p.Width = &mm
	}
	if r.Height != nil {
		mm := r.Height.Millimetres()
		p.Height = &mm
	}
	return p
}

// Progress is the 1-based wizard position
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

// SessionResponse is the state of one configurator session
type SessionResponse struct {
	ID            string                 `json:"id"`
	Configuration types.Configuration    `json:"configuration"`
	CurrentStep   wizard.StepID          `json:"current_step"`
	Action        wizard.Action          `json:"action"`
	CanProceed    bool                   `json:"can_proceed"`
	IsFirst       bool                   `json:"is_first"`
	Progress      Progress               `json:"progress"`
	Steps         []engine.StepStatus    `json:"steps"`
	Breakdown     types.PricingBreakdown `json:"breakdown"`
	Moved         *bool                  `json:"moved,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	TouchedAt     time.Time              `json:"touched_at"`
}

// SubmitResponse reports a completed cart hand-off
type SubmitResponse struct {
	SessionID   string                 `json:"session_id"`
	Fingerprint string                 `json:"fingerprint"`
	SKU         string                 `json:"sku"`
	Breakdown   types.PricingBreakdown `json:"breakdown"`
	Cart        *cart.Result           `json:"cart"`
}
