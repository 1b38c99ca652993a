// Package store holds the shopper's configuration while they work through the
// wizard. Update operations enforce the cross-field invariants; pricing and
// validation read snapshots and never write back.
package store

import (
	"blind-configurator/core/measure"
	"blind-configurator/core/types"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	FrameColor           *string `json:"frame_color,omitempty"`
	FabricType           *string `json:"fabric_type,omitempty"`
	FabricColor          *string `json:"fabric_color,omitempty"`
	MountType            *string `json:"mount_type,omitempty"`
	Width                *int    `json:"width,omitempty"`
	Height               *int    `json:"height,omitempty"`
	MeasurementGuarantee *bool   `json:"measurement_guarantee,omitempty"`
	ControlType          *string `json:"control_type,omitempty"`
	AdditionalRemote     *bool   `json:"additional_remote,omitempty"`
	SmartHubQuantity     *int    `json:"smart_hub_quantity,omitempty"`
	WindowName           *string `json:"window_name,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Store is the single source of truth for one configurator session.
// It has one writer; callers needing concurrency wrap it (see Registry).
type Store struct {
	cfg types.Configuration
}

// New creates a store holding the session-start configuration
func New() *Store {
	return &Store{cfg: types.NewConfiguration()}
}

// NewFrom creates a store from an existing configuration, normalising it
func NewFrom(cfg types.Configuration) *Store {
	cfg.Width = measure.FromMillimetres(cfg.Width)
	cfg.Height = measure.FromMillimetres(cfg.Height)
	if cfg.SmartHubQuantity < 0 {
		cfg.SmartHubQuantity = 0
	}
	return &Store{cfg: cfg}
}

// Snapshot returns a copy of the current configuration
func (s *Store) Snapshot() types.Configuration {
	return s.cfg
}

// Apply merges a patch. Changing the fabric type clears the fabric colour
// unless the same patch picks a new one.
func (s *Store) Apply(p Patch) types.Configuration {
	if p.FabricType != nil {
		s.SetFabricType(*p.FabricType)
	}
	if p.FabricColor != nil {
		s.cfg.FabricColor = *p.FabricColor
	}
	if p.FrameColor != nil {
		s.cfg.FrameColor = *p.FrameColor
	}
	if p.MountType != nil {
		s.cfg.MountType = *p.MountType
	}
	if p.Width != nil {
		s.cfg.Width = measure.FromMillimetres(*p.Width)
	}
	if p.Height != nil {
		s.cfg.Height = measure.FromMillimetres(*p.Height)
	}
	if p.MeasurementGuarantee != nil {
		s.cfg.MeasurementGuarantee = *p.MeasurementGuarantee
	}
	if p.ControlType != nil {
		s.cfg.ControlType = *p.ControlType
	}
	if p.AdditionalRemote != nil {
		s.cfg.AdditionalRemote = *p.AdditionalRemote
	}
	if p.SmartHubQuantity != nil {
		s.SetSmartHubs(*p.SmartHubQuantity)
	}
	if p.WindowName != nil {
		s.cfg.WindowName = *p.WindowName
	}
	return s.cfg
}

// SetFabricType selects a fabric family and clears the colour if it changed
func (s *Store) SetFabricType(fabricType string) {
	if fabricType != s.cfg.FabricType {
		s.cfg.FabricColor = ""
	}
	s.cfg.FabricType = fabricType
}

// SetDimensions stores already-normalised millimetres
func (s *Store) SetDimensions(widthMM, heightMM int) {
	s.cfg.Width = measure.FromMillimetres(widthMM)
	s.cfg.Height = measure.FromMillimetres(heightMM)
}

// SetSmartHubs sets the hub count, clamping at zero
func (s *Store) SetSmartHubs(n int) {
	if n < 0 {
		n = 0
	}
	s.cfg.SmartHubQuantity = n
}

// IncrementSmartHubs adds one smart hub
func (s *Store) IncrementSmartHubs() int {
	s.SetSmartHubs(s.cfg.SmartHubQuantity + 1)
	return s.cfg.SmartHubQuantity
}

// DecrementSmartHubs removes one smart hub, never going below zero
func (s *Store) DecrementSmartHubs() int {
	s.SetSmartHubs(s.cfg.SmartHubQuantity - 1)
	return s.cfg.SmartHubQuantity
}
