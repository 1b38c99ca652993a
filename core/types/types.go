// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// ControlMotorised is the control type that carries the motor surcharge
const ControlMotorised = "motorised"

// ControlManual is the cord/chain control type
const ControlManual = "manual"

// Configuration is the full set of shopper selections for one blind.
// Empty strings mean "not selected yet".
type Configuration struct {
	// FrameColor is the selected frame colour id
	FrameColor string `json:"frame_color" yaml:"frame_color"`

	// FabricType is the selected fabric family id
	FabricType string `json:"fabric_type" yaml:"fabric_type"`

	// FabricColor is the selected fabric colour id (belongs to FabricType)
	FabricColor string `json:"fabric_color" yaml:"fabric_color"`

	// MountType is inside or outside mount
	MountType string `json:"mount_type" yaml:"mount_type"`

	// Width is the canonical width in millimetres
	Width int `json:"width" yaml:"width"`

	// Height is the canonical height in millimetres
	Height int `json:"height" yaml:"height"`

	// MeasurementGuarantee adds the measure guarantee surcharge
	MeasurementGuarantee bool `json:"measurement_guarantee" yaml:"measurement_guarantee"`

	// ControlType is manual or motorised
	ControlType string `json:"control_type" yaml:"control_type"`

	// AdditionalRemote adds a second remote
	AdditionalRemote bool `json:"additional_remote" yaml:"additional_remote"`

	// SmartHubQuantity is the number of smart hubs, never negative
	SmartHubQuantity int `json:"smart_hub_quantity" yaml:"smart_hub_quantity"`

	// WindowName labels the blind on the order
	WindowName string `json:"window_name" yaml:"window_name"`
}

// NewConfiguration returns the configuration a session starts with.
// Motorised is the default control type.
func NewConfiguration() Configuration {
	return Configuration{
		ControlType: ControlMotorised,
	}
}

// IsMotorised reports whether the motorised control is selected
func (c Configuration) IsMotorised() bool {
	return c.ControlType == ControlMotorised
}
