package hamqtt

import (
	"errors"
	"net/url"

	"github.com/mfraser/hamqtt/discovery"
)

// ErrInvalidDevice is the error returned when rendering discovery documents for a Device that is missing its required
// fields. Home Assistant requires at least one identifier and a name.
var ErrInvalidDevice = errors.New("device must have a name and at least one identifier")

// Device identifies a logical Home Assistant device: a collection of entities that are grouped together in the device
// registry. A Device is created once by the caller and shared read-only by every Entity rendered for it.
//
// See https://www.home-assistant.io/integrations/mqtt/#device-registry
type Device struct {
	// The ID to use in discovery topics. If empty, an ID is calculated from the first identifier, falling back to a
	// slug of the name.
	DiscoveryID string `json:"-"`

	// A list of IDs that uniquely identify the device, for example a serial number. Required.
	Identifiers []string `json:"identifiers,omitempty"`

	// The name of the device. Required.
	Name string `json:"name,omitempty"`

	// The manufacturer of the device.
	Manufacturer string `json:"manufacturer,omitempty"`

	// The model of the device.
	Model string `json:"model,omitempty"`

	// The model identifier of the device.
	ModelID string `json:"model_id,omitempty"`

	// The serial number of the device.
	SerialNumber string `json:"serial_number,omitempty"`

	// The hardware version of the device.
	HardwareVersion string `json:"hw_version,omitempty"`

	// The firmware/software version of the device.
	SoftwareVersion string `json:"sw_version,omitempty"`

	// A link to the webpage that can manage the configuration of this device. Can be either a http://, https:// or an
	// internal homeassistant:// URL.
	ConfigurationURL *url.URL `json:"configuration_url,omitempty"`

	// Suggest an area if the device isn't in one yet.
	SuggestedArea string `json:"suggested_area,omitempty"`

	// Identifier of a device that routes messages between this device and Home Assistant, such as a hub or a parent
	// device. Used to show device topology in Home Assistant.
	ViaDevice string `json:"via_device,omitempty"`
}

// ID calculates the identifier used in discovery topics for this device. If DiscoveryID is specified, that value is
// used. Otherwise the first identifier is used (sanitized for MQTT topics, preserving case), falling back to a slug of
// the device name.
func (d *Device) ID() string {
	if d.DiscoveryID != "" {
		return d.DiscoveryID
	}

	if len(d.Identifiers) > 0 {
		return discovery.IDSanitizer.Replace(d.Identifiers[0])
	}

	if d.Name != "" {
		return discovery.ObjectID(d.Name)
	}

	return ""
}

// Valid checks if this Device is configured appropriately for discovery.
func (d *Device) Valid() error {
	if len(d.Identifiers) == 0 || d.Name == "" {
		return ErrInvalidDevice
	}

	return nil
}
