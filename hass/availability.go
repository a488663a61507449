package hass

// Availability exposes whether Home Assistant should consider a device or entity as "available" (aka it is online).
type Availability string

const (
	// Available is the Availability value for online/available devices.
	Available Availability = "online"
	// Unavailable is the Availability value for offline/unavailable devices.
	Unavailable Availability = "offline"
)

// Availability mode values control how Home Assistant combines multiple availability topics for a single entity.
//
// See https://www.home-assistant.io/integrations/mqtt/#availability
const (
	// AvailabilityModeAll marks the entity available only if all availability topics report available.
	AvailabilityModeAll = "all"
	// AvailabilityModeAny marks the entity available if any availability topic reports available.
	AvailabilityModeAny = "any"
	// AvailabilityModeLatest tracks the most recently received availability payload.
	AvailabilityModeLatest = "latest"
)

// AvailabilityModes is the set of availability_mode values accepted by Home Assistant.
var AvailabilityModes = NewSet(AvailabilityModeAll, AvailabilityModeAny, AvailabilityModeLatest)
