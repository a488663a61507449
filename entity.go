package hamqtt

import (
	"github.com/mfraser/hamqtt/discovery"
	"github.com/mfraser/hamqtt/hass"
	"github.com/mfraser/hamqtt/mqtt"
)

// Component is the Home Assistant platform an Entity belongs to. Home Assistant adds new platforms over time, so
// unknown values are not rejected; the value is only used to pick per-component payload defaults and the discovery
// topic segment.
type Component string

const (
	ComponentSensor            Component = "sensor"
	ComponentBinarySensor      Component = "binary_sensor"
	ComponentSwitch            Component = "switch"
	ComponentLight             Component = "light"
	ComponentCover             Component = "cover"
	ComponentClimate           Component = "climate"
	ComponentFan               Component = "fan"
	ComponentLock              Component = "lock"
	ComponentNumber            Component = "number"
	ComponentSelect            Component = "select"
	ComponentText              Component = "text"
	ComponentButton            Component = "button"
	ComponentDeviceTracker     Component = "device_tracker"
	ComponentAlarmControlPanel Component = "alarm_control_panel"
	ComponentCamera            Component = "camera"
	ComponentVacuum            Component = "vacuum"
	ComponentScene             Component = "scene"
	ComponentSiren             Component = "siren"
)

// Entity describes one discoverable Home Assistant component. Rather than a type hierarchy per platform, an Entity is
// a single value with a Component tag; fields that do not apply to the entity's platform are simply left unset and
// omitted from the payload. Entities are immutable once passed to a Builder.
type Entity struct {
	// Component selects the Home Assistant platform (sensor, switch, light, ...).
	Component Component

	// UniqueID uniquely identifies this entity within its device. Required. The discovery object id is derived from
	// it deterministically, see discovery.ObjectID.
	UniqueID string

	// The name of the entity. Set to the empty string if only the device name is relevant.
	Name string

	// ObjectID overrides the object id derived from UniqueID. It is slugged the same way.
	ObjectID string

	// StateTopic is the topic the entity publishes state to. Required for sensor and binary_sensor.
	StateTopic string

	// CommandTopic is the topic Home Assistant publishes commands to. Required for button and scene.
	CommandTopic string

	// AvailabilityTopic, when set, identifies to Home Assistant whether this entity is available. PayloadAvailable and
	// PayloadNotAvailable default to hass.Available / hass.Unavailable.
	AvailabilityTopic   string
	AvailabilityMode    string
	PayloadAvailable    string
	PayloadNotAvailable string

	// ValueTemplate extracts the entity state from the payload on StateTopic.
	ValueTemplate string

	UnitOfMeasurement string
	DeviceClass       string
	StateClass        string
	EntityCategory    string

	// The Icon to use in the frontend for this entity, e.g. "mdi:thermometer".
	Icon string

	// EnabledByDefault controls whether the entity is enabled when first added. Home Assistant defaults this to true;
	// nil omits the field.
	EnabledByDefault *bool

	// Per-platform command/state payloads. For switch, light, and fan, PayloadOn/PayloadOff default to "ON"/"OFF";
	// for cover, PayloadOpen/PayloadClose/PayloadStop default to "OPEN"/"CLOSE"/"STOP"; for lock,
	// PayloadLock/PayloadUnlock default to "LOCK"/"UNLOCK".
	PayloadOn     string
	PayloadOff    string
	PayloadOpen   string
	PayloadClose  string
	PayloadStop   string
	PayloadLock   string
	PayloadUnlock string

	JSONAttributesTopic    string
	JSONAttributesTemplate string

	// QoS and Retain configure how Home Assistant interacts with this entity's topics. The zero values are omitted
	// from the payload (Home Assistant defaults to QoS 0, no retain).
	QoS    mqtt.QualityOfService
	Retain bool

	// Extra holds additional platform-specific fields to merge into the payload verbatim, for platforms whose fields
	// are not modeled above (e.g. "min"/"max" for number). Keys are rendered in sorted order.
	Extra map[string]any
}

// objectID returns the deterministic discovery object id for this entity.
func (e *Entity) objectID() string {
	if e.ObjectID != "" {
		return discovery.ObjectID(e.ObjectID)
	}

	return discovery.ObjectID(e.UniqueID)
}

type payloadDefault struct {
	key   string
	value string
}

// payloadDefaults returns the implicit command/state payload values for this entity's platform, with any explicit
// overrides applied.
func (e *Entity) payloadDefaults() []payloadDefault {
	or := func(v, def string) string {
		if v != "" {
			return v
		}

		return def
	}

	switch e.Component {
	case ComponentSwitch, ComponentLight, ComponentFan:
		return []payloadDefault{
			{key: "payload_on", value: or(e.PayloadOn, string(hass.PowerStateOn))},
			{key: "payload_off", value: or(e.PayloadOff, string(hass.PowerStateOff))},
		}
	case ComponentCover:
		return []payloadDefault{
			{key: "payload_open", value: or(e.PayloadOpen, "OPEN")},
			{key: "payload_close", value: or(e.PayloadClose, "CLOSE")},
			{key: "payload_stop", value: or(e.PayloadStop, "STOP")},
		}
	case ComponentLock:
		return []payloadDefault{
			{key: "payload_lock", value: or(e.PayloadLock, "LOCK")},
			{key: "payload_unlock", value: or(e.PayloadUnlock, "UNLOCK")},
		}
	default:
		var out []payloadDefault
		for _, d := range []payloadDefault{
			{key: "payload_on", value: e.PayloadOn},
			{key: "payload_off", value: e.PayloadOff},
		} {
			if d.value != "" {
				out = append(out, d)
			}
		}

		return out
	}
}
