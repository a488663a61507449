package hamqtt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mfraser/hamqtt/hass"
)

// ErrInvalidEntity is wrapped by every *ValidationError so callers can detect entity validation failures with
// errors.Is.
var ErrInvalidEntity = errors.New("invalid entity configuration")

// Names of the Home Assistant-constrained entity fields, used as ExtraAllowed keys and in Violation.Field.
const (
	FieldDeviceClass      = "device_class"
	FieldStateClass       = "state_class"
	FieldEntityCategory   = "entity_category"
	FieldAvailabilityMode = "availability_mode"
)

// ExtraAllowed extends the built-in allowed sets for the constrained entity fields, keyed by field name. Use it to
// accept values newer than the sets shipped with this module without waiting for an update:
//
//	ExtraAllowed{FieldDeviceClass: {"blood_glucose_concentration"}}
type ExtraAllowed map[string][]string

func (x ExtraAllowed) permits(field, value string) bool {
	return slices.Contains(x[field], value)
}

// Violation records a single entity field whose value is outside the corresponding allowed set.
type Violation struct {
	UniqueID string
	Field    string
	Value    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %q is not an allowed value", v.UniqueID, v.Field, v.Value)
}

// ValidationError aggregates every Violation found across a set of entities. It is returned by the Builder render
// methods in strict mode; no documents are produced alongside it.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("entity validation errors:")

	for _, v := range e.Violations {
		sb.WriteString("\n- ")
		sb.WriteString(v.String())
	}

	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidEntity
}

// ValidateEntity checks the four Home Assistant-constrained fields of the entity (device_class, state_class,
// entity_category, availability_mode) against their built-in allowed sets, extended by extra. Unset fields are
// skipped. It never fails on its own; the caller decides whether violations are fatal (see Builder).
//
// device_class is checked against the sensor or binary_sensor set selected by the entity's component; other components
// accept values from either set, since this module does not model every platform's device classes.
func ValidateEntity(e *Entity, extra ExtraAllowed) []Violation {
	var violations []Violation

	record := func(field, value string) {
		violations = append(violations, Violation{UniqueID: e.UniqueID, Field: field, Value: value})
	}

	if v := e.DeviceClass; v != "" && !extra.permits(FieldDeviceClass, v) {
		switch e.Component {
		case ComponentSensor:
			if !hass.SensorDeviceClasses.Contains(v) {
				record(FieldDeviceClass, v)
			}
		case ComponentBinarySensor:
			if !hass.BinarySensorDeviceClasses.Contains(v) {
				record(FieldDeviceClass, v)
			}
		default:
			if !hass.SensorDeviceClasses.Contains(v) && !hass.BinarySensorDeviceClasses.Contains(v) {
				record(FieldDeviceClass, v)
			}
		}
	}

	if v := e.StateClass; v != "" && !hass.StateClasses.Contains(v) && !extra.permits(FieldStateClass, v) {
		record(FieldStateClass, v)
	}

	if v := e.EntityCategory; v != "" && !hass.EntityCategories.Contains(v) && !extra.permits(FieldEntityCategory, v) {
		record(FieldEntityCategory, v)
	}

	if v := e.AvailabilityMode; v != "" && !hass.AvailabilityModes.Contains(v) && !extra.permits(FieldAvailabilityMode, v) {
		record(FieldAvailabilityMode, v)
	}

	return violations
}
