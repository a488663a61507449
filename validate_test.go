package hamqtt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfraser/hamqtt"
)

func TestValidateEntity(t *testing.T) {
	t.Run("AllFieldsValid", func(t *testing.T) {
		e := &hamqtt.Entity{
			Component:         hamqtt.ComponentSensor,
			UniqueID:          "temp-1",
			StateTopic:        "h/t",
			DeviceClass:       "temperature",
			StateClass:        "measurement",
			EntityCategory:    "diagnostic",
			AvailabilityMode:  "all",
			AvailabilityTopic: "h/avail",
		}

		assert.Empty(t, hamqtt.ValidateEntity(e, nil))
	})

	t.Run("UnsetFieldsSkipped", func(t *testing.T) {
		e := &hamqtt.Entity{Component: hamqtt.ComponentSensor, UniqueID: "temp-1", StateTopic: "h/t"}

		assert.Empty(t, hamqtt.ValidateEntity(e, nil))
	})

	t.Run("SensorDeviceClassChecked", func(t *testing.T) {
		e := &hamqtt.Entity{
			Component:   hamqtt.ComponentSensor,
			UniqueID:    "temp-1",
			StateTopic:  "h/t",
			DeviceClass: "motion",
		}

		violations := hamqtt.ValidateEntity(e, nil)
		require.Len(t, violations, 1)
		assert.Equal(t, hamqtt.Violation{UniqueID: "temp-1", Field: hamqtt.FieldDeviceClass, Value: "motion"}, violations[0])
	})

	t.Run("BinarySensorDeviceClassChecked", func(t *testing.T) {
		ok := &hamqtt.Entity{
			Component:   hamqtt.ComponentBinarySensor,
			UniqueID:    "pir-1",
			StateTopic:  "h/p",
			DeviceClass: "motion",
		}
		assert.Empty(t, hamqtt.ValidateEntity(ok, nil))

		bad := &hamqtt.Entity{
			Component:   hamqtt.ComponentBinarySensor,
			UniqueID:    "pir-1",
			StateTopic:  "h/p",
			DeviceClass: "temperature",
		}
		assert.Len(t, hamqtt.ValidateEntity(bad, nil), 1)
	})

	t.Run("OtherComponentsAcceptEitherSet", func(t *testing.T) {
		e := &hamqtt.Entity{Component: hamqtt.ComponentCover, UniqueID: "door-1", DeviceClass: "door"}

		assert.Empty(t, hamqtt.ValidateEntity(e, nil))
	})

	t.Run("MultipleViolations", func(t *testing.T) {
		e := &hamqtt.Entity{
			Component:        hamqtt.ComponentSensor,
			UniqueID:         "temp-1",
			StateTopic:       "h/t",
			DeviceClass:      "bogus",
			StateClass:       "bogus",
			EntityCategory:   "bogus",
			AvailabilityMode: "bogus",
		}

		violations := hamqtt.ValidateEntity(e, nil)
		require.Len(t, violations, 4)

		fields := make([]string, 0, len(violations))
		for _, v := range violations {
			fields = append(fields, v.Field)
		}

		assert.ElementsMatch(t, []string{
			hamqtt.FieldDeviceClass,
			hamqtt.FieldStateClass,
			hamqtt.FieldEntityCategory,
			hamqtt.FieldAvailabilityMode,
		}, fields)
	})

	t.Run("ExtraAllowedPermits", func(t *testing.T) {
		e := &hamqtt.Entity{
			Component:   hamqtt.ComponentSensor,
			UniqueID:    "glucose-1",
			StateTopic:  "h/g",
			DeviceClass: "blood_glucose_concentration",
		}

		assert.Len(t, hamqtt.ValidateEntity(e, nil), 1)

		extra := hamqtt.ExtraAllowed{hamqtt.FieldDeviceClass: {"blood_glucose_concentration"}}
		assert.Empty(t, hamqtt.ValidateEntity(e, extra))
	})

	t.Run("ExtraAllowedScopedToField", func(t *testing.T) {
		e := &hamqtt.Entity{
			Component:  hamqtt.ComponentSensor,
			UniqueID:   "temp-1",
			StateTopic: "h/t",
			StateClass: "blood_glucose_concentration",
		}

		extra := hamqtt.ExtraAllowed{hamqtt.FieldDeviceClass: {"blood_glucose_concentration"}}
		assert.Len(t, hamqtt.ValidateEntity(e, extra), 1)
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &hamqtt.ValidationError{Violations: []hamqtt.Violation{
		{UniqueID: "temp-1", Field: hamqtt.FieldDeviceClass, Value: "bogus"},
		{UniqueID: "temp-1", Field: hamqtt.FieldStateClass, Value: "weird"},
	}}

	assert.ErrorIs(t, err, hamqtt.ErrInvalidEntity)
	assert.Equal(t, "entity validation errors:\n- temp-1: device_class \"bogus\" is not an allowed value\n- temp-1: state_class \"weird\" is not an allowed value", err.Error())
}
