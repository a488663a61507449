package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectID(t *testing.T) {
	for _, tt := range []struct {
		uniqueID string
		want     string
	}{
		{uniqueID: "temp-1", want: "temp_1"},
		{uniqueID: "Temp Sensor #2", want: "temp_sensor_2"},
		{uniqueID: "already_fine", want: "already_fine"},
		{uniqueID: "  padded  ", want: "padded"},
		{uniqueID: "UPPER.case", want: "upper_case"},
		{uniqueID: "a--b__c", want: "a_b_c"},
		{uniqueID: "---", want: "entity"},
		{uniqueID: "", want: "entity"},
	} {
		t.Run(tt.uniqueID, func(t *testing.T) {
			require.Equal(t, tt.want, ObjectID(tt.uniqueID))
		})
	}

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, ObjectID("temp-1"), ObjectID("temp-1"))
	})
}

func TestConfigTopic(t *testing.T) {
	require.Equal(
		t,
		"homeassistant/sensor/hub1/temp_1/config",
		ConfigTopic(DefaultPrefix, "sensor", "hub1", "temp_1"),
	)
}

func TestBundleTopic(t *testing.T) {
	require.Equal(t, "homeassistant/device/hub1/config", BundleTopic(DefaultPrefix, "hub1"))

	t.Run("Custom Prefix", func(t *testing.T) {
		require.Equal(t, "custom/device/hub1/config", BundleTopic("custom", "hub1"))
	})
}

func TestAvailabilityTopic(t *testing.T) {
	require.Equal(t, "homeassistant/status", AvailabilityTopic(DefaultPrefix))
}

func TestIDSanitizer(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{in: "hub1", want: "hub1"},
		{in: "Hub One", want: "Hub__One"},
		{in: "mac:02:5b", want: "mac__02__5b"},
		{in: "a/b", want: "a__b"},
	} {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, IDSanitizer.Replace(tt.in))
		})
	}
}
