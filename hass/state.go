package hass

// PowerState represents generic on/off state for devices. This may or may not refer to physical power depending on the
// underlying entity (For example, a motion sensor may return PowerStateOn when motion is detected).
type PowerState string

const (
	PowerStateOn      PowerState = "ON"
	PowerStateOff     PowerState = "OFF"
	PowerStateUnknown PowerState = "None"
)

// StateClass values classify how Home Assistant records sensor history and statistics.
//
// See https://developers.home-assistant.io/docs/core/entity/sensor/#available-state-classes
const (
	// StateClassMeasurement indicates the state represents a measurement in present time, not a historical aggregation
	// such as statistics or a prediction of the future. Examples: current temperature, humidity or electric power.
	StateClassMeasurement = "measurement"

	// StateClassMeasurementAngle indicates the state represents a measurement in present time for angles measured in
	// degrees, such as current wind direction.
	StateClassMeasurementAngle = "measurement_angle"

	// StateClassTotal indicates the state represents a total amount that can both increase and decrease, e.g. a net
	// energy meter.
	StateClassTotal = "total"

	// StateClassTotalIncreasing indicates the state represents a monotonically increasing positive total which
	// periodically restarts counting from 0, e.g. a daily amount of consumed gas.
	StateClassTotalIncreasing = "total_increasing"
)

// StateClasses is the set of state_class values accepted by Home Assistant for sensors.
var StateClasses = NewSet(
	StateClassMeasurement,
	StateClassMeasurementAngle,
	StateClassTotal,
	StateClassTotalIncreasing,
)
