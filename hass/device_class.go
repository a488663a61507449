package hass

// SensorDeviceClasses is the set of device_class values accepted by Home Assistant for the sensor platform. These are
// not imported from Home Assistant; they mirror the HA docs to enable light validation while keeping runtime payloads
// as plain strings.
//
// See https://www.home-assistant.io/integrations/sensor/#device-class
var SensorDeviceClasses = NewSet(
	"apparent_power",
	"aqi",
	"atmospheric_pressure",
	"battery",
	"carbon_dioxide",
	"carbon_monoxide",
	"current",
	"data_rate",
	"data_size",
	"date",
	"distance",
	"duration",
	"energy",
	"energy_storage",
	"enum",
	"frequency",
	"gas",
	"humidity",
	"illuminance",
	"irradiance",
	"moisture",
	"monetary",
	"nitrogen_dioxide",
	"nitrogen_monoxide",
	"nitrous_oxide",
	"ozone",
	"ph",
	"pm1",
	"pm10",
	"pm25",
	"power",
	"power_factor",
	"precipitation",
	"precipitation_intensity",
	"pressure",
	"reactive_power",
	"signal_strength",
	"sound_pressure",
	"speed",
	"sulphur_dioxide",
	"temperature",
	"timestamp",
	"volatile_organic_compounds",
	"voltage",
	"volume",
	"volume_flow_rate",
	"volume_storage",
	"water",
	"weight",
	"wind_speed",
)

// BinarySensorDeviceClasses is the set of device_class values accepted by Home Assistant for the binary_sensor
// platform.
//
// See https://www.home-assistant.io/integrations/binary_sensor/#device-class
var BinarySensorDeviceClasses = NewSet(
	"battery",
	"battery_charging",
	"carbon_monoxide",
	"cold",
	"connectivity",
	"door",
	"garage_door",
	"gas",
	"heat",
	"light",
	"lock",
	"moisture",
	"motion",
	"moving",
	"occupancy",
	"opening",
	"plug",
	"power",
	"presence",
	"problem",
	"running",
	"safety",
	"smoke",
	"sound",
	"tamper",
	"update",
	"vibration",
	"window",
)
