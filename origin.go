package hamqtt

import "net/url"

// Origin provides information about the software publishing devices over MQTT to Home Assistant. Home Assistant logs
// origin details in the core event log when an item is discovered or updated, and requires origin information for
// device-based discovery. Populate it from your application's metadata (name, version, support URL).
type Origin struct {
	// The name of the application that is the origin of the discovered MQTT item.
	Name string `json:"name"`
	// Software version of the application that supplies the discovered MQTT item.
	SoftwareVersion string `json:"sw,omitempty"`
	// Support URL of the application that supplies the discovered MQTT item.
	SupportURL *url.URL `json:"url,omitempty"`
}

var (
	hamqttSupportURL, _ = url.Parse("https://github.com/mfraser/hamqtt")

	// DefaultOrigin provides origin information to Home Assistant for applications that do not otherwise specify one.
	DefaultOrigin = Origin{
		Name:            "hamqtt",
		SoftwareVersion: "main",
		SupportURL:      hamqttSupportURL,
	}
)
