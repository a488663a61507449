package discovery

import (
	"regexp"
	"strings"

	"github.com/mfraser/hamqtt/mqtt"
)

const (
	// DefaultPrefix is the MQTT Topic Prefix that Home Assistant looks for discovery payloads under.
	DefaultPrefix = "homeassistant"
	// StatusTopic is the MQTT Topic that Home Assistant publishes its own availability to, relative to the discovery
	// prefix.
	StatusTopic = "status"

	// ConfigSuffix is the final topic level of every discovery topic.
	ConfigSuffix = "config"
	// DeviceTopicComponent is the topic level used for device-based (bundle) discovery in place of a platform name.
	DeviceTopicComponent = "device"
)

// Top-level keys for device-based (bundle) discovery payloads.
const (
	FieldDevice     = "dev"
	FieldOrigin     = "o"
	FieldComponents = "cmps"
	FieldPlatform   = "p"
)

// IDSep is the separator used to separate various parts of a device ID. It is also used as a replacement for tokens
// that are not allowed in an ID string.
const IDSep = "__"

// IDSanitizer is a strings.Replacer that sanitizes a device ID for use in an MQTT Topic. Unlike ObjectID it preserves
// case, so device IDs remain recognizable in topics.
var IDSanitizer = strings.NewReplacer(
	" ", IDSep,
	":", IDSep,
	".", IDSep,
	"!", IDSep,
	"?", IDSep,
	"#", IDSep,
	"+", IDSep,
	mqtt.TopicSeparator, IDSep,
)

var objectIDInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// ObjectID derives a Home Assistant object id from an entity's unique id: lower-cased, with every run of
// non-alphanumeric characters collapsed to a single underscore. The result is deterministic, so repeated runs produce
// stable topic names and do not register duplicate entities. IDs that slug down to nothing yield "entity".
func ObjectID(uniqueID string) string {
	slug := strings.ToLower(strings.TrimSpace(uniqueID))
	slug = objectIDInvalid.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")

	if slug == "" {
		return "entity"
	}

	return slug
}

// ConfigTopic builds the entity-centric discovery topic
// {prefix}/{component}/{deviceID}/{objectID}/config.
func ConfigTopic(prefix, component, deviceID, objectID string) string {
	return mqtt.JoinTopic(prefix, component, deviceID, objectID, ConfigSuffix)
}

// BundleTopic builds the device-based discovery topic {prefix}/device/{deviceID}/config.
func BundleTopic(prefix, deviceID string) string {
	return mqtt.JoinTopic(prefix, DeviceTopicComponent, deviceID, ConfigSuffix)
}

// AvailabilityTopic returns the topic Home Assistant publishes its own availability to for the given discovery prefix.
// Subscribe to it to re-send discovery payloads when Home Assistant restarts.
//
// See https://www.home-assistant.io/integrations/mqtt/#birth-and-last-will-messages
func AvailabilityTopic(prefix string) string {
	return mqtt.JoinTopic(prefix, StatusTopic)
}
