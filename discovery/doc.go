// Package discovery contains constants and utilities for constructing Home Assistant MQTT Discovery topics and
// payloads. Entity-centric payloads use the full field names from the Home Assistant docs; the device bundle payload
// uses the abbreviated top-level keys (dev, o, cmps, p) that device-based discovery expects.
//
// See https://www.home-assistant.io/integrations/mqtt/#mqtt-discovery for the discovery protocol and
// https://www.home-assistant.io/integrations/mqtt/#supported-abbreviations-in-mqtt-discovery-messages for the
// abbreviations.
package discovery
