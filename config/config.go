// Package config normalizes loosely-typed MQTT publisher configuration (typically parsed from YAML with environment
// substitution already applied) into a strictly-typed Config. Values that arrive as strings for numeric or boolean
// fields are coerced; every violation is collected so a bad configuration can be fixed in one pass.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mfraser/hamqtt/mqtt"
)

// SecurityMode selects how the client authenticates with the broker.
type SecurityMode string

const (
	// SecurityNone connects without credentials or TLS.
	SecurityNone SecurityMode = "none"
	// SecurityUsername authenticates with a username and password over a plain connection.
	SecurityUsername SecurityMode = "username"
	// SecurityTLS authenticates with a username and password over TLS.
	SecurityTLS SecurityMode = "tls"
	// SecurityTLSClientCert authenticates with a TLS client certificate (plus username and password).
	SecurityTLSClientCert SecurityMode = "tls_with_client_cert"
)

func (s SecurityMode) valid() bool {
	switch s {
	case SecurityNone, SecurityUsername, SecurityTLS, SecurityTLSClientCert:
		return true
	default:
		return false
	}
}

func (s SecurityMode) requiresAuth() bool {
	return s.valid() && s != SecurityNone
}

func (s SecurityMode) requiresTLS() bool {
	return s == SecurityTLS || s == SecurityTLSClientCert
}

// Auth holds username/password credentials.
type Auth struct {
	Username string
	Password string
}

// TLS holds transport security settings. Paths are not opened during resolution; the transport adapter reads them when
// dialing.
type TLS struct {
	// CACert is the path to a PEM bundle used to verify the broker certificate. If empty, the system pool is used.
	CACert string
	// ClientCert and ClientKey are the paths to the client certificate pair, required for SecurityTLSClientCert.
	ClientCert string
	ClientKey  string
	// Verify controls broker certificate verification. Disable only for brokers with self-signed certificates that
	// cannot be added to CACert.
	Verify bool
}

// LastWill configures the message the broker publishes on behalf of the client after an unclean disconnect.
type LastWill struct {
	Topic   string
	Payload string
	QoS     mqtt.QualityOfService
	Retain  bool
}

// Config is the validated, immutable configuration consumed by the publishing wrapper. Construct one with Resolve or
// Load; never mutate it afterwards.
type Config struct {
	BrokerURL  string
	BrokerPort int
	ClientID   string
	Security   SecurityMode

	// Auth is non-nil whenever Security is not SecurityNone.
	Auth *Auth
	// TLS is non-nil whenever Security is SecurityTLS or SecurityTLSClientCert.
	TLS *TLS

	MaxRetries    int
	DefaultQoS    mqtt.QualityOfService
	DefaultRetain bool

	LastWill *LastWill
}

// WriteOptions returns the default mqtt.WriteOptions derived from DefaultQoS and DefaultRetain.
func (c *Config) WriteOptions() mqtt.WriteOptions {
	return mqtt.WriteOptions{QoS: c.DefaultQoS, Retain: c.DefaultRetain}
}

// Load reads a YAML configuration file, expands ${VAR} environment references, and resolves the result. If the file
// has a top-level "mqtt" section, that section is resolved; otherwise the whole document is treated as the mqtt
// configuration. The returned strings are advisory warnings, see Resolve.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if section, ok := raw["mqtt"].(map[string]any); ok {
		return Resolve(section)
	}

	return Resolve(raw)
}
