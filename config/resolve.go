package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mfraser/hamqtt/mqtt"
)

const maxInt = int(^uint(0) >> 1)

// ErrInvalidConfiguration is wrapped by every *Error returned from Resolve, so callers can check for configuration
// problems with errors.Is without inspecting individual fields.
var ErrInvalidConfiguration = errors.New("invalid mqtt configuration")

// FieldError describes a single problem with a raw configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// Error aggregates every field-level problem found while resolving a raw configuration. Fields are reported in the
// order the resolver checks them, so the message reads top-to-bottom like the configuration file.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("mqtt configuration errors:")

	for _, f := range e.Fields {
		sb.WriteString("\n- ")
		sb.WriteString(f.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return ErrInvalidConfiguration
}

// Field reports whether the error contains a problem for the named field.
func (e *Error) Field(name string) bool {
	for _, f := range e.Fields {
		if f.Field == name {
			return true
		}
	}

	return false
}

// raw wraps the incoming mapping to support both nested sections ({"auth": {"username": ...}}) and dotted flat keys
// ("auth.username"), since both shapes show up depending on how the caller loaded the file.
type raw map[string]any

func (r raw) get(path string) (any, bool) {
	if v, ok := r[path]; ok {
		return v, true
	}

	var cur any = map[string]any(r)
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}

		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}

	return cur, true
}

func (r raw) section(key string) (raw, bool, bool) {
	v, ok := r.get(key)
	if !ok || v == nil {
		return nil, false, true
	}

	m, ok := v.(map[string]any)
	if !ok {
		return nil, true, false
	}

	return m, true, true
}

// coerceInt converts integers arriving as native numbers or decimal strings (the usual result of environment
// substitution).
func coerceInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}

		return 0, false
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	default:
		return 0, false
	}
}

// coerceBool converts booleans arriving as native bools or common string spellings, case-insensitively.
func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on":
			return true, true
		case "false", "0", "no", "off":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func coerceString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

type resolver struct {
	raw      raw
	fields   []FieldError
	warnings []string
}

func (rv *resolver) errorf(field, format string, args ...any) {
	rv.fields = append(rv.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (rv *resolver) warnf(format string, args ...any) {
	rv.warnings = append(rv.warnings, fmt.Sprintf(format, args...))
}

// stringField returns the named field as a string. Required fields that are absent or empty record an error.
func (rv *resolver) stringField(field string, required bool) string {
	v, ok := rv.raw.get(field)
	if !ok || v == nil {
		if required {
			rv.errorf(field, "is required")
		}

		return ""
	}

	s, ok := coerceString(v)
	if !ok {
		rv.errorf(field, "must be a string, got %v", v)
		return ""
	}

	if required && s == "" {
		rv.errorf(field, "is required")
	}

	return s
}

// intField returns the named field coerced to an integer within [min, max], or def if absent.
func (rv *resolver) intField(field string, def, min, max int) int {
	v, ok := rv.raw.get(field)
	if !ok || v == nil {
		return def
	}

	i, ok := coerceInt(v)
	if !ok {
		rv.errorf(field, "must be an integer, got %v", v)
		return def
	}

	if i < min || i > max {
		if max == maxInt {
			rv.errorf(field, "must be at least %d, got %d", min, i)
		} else {
			rv.errorf(field, "must be between %d and %d, got %d", min, max, i)
		}

		return def
	}

	return i
}

// boolField returns the named field coerced to a boolean, or def if absent.
func (rv *resolver) boolField(field string, def bool) bool {
	v, ok := rv.raw.get(field)
	if !ok || v == nil {
		return def
	}

	b, ok := coerceBool(v)
	if !ok {
		rv.errorf(field, "must be a boolean, got %v", v)
		return def
	}

	return b
}

// Resolve validates and coerces a raw configuration mapping into a Config. All field errors are collected before
// failing so a configuration can be fixed in one pass; on failure the returned error is a *Error wrapping
// ErrInvalidConfiguration.
//
// The second return value carries advisory warnings (currently TLS/port convention mismatches) that do not fail
// resolution, since some brokers legitimately deviate from the 1883/8883 convention.
func Resolve(m map[string]any) (*Config, []string, error) {
	rv := &resolver{raw: m}

	cfg := &Config{
		BrokerURL:  rv.stringField("broker_url", true),
		BrokerPort: rv.intField("broker_port", 1883, 1, 65535),
		ClientID:   rv.stringField("client_id", true),
		Security:   SecurityNone,
	}

	if s := rv.stringField("security", false); s != "" {
		mode := SecurityMode(s)
		if !mode.valid() {
			rv.errorf("security", "must be one of none, username, tls, tls_with_client_cert, got %q", s)
		} else {
			cfg.Security = mode
		}
	}

	cfg.Auth = rv.resolveAuth(cfg.Security)
	cfg.TLS = rv.resolveTLS(cfg.Security)

	cfg.MaxRetries = rv.intField("max_retries", 3, 0, maxInt)
	cfg.DefaultQoS = mqtt.QualityOfService(rv.intField("default_qos", 0, 0, 2))
	cfg.DefaultRetain = rv.boolField("default_retain", false)
	cfg.LastWill = rv.resolveLastWill()

	// Advisory only. 1883/8883 is convention, not a rule.
	if cfg.TLS != nil && cfg.BrokerPort == 1883 {
		rv.warnf("TLS enabled but using non-TLS port 1883; consider port 8883 for TLS")
	}
	if cfg.TLS == nil && cfg.BrokerPort == 8883 {
		rv.warnf("TLS disabled but using TLS port 8883; consider port 1883 for non-TLS")
	}

	if len(rv.fields) > 0 {
		return nil, rv.warnings, &Error{Fields: rv.fields}
	}

	return cfg, rv.warnings, nil
}

func (rv *resolver) resolveAuth(mode SecurityMode) *Auth {
	username := rv.stringField("auth.username", false)
	password := rv.stringField("auth.password", false)

	if mode.requiresAuth() {
		if username == "" {
			rv.errorf("auth.username", "is required when security=%q", mode)
		}
		if password == "" {
			rv.errorf("auth.password", "is required when security=%q", mode)
		}
	}

	if username == "" && password == "" {
		return nil
	}

	return &Auth{Username: username, Password: password}
}

func (rv *resolver) resolveTLS(mode SecurityMode) *TLS {
	section, present, ok := rv.raw.section("tls")
	if !ok {
		rv.errorf("tls", "must be a mapping")
		return nil
	}

	if !present {
		if mode.requiresTLS() {
			rv.errorf("tls", "configuration is required when security=%q", mode)
		}

		return nil
	}

	sub := &resolver{raw: section}
	tls := &TLS{
		CACert:     sub.stringField("ca_cert", false),
		ClientCert: sub.stringField("client_cert", false),
		ClientKey:  sub.stringField("client_key", false),
		Verify:     sub.boolField("verify", true),
	}

	for _, f := range sub.fields {
		rv.errorf("tls."+f.Field, "%s", f.Message)
	}

	if mode == SecurityTLSClientCert {
		if tls.ClientCert == "" {
			rv.errorf("tls.client_cert", "is required when security=%q", mode)
		}
		if tls.ClientKey == "" {
			rv.errorf("tls.client_key", "is required when security=%q", mode)
		}
	}

	return tls
}

func (rv *resolver) resolveLastWill() *LastWill {
	section, present, ok := rv.raw.section("last_will")
	if !ok {
		rv.errorf("last_will", "must be a mapping")
		return nil
	}

	if !present {
		return nil
	}

	sub := &resolver{raw: section}
	lw := &LastWill{
		Topic:   sub.stringField("topic", true),
		Payload: sub.stringField("payload", false),
		QoS:     mqtt.QualityOfService(sub.intField("qos", 0, 0, 2)),
		Retain:  sub.boolField("retain", false),
	}

	for _, f := range sub.fields {
		rv.errorf("last_will."+f.Field, "%s", f.Message)
	}

	return lw
}
