package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfraser/hamqtt/mqtt"
)

func minimal() map[string]any {
	return map[string]any{
		"broker_url": "mqtt.example.com",
		"client_id":  "test-client",
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, warnings, err := Resolve(minimal())
	require.NoError(t, err)
	require.Empty(t, warnings)

	assert.Equal(t, "mqtt.example.com", cfg.BrokerURL)
	assert.Equal(t, 1883, cfg.BrokerPort)
	assert.Equal(t, "test-client", cfg.ClientID)
	assert.Equal(t, SecurityNone, cfg.Security)
	assert.Nil(t, cfg.Auth)
	assert.Nil(t, cfg.TLS)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, mqtt.QOSAtMostOnce, cfg.DefaultQoS)
	assert.False(t, cfg.DefaultRetain)
	assert.Nil(t, cfg.LastWill)
}

func TestResolveCoercion(t *testing.T) {
	t.Run("String Port", func(t *testing.T) {
		raw := minimal()
		raw["broker_port"] = "8884"

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		assert.Equal(t, 8884, cfg.BrokerPort)
	})

	t.Run("String QoS And Retries", func(t *testing.T) {
		raw := minimal()
		raw["default_qos"] = "2"
		raw["max_retries"] = "10"

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		assert.Equal(t, mqtt.QOSExactlyOnce, cfg.DefaultQoS)
		assert.Equal(t, 10, cfg.MaxRetries)
	})

	t.Run("String Retain", func(t *testing.T) {
		for _, v := range []string{"true", "TRUE", "1", "yes", "on"} {
			raw := minimal()
			raw["default_retain"] = v

			cfg, _, err := Resolve(raw)
			require.NoError(t, err, v)
			assert.True(t, cfg.DefaultRetain, v)
		}

		raw := minimal()
		raw["default_retain"] = "False"

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		assert.False(t, cfg.DefaultRetain)
	})

	t.Run("Bad Port String", func(t *testing.T) {
		raw := minimal()
		raw["broker_port"] = "not-a-port"

		_, _, err := Resolve(raw)
		require.ErrorIs(t, err, ErrInvalidConfiguration)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.True(t, cfgErr.Field("broker_port"))
	})

	t.Run("Bad Retain String", func(t *testing.T) {
		raw := minimal()
		raw["default_retain"] = "maybe"

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.True(t, cfgErr.Field("default_retain"))
	})
}

func TestResolvePortRange(t *testing.T) {
	for _, port := range []any{"70000", 70000, 0, -1} {
		raw := minimal()
		raw["broker_port"] = port

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr, "port %v", port)
		assert.True(t, cfgErr.Field("broker_port"), "port %v", port)
	}
}

func TestResolveRequiredFields(t *testing.T) {
	_, _, err := Resolve(map[string]any{})

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, cfgErr.Field("broker_url"))
	assert.True(t, cfgErr.Field("client_id"))
}

func TestResolveSecurity(t *testing.T) {
	t.Run("Unknown Mode", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "psk"

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.True(t, cfgErr.Field("security"))
	})

	t.Run("Username Requires Credentials", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "username"
		raw["auth"] = map[string]any{"username": "user"}

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.False(t, cfgErr.Field("auth.username"))
		assert.True(t, cfgErr.Field("auth.password"))
	})

	t.Run("Username OK", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "username"
		raw["auth"] = map[string]any{"username": "user", "password": "hunter2"}

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		require.NotNil(t, cfg.Auth)
		assert.Equal(t, "user", cfg.Auth.Username)
		assert.Equal(t, "hunter2", cfg.Auth.Password)
	})

	t.Run("Dotted Flat Keys", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "username"
		raw["auth.username"] = "user"
		raw["auth.password"] = "hunter2"

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		require.NotNil(t, cfg.Auth)
		assert.Equal(t, "user", cfg.Auth.Username)
	})

	t.Run("TLS Requires Block", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "tls"
		raw["auth"] = map[string]any{"username": "user", "password": "hunter2"}

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.True(t, cfgErr.Field("tls"))
	})

	t.Run("TLS OK", func(t *testing.T) {
		raw := minimal()
		raw["broker_port"] = 8883
		raw["security"] = "tls"
		raw["auth"] = map[string]any{"username": "user", "password": "hunter2"}
		raw["tls"] = map[string]any{"verify": "true", "ca_cert": "/etc/ssl/ca.pem"}

		cfg, warnings, err := Resolve(raw)
		require.NoError(t, err)
		require.Empty(t, warnings)
		require.NotNil(t, cfg.TLS)
		assert.True(t, cfg.TLS.Verify)
		assert.Equal(t, "/etc/ssl/ca.pem", cfg.TLS.CACert)
	})

	t.Run("Client Cert Requires Pair", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "tls_with_client_cert"
		raw["auth"] = map[string]any{"username": "user", "password": "hunter2"}
		raw["tls"] = map[string]any{"client_cert": "/etc/ssl/client.pem"}

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.False(t, cfgErr.Field("tls.client_cert"))
		assert.True(t, cfgErr.Field("tls.client_key"))
	})
}

func TestResolveAggregatesAllErrors(t *testing.T) {
	_, _, err := Resolve(map[string]any{
		"broker_port": "70000",
		"security":    "username",
		"default_qos": 9,
	})

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)

	for _, field := range []string{"broker_url", "broker_port", "client_id", "auth.username", "auth.password", "default_qos"} {
		assert.True(t, cfgErr.Field(field), field)
	}

	assert.Contains(t, err.Error(), "broker_port")
	assert.Contains(t, err.Error(), "auth.password")
}

func TestResolveWarnings(t *testing.T) {
	t.Run("TLS On Plain Port", func(t *testing.T) {
		raw := minimal()
		raw["security"] = "tls"
		raw["auth"] = map[string]any{"username": "user", "password": "hunter2"}
		raw["tls"] = map[string]any{"verify": true}

		cfg, warnings, err := Resolve(raw)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "8883")
	})

	t.Run("Plain On TLS Port", func(t *testing.T) {
		raw := minimal()
		raw["broker_port"] = 8883

		cfg, warnings, err := Resolve(raw)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "1883")
	})
}

func TestResolveLastWill(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		raw := minimal()
		raw["last_will"] = map[string]any{
			"topic":   "app/status",
			"payload": "offline",
			"qos":     "1",
			"retain":  "true",
		}

		cfg, _, err := Resolve(raw)
		require.NoError(t, err)
		require.NotNil(t, cfg.LastWill)
		assert.Equal(t, "app/status", cfg.LastWill.Topic)
		assert.Equal(t, "offline", cfg.LastWill.Payload)
		assert.Equal(t, mqtt.QOSAtLeastOnce, cfg.LastWill.QoS)
		assert.True(t, cfg.LastWill.Retain)
	})

	t.Run("Missing Topic", func(t *testing.T) {
		raw := minimal()
		raw["last_will"] = map[string]any{"payload": "offline"}

		_, _, err := Resolve(raw)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.True(t, cfgErr.Field("last_will.topic"))
	})
}
