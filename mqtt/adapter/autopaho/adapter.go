// Package autopaho adapts an eclipse paho.golang autopaho connection to the mqtt.Writer interface, dialed from a
// resolved config.Config.
package autopaho

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/mfraser/hamqtt/config"
	hamqttlog "github.com/mfraser/hamqtt/log"
	"github.com/mfraser/hamqtt/mqtt"
)

const (
	keepAlive         = 30 * time.Second
	connectRetryDelay = 2 * time.Second
)

type adapter struct {
	conn *autopaho.ConnectionManager

	log *slog.Logger
}

var _ mqtt.Writer = &adapter{}

// DialMQTT connects to the broker described by cfg and returns a mqtt.Writer plus a disconnect function. The
// connection reconnects automatically; cfg.MaxRetries bounds how long the initial connection attempt is awaited.
func DialMQTT(ctx context.Context, cfg *config.Config) (mqtt.Writer, func(ctx context.Context) error, error) {
	a := &adapter{
		log: hamqttlog.ForComponent("autopaho"),
	}

	clientConfig, err := clientConfigFor(cfg)
	if err != nil {
		return nil, nil, err
	}

	a.log.Info("Connecting to mqtt broker")
	conn, err := autopaho.NewConnection(ctx, *clientConfig)
	if err != nil {
		return nil, nil, err
	}

	a.conn = conn

	// AwaitConnection blocks until ctx is done, so bound it by the configured retry budget.
	awaitCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.MaxRetries+1)*connectRetryDelay)
	defer cancel()

	a.log.Debug("Waiting for connection to be ready")
	if err = conn.AwaitConnection(awaitCtx); err != nil {
		_ = conn.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mqtt: wait for connection: %w", err)
	}

	a.log.Debug("Connected to mqtt broker")
	return a, conn.Disconnect, nil
}

func (a *adapter) WriteTopic(ctx context.Context, topic string, options mqtt.WriteOptions, value []byte) error {
	a.log.With(slog.String("topic", topic), slog.Any("options", options), slog.String("payload", string(value))).Debug("Publishing payload")

	_, err := a.conn.Publish(ctx, &paho.Publish{
		QoS:     uint8(options.QoS),
		Retain:  options.Retain,
		Topic:   topic,
		Payload: value,
	})

	return err
}

func clientConfigFor(cfg *config.Config) (*autopaho.ClientConfig, error) {
	serverURL, err := serverURL(cfg)
	if err != nil {
		return nil, err
	}

	clientConfig := &autopaho.ClientConfig{
		ServerUrls:        []*url.URL{serverURL},
		KeepAlive:         uint16(keepAlive.Seconds()),
		ConnectRetryDelay: connectRetryDelay,
		ClientConfig: paho.ClientConfig{
			ClientID: cfg.ClientID,
		},
	}

	if cfg.Auth != nil {
		clientConfig.ConnectUsername = cfg.Auth.Username
		clientConfig.ConnectPassword = []byte(cfg.Auth.Password)
	}

	if cfg.TLS != nil {
		tlsConfig, err := tlsConfigFor(cfg.TLS)
		if err != nil {
			return nil, err
		}

		clientConfig.TlsCfg = tlsConfig
	}

	if cfg.LastWill != nil {
		clientConfig.WillMessage = &paho.WillMessage{
			Topic:   cfg.LastWill.Topic,
			Payload: []byte(cfg.LastWill.Payload),
			QoS:     uint8(cfg.LastWill.QoS),
			Retain:  cfg.LastWill.Retain,
		}
	}

	return clientConfig, nil
}

// serverURL builds the broker URL to dial. BrokerURL may be a bare hostname or already carry a scheme; the port always
// comes from BrokerPort.
func serverURL(cfg *config.Config) (*url.URL, error) {
	scheme := "mqtt"
	if cfg.TLS != nil {
		scheme = "mqtts"
	}

	host := cfg.BrokerURL
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("mqtt: parse broker url %q: %w", host, err)
		}

		scheme = u.Scheme
		host = u.Hostname()
	}

	return url.Parse(fmt.Sprintf("%s://%s:%d", scheme, host, cfg.BrokerPort))
}

func tlsConfigFor(cfg *config.TLS) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !cfg.Verify,
	}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("mqtt: read ca certificate: %w", err)
		}

		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("mqtt: no certificates found in %s", cfg.CACert)
		}

		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCert != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("mqtt: load client certificate: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}
