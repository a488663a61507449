// Command thermostat announces a fake thermostat to Home Assistant over MQTT Discovery and publishes a few fake
// readings. Point it at a broker with a config file:
//
//	thermostat config.yaml
//
// See config.example.yaml for the expected shape.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/mfraser/hamqtt"
	"github.com/mfraser/hamqtt/config"
	hamqttlog "github.com/mfraser/hamqtt/log"
	"github.com/mfraser/hamqtt/mqtt"
	adapter "github.com/mfraser/hamqtt/mqtt/adapter/autopaho"
	"github.com/mfraser/hamqtt/state"
)

func main() {
	hamqttlog.To(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log := hamqttlog.ForComponent("example")

	if err := run(log); err != nil {
		log.With(hamqttlog.Error(err)).Error("exiting")
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	path := "config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, warnings, err := config.Load(path)
	if err != nil {
		return err
	}

	for _, w := range warnings {
		log.Warn(w)
	}

	w, disconnect, err := adapter.DialMQTT(ctx, cfg)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		log.Info("Disconnecting from mqtt")
		if err := disconnect(shutdownCtx); err != nil {
			log.With(hamqttlog.Error(err)).Error("Failed to disconnect from mqtt")
		}
	}()

	store, err := state.OpenBolt("discovery.db")
	if err != nil {
		return err
	}
	defer store.Close()

	device := &hamqtt.Device{
		Identifiers:  []string{"example-thermostat-1"},
		Name:         "Example Thermostat",
		Manufacturer: "hamqtt",
		Model:        "Thermostat Example",
	}

	tempTopic := mqtt.JoinTopic("hamqtt", "example", "thermostat", "temperature")
	humidityTopic := mqtt.JoinTopic("hamqtt", "example", "thermostat", "humidity")

	entities := []*hamqtt.Entity{
		{
			Component:         hamqtt.ComponentSensor,
			UniqueID:          "example-thermostat-1-temperature",
			Name:              "Temperature",
			StateTopic:        tempTopic,
			UnitOfMeasurement: "°C",
			DeviceClass:       "temperature",
			StateClass:        "measurement",
		},
		{
			Component:         hamqtt.ComponentSensor,
			UniqueID:          "example-thermostat-1-humidity",
			Name:              "Humidity",
			StateTopic:        humidityTopic,
			UnitOfMeasurement: "%",
			DeviceClass:       "humidity",
			StateClass:        "measurement",
		},
	}

	pub := hamqtt.NewPublisher(w)
	pub.Store = store

	published, skipped, err := pub.Publish(ctx, device, entities, hamqtt.ModeAll)
	if err != nil {
		return err
	}

	log.Info("Discovery ready", slog.Int("published", published), slog.Int("skipped", skipped))

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	temp, humidity := 21.5, 40.0
	for {
		if err := w.WriteTopic(ctx, tempTopic, cfg.WriteOptions(), fmt.Appendf(nil, "%.1f", temp)); err != nil {
			return err
		}

		if err := w.WriteTopic(ctx, humidityTopic, cfg.WriteOptions(), fmt.Appendf(nil, "%.1f", humidity)); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			log.Info("Goodbye!")
			return nil
		case <-ticker.C:
			temp += 0.1
			humidity += 0.5
		}
	}
}
