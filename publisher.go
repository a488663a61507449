package hamqtt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfraser/hamqtt/discovery"
	"github.com/mfraser/hamqtt/log"
	"github.com/mfraser/hamqtt/mqtt"
	"github.com/mfraser/hamqtt/state"
)

// Publisher renders discovery documents with a Builder and writes them to MQTT. If a state.Store is configured, topics
// that were already recorded there are skipped, so a device is only announced once across restarts.
type Publisher struct {
	// Builder renders the documents. The zero value renders under the default prefix with strict validation.
	Builder Builder

	// Writer is the MQTT connection documents are written to. Required.
	Writer mqtt.Writer

	// Store, when non-nil, is consulted before each write and updated after. Nil publishes unconditionally.
	Store state.Store

	logger *slog.Logger
}

// NewPublisher constructs a Publisher writing through w. Configure the Builder and Store fields on the returned value
// as needed.
func NewPublisher(w mqtt.Writer) *Publisher {
	return &Publisher{
		Writer: w,
		logger: log.ForComponent("publisher"),
	}
}

func (p *Publisher) log() *slog.Logger {
	if p.logger == nil {
		p.logger = log.ForComponent("publisher")
	}

	return p.logger
}

// Publish renders the discovery documents for the device and entities in the given mode and writes each to its topic
// as a retained message. It returns how many documents were written and how many were skipped because the Store
// already recorded their topic.
//
// Documents are written in render order, so for ModeAll the device bundle goes out first.
func (p *Publisher) Publish(ctx context.Context, d *Device, entities []*Entity, mode Mode) (published, skipped int, err error) {
	docs, violations, err := p.Builder.Render(d, entities, mode)
	if err != nil {
		return 0, 0, err
	}

	for _, v := range violations {
		p.log().WarnContext(ctx, "publishing entity with out-of-set field value",
			slog.String("unique_id", v.UniqueID),
			slog.String("field", v.Field),
			slog.String("value", v.Value),
		)
	}

	for _, doc := range docs {
		if p.Store != nil {
			seen, err := p.Store.Published(doc.Topic)
			if err != nil {
				return published, skipped, fmt.Errorf("check published state for %s: %w", doc.Topic, err)
			}

			if seen {
				p.log().DebugContext(ctx, "skipping previously published document", slog.String("topic", doc.Topic))
				skipped++
				continue
			}
		}

		opts := mqtt.WriteOptions{QoS: mqtt.QOSAtLeastOnce, Retain: doc.Retain}
		if err := p.Writer.WriteTopic(ctx, doc.Topic, opts, doc.Payload); err != nil {
			return published, skipped, fmt.Errorf("publish discovery document to %s: %w", doc.Topic, err)
		}

		p.log().InfoContext(ctx, "published discovery document", slog.String("topic", doc.Topic))
		published++

		if p.Store != nil {
			if err := p.Store.MarkPublished(doc.Topic); err != nil {
				return published, skipped, fmt.Errorf("record published state for %s: %w", doc.Topic, err)
			}
		}
	}

	return published, skipped, nil
}

// Remove deletes the entity-centric discovery document for the entity by publishing an empty retained payload to its
// config topic. Home Assistant treats the empty payload as a removal. The topic is also forgotten in the Store so the
// entity can be re-announced later.
func (p *Publisher) Remove(ctx context.Context, d *Device, e *Entity) error {
	topic := discovery.ConfigTopic(p.Builder.prefix(), string(e.Component), d.ID(), e.objectID())

	opts := mqtt.WriteOptions{QoS: mqtt.QOSAtLeastOnce, Retain: true}
	if err := p.Writer.WriteTopic(ctx, topic, opts, nil); err != nil {
		return fmt.Errorf("remove discovery document at %s: %w", topic, err)
	}

	p.log().InfoContext(ctx, "removed discovery document", slog.String("topic", topic))

	if p.Store != nil {
		if err := p.Store.Forget(topic); err != nil {
			return fmt.Errorf("forget published state for %s: %w", topic, err)
		}
	}

	return nil
}

// RemoveBundle deletes the device bundle discovery document by publishing an empty retained payload to the bundle
// topic.
func (p *Publisher) RemoveBundle(ctx context.Context, d *Device) error {
	topic := discovery.BundleTopic(p.Builder.prefix(), d.ID())

	opts := mqtt.WriteOptions{QoS: mqtt.QOSAtLeastOnce, Retain: true}
	if err := p.Writer.WriteTopic(ctx, topic, opts, nil); err != nil {
		return fmt.Errorf("remove discovery document at %s: %w", topic, err)
	}

	p.log().InfoContext(ctx, "removed discovery document", slog.String("topic", topic))

	if p.Store != nil {
		if err := p.Store.Forget(topic); err != nil {
			return fmt.Errorf("forget published state for %s: %w", topic, err)
		}
	}

	return nil
}
