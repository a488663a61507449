package hamqtt

import (
	"bytes"
	"cmp"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/mfraser/hamqtt/discovery"
	"github.com/mfraser/hamqtt/hass"
)

var (
	// ErrComponentRequired is the error returned when rendering an Entity with no Component.
	ErrComponentRequired = errors.New("component is required")
	// ErrUniqueIDRequired is the error returned when rendering an Entity with no UniqueID.
	ErrUniqueIDRequired = errors.New("unique id is required")
	// ErrStateTopicRequired is the error returned when rendering a sensor or binary_sensor with no StateTopic.
	ErrStateTopicRequired = errors.New("state topic is required")
	// ErrCommandTopicRequired is the error returned when rendering a button or scene with no CommandTopic.
	ErrCommandTopicRequired = errors.New("command topic is required")
)

// Document is one renderable discovery unit: a fully-serialized JSON payload and the topic it belongs on. Hand the
// payload to a mqtt.Writer with Retain to register the device/entity with Home Assistant.
type Document struct {
	Topic   string
	Payload []byte
	Retain  bool
}

// Mode selects which discovery layout(s) Render produces. Which layout to publish is a deliberate caller decision:
// older Home Assistant versions only understand the entity-centric layout, modern versions prefer the device bundle.
type Mode uint8

const (
	// ModeEntities renders one document per entity.
	ModeEntities Mode = iota
	// ModeBundle renders a single device bundle document.
	ModeBundle
	// ModeAll renders both layouts, bundle first. Publishing the smaller bundle message first reduces races during
	// startup on broker/HA combinations that process it faster.
	ModeAll
)

// Builder renders Home Assistant MQTT Discovery documents for one Device and a set of Entities. The zero value is
// usable: it renders under discovery.DefaultPrefix with strict validation.
//
// Builders hold no state between calls; concurrent use with distinct inputs is safe.
type Builder struct {
	// DiscoveryPrefix is the topic prefix Home Assistant watches for discovery payloads. Defaults to
	// discovery.DefaultPrefix when empty.
	DiscoveryPrefix string

	// Permissive disables strict validation. In strict mode (the default) any Violation fails the render with a
	// *ValidationError and no documents, so a half-valid device is never published. In permissive mode violations are
	// returned alongside the documents for the caller to surface.
	Permissive bool

	// Extra extends the built-in allowed sets consulted by ValidateEntity.
	Extra ExtraAllowed

	// Origin identifies the publishing application in device bundle payloads. DefaultOrigin when nil.
	Origin *Origin
}

func (b *Builder) prefix() string {
	return cmp.Or(b.DiscoveryPrefix, discovery.DefaultPrefix)
}

// RenderEntities renders one Document per entity at {prefix}/{component}/{deviceID}/{objectID}/config. Entities are
// rendered in the order supplied by the caller.
func (b *Builder) RenderEntities(d *Device, entities []*Entity) ([]Document, []Violation, error) {
	return b.Render(d, entities, ModeEntities)
}

// RenderBundle renders a single device bundle Document at {prefix}/device/{deviceID}/config. The payload carries the
// device block under "dev", the origin under "o", and every entity keyed by its unique id under "cmps". If deviceID is
// empty, Device.ID is used.
func (b *Builder) RenderBundle(d *Device, entities []*Entity, deviceID string) (Document, []Violation, error) {
	violations, err := b.check(d, entities)
	if err != nil {
		return Document{}, nil, err
	}

	if len(violations) > 0 && !b.Permissive {
		return Document{}, violations, &ValidationError{Violations: violations}
	}

	doc, err := b.bundleDoc(d, entities, deviceID)
	if err != nil {
		return Document{}, violations, err
	}

	return doc, violations, nil
}

// Render renders the documents selected by mode. For ModeAll, the bundle document is always first in the returned
// slice. In strict mode any validation Violation fails the whole render; see Builder.Permissive.
func (b *Builder) Render(d *Device, entities []*Entity, mode Mode) ([]Document, []Violation, error) {
	violations, err := b.check(d, entities)
	if err != nil {
		return nil, nil, err
	}

	if len(violations) > 0 && !b.Permissive {
		return nil, violations, &ValidationError{Violations: violations}
	}

	var docs []Document

	if mode == ModeBundle || mode == ModeAll {
		doc, err := b.bundleDoc(d, entities, "")
		if err != nil {
			return nil, violations, err
		}

		docs = append(docs, doc)
	}

	if mode == ModeEntities || mode == ModeAll {
		deviceID := d.ID()
		for _, e := range entities {
			payload, err := b.entityPayload(d, e)
			if err != nil {
				return nil, violations, fmt.Errorf("render %s: %w", e.UniqueID, err)
			}

			docs = append(docs, Document{
				Topic:   discovery.ConfigTopic(b.prefix(), string(e.Component), deviceID, e.objectID()),
				Payload: payload,
				Retain:  true,
			})
		}
	}

	return docs, violations, nil
}

// check validates the device and the structural requirements of every entity, then collects enum violations across the
// whole set so they can be reported in one pass.
func (b *Builder) check(d *Device, entities []*Entity) ([]Violation, error) {
	if err := d.Valid(); err != nil {
		return nil, err
	}

	var violations []Violation
	for i, e := range entities {
		if e.Component == "" {
			return nil, fmt.Errorf("entity %d: %w", i, ErrComponentRequired)
		}

		if e.UniqueID == "" {
			return nil, fmt.Errorf("entity %d: %w", i, ErrUniqueIDRequired)
		}

		if err := requiredTopics(e); err != nil {
			return nil, err
		}

		violations = append(violations, ValidateEntity(e, b.Extra)...)
	}

	return violations, nil
}

func requiredTopics(e *Entity) error {
	switch e.Component {
	case ComponentSensor, ComponentBinarySensor:
		if e.StateTopic == "" {
			return fmt.Errorf("%s: %w", e.UniqueID, ErrStateTopicRequired)
		}
	case ComponentButton, ComponentScene:
		if e.CommandTopic == "" {
			return fmt.Errorf("%s: %w", e.UniqueID, ErrCommandTopicRequired)
		}
	}

	return nil
}

func (b *Builder) entityPayload(d *Device, e *Entity) ([]byte, error) {
	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)

	err := errors.Join(
		enc.WriteToken(jsontext.BeginObject),

		discovery.MaybeMarshalStdComparable(enc, "name", e.Name),
		discovery.MarshalStdComparable("unique_id", enc, "unique_id", e.UniqueID),
		discovery.MaybeMarshalStdComparable(enc, "object_id", e.objectID()),
		discovery.MaybeMarshalStd(enc, "device", d),

		b.writeEntityFields(enc, e),

		enc.WriteToken(jsontext.EndObject),
	)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (b *Builder) bundleDoc(d *Device, entities []*Entity, deviceID string) (Document, error) {
	if deviceID == "" {
		deviceID = d.ID()
	}

	var buf bytes.Buffer
	enc := jsontext.NewEncoder(&buf)

	errs := []error{
		enc.WriteToken(jsontext.BeginObject),
		discovery.MaybeMarshalStd(enc, discovery.FieldDevice, d),
		discovery.MaybeMarshalStd(enc, discovery.FieldOrigin, cmp.Or(b.Origin, &DefaultOrigin)),
		enc.WriteToken(jsontext.String(discovery.FieldComponents)),
		enc.WriteToken(jsontext.BeginObject),
	}

	for _, e := range entities {
		errs = append(errs,
			enc.WriteToken(jsontext.String(e.UniqueID)),
			enc.WriteToken(jsontext.BeginObject),
			discovery.MarshalStdComparable("platform", enc, discovery.FieldPlatform, string(e.Component)),
			discovery.MaybeMarshalStdComparable(enc, "name", e.Name),
			discovery.MarshalStdComparable("unique_id", enc, "unique_id", e.UniqueID),
			b.writeEntityFields(enc, e),
			enc.WriteToken(jsontext.EndObject),
		)
	}

	errs = append(errs,
		enc.WriteToken(jsontext.EndObject),
		enc.WriteToken(jsontext.EndObject),
	)

	if err := errors.Join(errs...); err != nil {
		return Document{}, fmt.Errorf("render bundle for %s: %w", deviceID, err)
	}

	return Document{
		Topic:   discovery.BundleTopic(b.prefix(), deviceID),
		Payload: buf.Bytes(),
		Retain:  true,
	}, nil
}

// writeEntityFields writes the fields shared by the entity-centric and bundle component payloads. Unset optional
// fields are omitted entirely; the payload never contains nulls.
func (b *Builder) writeEntityFields(enc *jsontext.Encoder, e *Entity) error {
	errs := []error{
		discovery.MaybeMarshalStdComparable(enc, "state_topic", e.StateTopic),
		discovery.MaybeMarshalStdComparable(enc, "command_topic", e.CommandTopic),
		discovery.MaybeMarshalStdComparable(enc, "availability_topic", e.AvailabilityTopic),
		discovery.MaybeMarshalStdComparable(enc, "availability_mode", e.AvailabilityMode),
	}

	if e.AvailabilityTopic != "" {
		errs = append(errs,
			discovery.MaybeMarshalStdComparable(enc, "payload_available", cmp.Or(e.PayloadAvailable, string(hass.Available))),
			discovery.MaybeMarshalStdComparable(enc, "payload_not_available", cmp.Or(e.PayloadNotAvailable, string(hass.Unavailable))),
		)
	}

	errs = append(errs,
		discovery.MaybeMarshalStdComparable(enc, "value_template", e.ValueTemplate),
		discovery.MaybeMarshalStdComparable(enc, "unit_of_measurement", e.UnitOfMeasurement),
		discovery.MaybeMarshalStdComparable(enc, "device_class", e.DeviceClass),
		discovery.MaybeMarshalStdComparable(enc, "state_class", e.StateClass),
		discovery.MaybeMarshalStdComparable(enc, "entity_category", e.EntityCategory),
		discovery.MaybeMarshalStdComparable(enc, "icon", e.Icon),
		discovery.MaybeMarshalStd(enc, "enabled_by_default", e.EnabledByDefault),
		discovery.MaybeMarshalStdComparable(enc, "json_attributes_topic", e.JSONAttributesTopic),
		discovery.MaybeMarshalStdComparable(enc, "json_attributes_template", e.JSONAttributesTemplate),
	)

	for _, dflt := range e.payloadDefaults() {
		errs = append(errs, discovery.MaybeMarshalStdComparable(enc, dflt.key, dflt.value))
	}

	errs = append(errs,
		discovery.MaybeMarshalStdComparable(enc, "qos", e.QoS),
		discovery.MaybeMarshalStdComparable(enc, "retain", e.Retain),
		writeExtras(enc, e.Extra),
	)

	return errors.Join(errs...)
}

// writeExtras writes caller-supplied extra fields in sorted key order so payloads stay deterministic.
func writeExtras(enc *jsontext.Encoder, extra map[string]any) error {
	if len(extra) == 0 {
		return nil
	}

	var errs []error
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		errs = append(errs,
			enc.WriteToken(jsontext.String(k)),
			json.MarshalEncode(enc, extra[k], json.WithMarshalers(discovery.Marshalers)),
		)
	}

	return errors.Join(errs...)
}
