package discovery

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"fmt"
	"net/url"
)

// ErrValueRequired is the error returned by MarshalStdComparable for values that hold the type's associated zero value
// when marshaling a discovery payload.
var ErrValueRequired = errors.New("value is required")

// Marshalers contains json.Marshalers for types from the standard library to make them conform to the Home Assistant
// MQTT Device Discovery schema (e.g. render URLs as strings).
var Marshalers = json.JoinMarshalers(
	json.MarshalToFunc[*url.URL](func(e *jsontext.Encoder, u *url.URL) error {
		return e.WriteToken(jsontext.String(u.String()))
	}),
)

// MarshalStdComparable marshals the provided value using Marshalers. If it is equal to the type's zero value, it
// returns ErrValueRequired.
func MarshalStdComparable[T comparable](name string, e *jsontext.Encoder, k string, v T) error {
	var defaultT T
	if v == defaultT {
		return fmt.Errorf("%s: %w", name, ErrValueRequired)
	}

	return MaybeMarshalStd(e, k, &v)
}

// MaybeMarshalStdComparable marshals the provided value using Marshalers if it is not equal to the type's zero value.
func MaybeMarshalStdComparable[T comparable](e *jsontext.Encoder, k string, v T) error {
	var defaultT T
	if v == defaultT {
		return nil
	}

	return MaybeMarshalStd(e, k, &v)
}

// MaybeMarshalStd marshals the provided value using json.MarshalEncode with Marshalers if it is not nil.
func MaybeMarshalStd[T any](e *jsontext.Encoder, k string, v *T) error {
	if v == nil {
		return nil
	}

	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		json.MarshalEncode(e, v, json.WithMarshalers(Marshalers)),
	)
}

// MaybeMarshalStdSlice marshals the provided slice of values using json.MarshalEncode with Marshalers if it is not
// empty.
func MaybeMarshalStdSlice[T any](e *jsontext.Encoder, k string, v []T) error {
	if len(v) == 0 {
		return nil
	}

	return errors.Join(
		e.WriteToken(jsontext.String(k)),
		json.MarshalEncode(e, v, json.WithMarshalers(Marshalers)),
	)
}
