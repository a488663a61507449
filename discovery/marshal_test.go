package discovery

import (
	"bytes"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturingEncoder() (*jsontext.Encoder, *bytes.Buffer) {
	b := &bytes.Buffer{}
	return jsontext.NewEncoder(b), b
}

func TestDefaultMarshalers(t *testing.T) {
	e, b := capturingEncoder()

	u, err := url.Parse("http://example.com")
	require.NoError(t, err)

	require.NoError(t, json.MarshalEncode(e, map[string]*url.URL{"sut": u}, json.WithMarshalers(Marshalers)))

	assert.Equal(t, `{"sut":"http://example.com"}`, strings.TrimSpace(b.String()))
}

func TestMarshalStdComparable(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		e, b := capturingEncoder()

		var v string

		require.ErrorIs(t, MarshalStdComparable("sut", e, "foo", v), ErrValueRequired)
		require.Empty(t, b.Bytes())
	})

	t.Run("Not Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MarshalStdComparable("sut", e, "foo", "bar"))
		require.EqualValues(t, "\"foo\"\n\"bar\"\n", b.String())
	})
}

func TestMaybeMarshalStdComparable(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", 0))
		require.Empty(t, b.Bytes())
	})

	t.Run("Not Default", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdComparable(e, "foo", 123))
		require.EqualValues(t, "\"foo\"\n123\n", b.String())
	})
}

func TestMaybeMarshalStdSlice(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdSlice[string](e, "foo", nil))
		require.Empty(t, b.Bytes())
	})

	t.Run("OK", func(t *testing.T) {
		e, b := capturingEncoder()

		require.NoError(t, MaybeMarshalStdSlice(e, "foo", []string{"a", "b"}))
		require.EqualValues(t, "\"foo\"\n[\"a\",\"b\"]\n", b.String())
	})
}
