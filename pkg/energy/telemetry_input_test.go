package energy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw    string
		wantID uint
		wantOK bool
		errors bool
	}{
		{raw: `null`},
		{raw: `0`},
		{raw: `""`},
		{raw: `"  "`},
		{raw: `7`, wantID: 7, wantOK: true},
		{raw: `"7"`, wantID: 7, wantOK: true},
		{raw: `7.0`, wantID: 7, wantOK: true},
		{raw: `7e1`, wantID: 70, wantOK: true},
		{raw: `7.5`, errors: true},
		{raw: `-1`, errors: true},
		{raw: `"abc"`, errors: true},
		{raw: `true`, errors: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id Identifier
			err := json.Unmarshal([]byte(tt.raw), &id)
			if tt.errors {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			got, ok := id.Value()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestIdentifier_MissingKey(t *testing.T) {
	var input TelemetryInput
	require.NoError(t, json.Unmarshal([]byte(`{"temperature_c":1}`), &input))
	_, ok := input.ID.Value()
	assert.False(t, ok)
}

func TestDecodeTelemetryEntry_NotRecord(t *testing.T) {
	for _, raw := range []string{`1`, `"x"`, `[]`, `null`, `true`} {
		_, err := decodeTelemetryEntry(json.RawMessage(raw))
		assert.ErrorIs(t, err, errNotRecord, raw)
	}
}

func TestToModel_ConvertsTimesToUTC(t *testing.T) {
	var input TelemetryInput
	raw := `{"ts":"2024-06-01T12:00:00+03:00","merged_at":"2024-06-01T12:05:00+03:00"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &input))

	row, err := input.toModel(time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.UTC, row.Timestamp.Location())
	assert.Equal(t, 9, row.Timestamp.Hour())
	require.NotNil(t, row.MergedAt)
	assert.Equal(t, 9, row.MergedAt.Hour())
	assert.Nil(t, row.PushedAt)
}

func TestCanonicalJSON(t *testing.T) {
	out, err := canonicalJSON(json.RawMessage(` { "b" : 1e3, "a" : [ true , "&" ] } `))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,"&"],"b":1e3}`, string(out))

	out, err = canonicalJSON(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = canonicalJSON(json.RawMessage(`{"a":`))
	assert.Error(t, err)
}
