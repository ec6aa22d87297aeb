package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPiiType_String(t *testing.T) {
	assert.Equal(t, "CREDIT_CARD", PiiCreditCard.String())
	assert.Equal(t, "OTHER", PiiOther.String())
	assert.Equal(t, "LOCATION", PiiStreetAddress.String())
	assert.Equal(t, "PiiType(99)", PiiType(99).String())
	assert.False(t, PiiType(0).IsValid())
}

func TestParsePiiType(t *testing.T) {
	for pt := PiiCreditCard; pt <= PiiOther; pt++ {
		got, err := ParsePiiType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}

	got, err := ParsePiiType("STREET_ADDRESS")
	require.NoError(t, err)
	assert.Equal(t, PiiLocation, got)

	_, err = ParsePiiType("SHOE_SIZE")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPiiEntity_AsMap(t *testing.T) {
	e := NewPiiEntity(PiiInfo{Type: PiiPerson, Lang: "es"}, "Ñuño", "3", 10)
	e.SetField(PiiFieldDocID, "doc")

	assert.Equal(t, 4, e.Len())
	assert.Equal(t, map[string]any{
		"type":    "PERSON",
		"lang":    "es",
		"value":   "Ñuño",
		"chunkid": "3",
		"docid":   "doc",
		"start":   10,
		"end":     14,
	}, e.AsMap())
}

func TestPiiEntityFromMap_RoundTrip(t *testing.T) {
	e := NewPiiEntity(PiiInfo{Type: PiiGovID, Lang: "en", Country: "us", Subtype: "SSN"}, "123-45-6789", "1.2", 4)
	e.SetField(PiiFieldDetector, 1)
	e.SetField(PiiFieldExtra, map[string]any{"score": 0.9})

	got, err := PiiEntityFromMap(e.AsMap())
	require.NoError(t, err)
	assert.True(t, e.Equal(got))
	assert.Equal(t, e.Info, got.Info)
	assert.Equal(t, e.Fields, got.Fields)
}

func TestPiiEntityFromMap_JSONNumbers(t *testing.T) {
	got, err := PiiEntityFromMap(map[string]any{
		"type": "EMAIL_ADDRESS", "value": "a@b.c", "chunkid": float64(2),
		"start": float64(5), "end": float64(10), "detector": float64(1),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", got.ChunkID)
	assert.Equal(t, 5, got.Pos)
	assert.Equal(t, 1, got.Fields[PiiFieldDetector])
}

func TestPiiEntityFromMap_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"missing start", map[string]any{"type": "AGE", "value": "3", "chunkid": "1"}},
		{"unknown type", map[string]any{"type": "NOPE", "value": "3", "chunkid": "1", "start": 0}},
		{"bad start", map[string]any{"type": "AGE", "value": "3", "chunkid": "1", "start": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PiiEntityFromMap(tt.in)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestPiiEntity_AddProcessStage(t *testing.T) {
	e := NewPiiEntity(PiiInfo{Type: PiiAge}, "33", "1", 0)
	e.AddProcessStage("detection", map[string]any{"score": 1})
	e.AddProcessStage("decision", nil)

	assert.Equal(t, map[string]any{
		"stage":   "decision",
		"history": []any{map[string]any{"stage": "detection", "score": 1}},
	}, e.Fields[PiiFieldProcess])
}

func TestPiiEntity_Equal(t *testing.T) {
	a := NewPiiEntity(PiiInfo{Type: PiiAge, Lang: "en"}, "33", "1", 0)
	b := NewPiiEntity(PiiInfo{Type: PiiAge, Lang: "fr"}, "33", "1", 0)
	c := NewPiiEntity(PiiInfo{Type: PiiAge}, "33", "1", 1)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
