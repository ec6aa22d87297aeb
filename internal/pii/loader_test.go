package pii

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

func sampleCollection() *Collection {
	c := NewCollection(WithLang("en"), WithDocID("doc-1"), WithDate(testDate))
	d := testDetector()
	c.Add(entity(domain.PiiPerson, "Jane Doe", "1", 0), &d)
	c.Add(entity(domain.PiiGovID, "123-45-6789", "1.2", 12), &d)
	c.SetDecision(map[string]any{"weight": 0.5})
	return c
}

func writeCollection(t *testing.T, c *Collection, name, format string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Dump(&buf, format))
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		file   string
		format string
	}{
		{"pii.ndjson", DumpNDJSON},
		{"pii.jsonl", DumpJSONL},
		{"pii.json", DumpJSON},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			orig := sampleCollection()
			c, err := Load(writeCollection(t, orig, tt.file, tt.format))
			require.NoError(t, err)

			assert.Equal(t, 2, c.Len())
			assert.Equal(t, StageDecision, c.Stage())
			assert.Equal(t, orig.Detectors(), c.Detectors())

			h := c.Header()
			assert.Equal(t, "2024-03-01T12:00:00Z", h["date"])
			assert.Equal(t, "en", h["lang"])
			assert.Equal(t, map[string]any{"weight": 0.5}, h["decision"])

			var got []map[string]any
			for e := range c.Entities() {
				got = append(got, e.AsMap())
			}
			var want []map[string]any
			for e := range orig.Entities() {
				want = append(want, e.AsMap())
			}
			assert.Equal(t, want, got)

			// a reloaded detector is not registered twice
			d := testDetector()
			assert.Equal(t, 1, c.AddDetector(d))
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("collection.yaml")
	assert.ErrorIs(t, err, domain.ErrFile)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ndjson"))
	assert.ErrorIs(t, err, domain.ErrFile)
}

func TestLoadNDJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantLen int
	}{
		{
			name: "valid with blank lines",
			input: `{"format":"piisa:pii-collection:v1","detectors":{}}

{"type":"PERSON","value":"Ann","chunkid":"1","start":0}
`,
			wantLen: 1,
		},
		{
			name:    "wrong format",
			input:   `{"format":"piisa:src-document:v1"}`,
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "empty source",
			input:   "",
			wantErr: domain.ErrFile,
		},
		{
			name:    "bad json",
			input:   "{not json",
			wantErr: domain.ErrFile,
		},
		{
			name:    "bad detector index",
			input:   `{"format":"piisa:pii-collection:v1","detectors":{"x":{"source":"a","name":"b","version":"1"}}}`,
			wantErr: domain.ErrFile,
		},
		{
			name: "bad entity",
			input: `{"format":"piisa:pii-collection:v1"}
{"type":"SHOE_SIZE","value":"9","chunkid":"1","start":0}`,
			wantErr: domain.ErrFile,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadNDJSON(strings.NewReader(tt.input), "test")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, c.Len())
		})
	}
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat(map[string]any{"format": domain.FormatPiiCollection}, "src"))

	err := CheckFormat(map[string]any{"format": "other"}, "src")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Contains(t, err.Error(), `invalid format "other" found in src`)
}

func TestLoadJSON_NoMetadata(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"pii_list":[]}`), "test")
	assert.ErrorIs(t, err, domain.ErrFile)
}
