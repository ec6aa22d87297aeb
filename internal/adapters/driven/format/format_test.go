package format

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/document"
	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

const treeYAML = `format: piisa:src-document:v1
header:
  dataset:
    name: sample
  document:
    id: doc-tree
    main_lang: en
    type: tree
chunks:
  - id: "1"
    data: |-
      Chapter one
    context:
      tag: intro
    chunks:
      - id: "1.1"
        data: |-
          First line
          Second line
      - id: "1.2"
        data: |-
          Another
  - id: "2"
    data: |-
      Chapter two
`

func sampleDocs(t *testing.T) map[string]*document.Document {
	t.Helper()
	meta := func(id string) document.Option {
		return document.WithMetadata(domain.Metadata{"document": {"id": id, "main_lang": "en"}})
	}
	seq, err := document.FromValues(domain.DocumentSequence, []any{
		"first chunk",
		map[string]any{"data": "second\nchunk", "context": map[string]any{"lang": "fr"}},
		map[string]any{"id": "x", "data": "third"},
	}, meta("doc-seq"))
	require.NoError(t, err)

	tree, err := document.FromValues(domain.DocumentTree, []any{
		map[string]any{"data": "A", "chunks": []any{"B", map[string]any{"data": "C"}}},
		"D",
	}, meta("doc-tree"))
	require.NoError(t, err)

	table, err := document.FromValues(domain.DocumentTable, []any{
		[]any{"a", "b", 3},
		map[string]any{"id": "r2", "data": []any{"d", "e", "f"}},
	}, meta("doc-table"), document.WithMetadata(domain.Metadata{"column": {"name": []any{"x", "y", "z"}}}))
	require.NoError(t, err)

	return map[string]*document.Document{"sequence": seq, "tree": tree, "table": table}
}

func encode(t *testing.T, enc driven.Encoder, doc domain.SourceDocument, opts driven.EncodeOptions) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, doc, opts))
	return buf.String()
}

func TestRoundTrip(t *testing.T) {
	loader := NewLoader(WithValidation(true))

	for name, doc := range sampleDocs(t) {
		for _, ext := range []string{".yaml", ".json"} {
			t.Run(name+ext, func(t *testing.T) {
				enc, err := EncoderFor("", "out"+ext)
				require.NoError(t, err)

				first := encode(t, enc, doc, driven.EncodeOptions{})
				loaded, err := loader.Load(strings.NewReader(first), "in"+ext, driven.LoadOptions{})
				require.NoError(t, err)
				second := encode(t, enc, loaded, driven.EncodeOptions{})

				assert.Equal(t, first, second)
				assert.Equal(t, doc.Type(), loaded.Type())
				assert.Equal(t, doc.ID(), loaded.ID())
				assert.Equal(t, ids(doc), ids(loaded))
			})
		}
	}
}

func ids(doc domain.SourceDocument) []string {
	var out []string
	for c := range doc.IterFull(false) {
		out = append(out, c.ID)
	}
	return out
}

func TestLoad_TreeYAML(t *testing.T) {
	doc, err := NewLoader().Load(strings.NewReader(treeYAML), "doc.yaml", driven.LoadOptions{WithContext: true})
	require.NoError(t, err)

	assert.Equal(t, domain.DocumentTree, doc.Type())
	assert.Equal(t, "doc-tree", doc.ID())

	chunks := slices.Collect(doc.Chunks())
	require.Len(t, chunks, 4)
	assert.Equal(t, "1.1", chunks[1].ID)
	assert.Equal(t, "First line\nSecond line", chunks[1].Data)
	assert.Equal(t, "intro", chunks[1].Context["tag"])
	assert.Equal(t, "en", chunks[1].Context[domain.CtxLang])
	assert.Equal(t, "Chapter one", chunks[1].Context[domain.CtxBefore])

	assert.Equal(t, treeYAML, encode(t, NewYAMLEncoder(), doc, driven.EncodeOptions{}))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		file    string
		want    error
	}{
		{"missing format", "header: {}\nchunks: []\n", "a.yaml", domain.ErrInvalidDocument},
		{"wrong format", "format: other\nchunks: []\n", "a.yaml", domain.ErrInvalidDocument},
		{"unknown type", "format: piisa:src-document:v1\nheader:\n  document:\n    type: graph\nchunks: []\n", "a.yaml", domain.ErrInvalidDocument},
		{"bad yaml", "format: [unclosed\n", "a.yaml", domain.ErrFile},
		{"bad json", "{", "a.json", domain.ErrFile},
		{"unsupported extension", "x", "a.toml", domain.ErrInvalidArgument},
		{"bad chunk", `{"format": "piisa:src-document:v1", "chunks": [{"id": "1"}]}`, "a.json", domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(strings.NewReader(tt.content), tt.file, driven.LoadOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_SchemaValidation(t *testing.T) {
	content := `{"format": "piisa:src-document:v1", "chunks": [{"data": "x", "context": "bad"}]}`

	_, err := NewLoader(WithValidation(true)).Load(strings.NewReader(content), "a.json", driven.LoadOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)

	_, err = NewLoader().Load(strings.NewReader(content), "a.json", driven.LoadOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad_MissingTypeIsSequence(t *testing.T) {
	doc, err := NewLoader().Load(strings.NewReader("format: piisa:src-document:v1\nheader:\n  document:\n    id: 12\nchunks: [a, b]\n"), "a.yml", driven.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentSequence, doc.Type())
	assert.Equal(t, "12", doc.ID())
}

func TestLoad_ExtraMetadata(t *testing.T) {
	doc, err := NewLoader().Load(strings.NewReader(treeYAML), "doc.yaml", driven.LoadOptions{
		Metadata: domain.Metadata{"dataset": {"split": "test"}, "document": {"title": "T"}},
	})
	require.NoError(t, err)

	md := doc.Metadata()
	assert.Equal(t, "sample", md.GetString("dataset", "name"))
	assert.Equal(t, "test", md.GetString("dataset", "split"))
	assert.Equal(t, "T", md.GetString("document", "title"))
	assert.Equal(t, "doc-tree", md.GetString("document", "id"))
}

func TestContextFilter(t *testing.T) {
	doc := document.NewSequence(
		document.WithMetadata(domain.Metadata{"document": {"id": "d"}}),
		document.WithRecords([]domain.Record{{Data: "x", Context: domain.Context{"lang": "es", "level": 3, "custom": 1}}}),
	)

	defaultOut := encode(t, NewJSONEncoder(), doc, driven.EncodeOptions{})
	assert.Contains(t, defaultOut, `"lang": "es"`)
	assert.Contains(t, defaultOut, `"custom": 1`)
	assert.NotContains(t, defaultOut, `"level"`)

	explicit := encode(t, NewJSONEncoder(), doc, driven.EncodeOptions{ContextFields: []string{"level"}})
	assert.Contains(t, explicit, `"level": 3`)
	assert.NotContains(t, explicit, `"lang"`)
}

func TestJSONEncoder_Indent(t *testing.T) {
	doc := document.NewSequence(document.WithMetadata(domain.Metadata{"document": {"id": "d"}}))

	out := encode(t, NewJSONEncoder(), doc, driven.EncodeOptions{Indent: 4})
	assert.True(t, strings.HasPrefix(out, "{\n    \"format\": \"piisa:src-document:v1\""))
	assert.Contains(t, out, `"chunks": []`)
}

func TestTextEncoder(t *testing.T) {
	docs := sampleDocs(t)

	assert.Equal(t, "A\n  B\n  C\nD\n", encode(t, NewTextEncoder(), docs["tree"], driven.EncodeOptions{Indent: 2}))
	assert.Equal(t, "A\nB\nC\nD\n", encode(t, NewTextEncoder(), docs["tree"], driven.EncodeOptions{}))
	assert.Equal(t, "first chunk\nsecond\nchunk\nthird\n", encode(t, NewTextEncoder(), docs["sequence"], driven.EncodeOptions{Indent: 4}))
	assert.Equal(t, "a\tb\t3\nd\te\tf\n", encode(t, NewTextEncoder(), docs["table"], driven.EncodeOptions{}))
}

func TestEncoderFor(t *testing.T) {
	tests := []struct {
		name, path, want string
	}{
		{"", "out.yml", "yaml"},
		{"", "out.yaml.gz", "yaml"},
		{"", "out.json", "json"},
		{"", "out.txt", "text"},
		{"", "out.text.bz2", "text"},
		{"JSON", "out.yaml", "json"},
		{"txt", "whatever", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name+tt.path, func(t *testing.T) {
			enc, err := EncoderFor(tt.name, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, enc.Name())
		})
	}

	_, err := EncoderFor("", "out.csv")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = EncoderFor("xml", "out.yaml")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Len(t, Encoders(), 3)
}

func TestDumpFile_LoadFile_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json.gz")
	doc := sampleDocs(t)["table"]

	require.NoError(t, DumpFile(doc, path, "", driven.EncodeOptions{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = gzip.NewReader(f)
	require.NoError(t, err, "output must be gzip compressed")

	loaded, err := NewLoader().LoadFile(path, driven.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, ids(doc), ids(loaded))
}

func TestOpenReader_Missing(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, domain.ErrFile)
}

func TestOpenWriter_Unsupported(t *testing.T) {
	_, err := OpenWriter(filepath.Join(t.TempDir(), "out.yaml.bz2"))
	assert.ErrorIs(t, err, domain.ErrFile)
}

func TestBaseExtension(t *testing.T) {
	assert.Equal(t, ".yaml", BaseExtension("a/b.YAML"))
	assert.Equal(t, ".json", BaseExtension("b.json.gz"))
	assert.Equal(t, ".txt", BaseExtension("b.txt.xz"))
	assert.Equal(t, "", BaseExtension("noext"))
	assert.True(t, IsDocumentFile("x.yml.gz"))
	assert.False(t, IsDocumentFile("x.md"))
}

func TestFiles_ReadRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt.gz")

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("hello\nworld\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	raw, err := NewFiles().ReadRaw(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), raw.URI)
	assert.Equal(t, "hello\nworld\n", string(raw.Content))

	_, err = NewFiles().ReadRaw(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrFile)
}

func TestLoad_ValidateOption(t *testing.T) {
	_, err := NewLoader().Load(strings.NewReader(`{"format": "piisa:src-document:v1", "chunks": [{"data": "x", "context": "bad"}]}`),
		"doc.json", driven.LoadOptions{Validate: true})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
