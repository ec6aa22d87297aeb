package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, body string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`,
	}
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func para(style, text string) string {
	props := ""
	if style != "" {
		props = `<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`
	}
	return `<w:p>` + props + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, "docx", normaliser.Name())
	assert.Equal(t, []string{".docx"}, normaliser.Extensions())
}

func TestStyleLevel(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Heading1", 1},
		{"heading 2", 2},
		{"HEADING6", 6},
		{"Heading", 0},
		{"Heading0", 0},
		{"Title", 0},
		{"Normal", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.want, styleLevel(tt.style))
		})
	}
}

func TestNormalise_Headings(t *testing.T) {
	content := createTestDOCX(t,
		para("Heading1", "Contact")+
			para("", "Alice Smith")+
			para("Heading2", "Phone")+
			para("", "555 0100")+
			para("Heading1", "Other"))

	doc, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "c.docx", Content: content})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTree, doc.Type())

	var ids []string
	var data []any
	for c := range doc.IterFull(false) {
		ids = append(ids, c.ID)
		data = append(data, c.Data)
	}
	assert.Equal(t, []string{"1", "1.1", "1.2", "1.2.1", "2"}, ids)
	assert.Equal(t, []any{"Contact", "Alice Smith", "Phone", "555 0100", "Other"}, data)
}

func TestNormalise_Paragraphs(t *testing.T) {
	content := createTestDOCX(t, para("", "first")+para("", "  ")+para("Normal", "second"))

	doc, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "p.docx", Content: content})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentSequence, doc.Type())

	var data []any
	for c := range doc.IterFull(false) {
		data = append(data, c.Data)
	}
	assert.Equal(t, []any{"first", "second"}, data)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestNormalise_InvalidZip(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "bad.docx", Content: []byte("not a zip")})
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}
