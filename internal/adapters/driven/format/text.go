package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/domain"
	"github.com/custodia-labs/piidoc/internal/core/ports/driven"
)

// Ensure TextEncoder implements the interface.
var _ driven.Encoder = (*TextEncoder)(nil)

// TextEncoder writes the document payloads as plain text, one line per
// payload line. Tree levels are shown by leading spaces.
type TextEncoder struct{}

// NewTextEncoder creates a text encoder.
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{}
}

// Name returns the format name.
func (e *TextEncoder) Name() string {
	return "text"
}

// Encode writes doc to w. opts.Indent is the number of spaces per tree level.
func (e *TextEncoder) Encode(w io.Writer, doc domain.SourceDocument, opts driven.EncodeOptions) error {
	bw := bufio.NewWriter(w)
	for rec := range doc.IterStructural() {
		writeTextRecord(bw, rec, 0, max(opts.Indent, 0))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write text: %w", domain.ErrFile, err)
	}
	return nil
}

func writeTextRecord(w *bufio.Writer, rec domain.Record, level, indent int) {
	prefix := strings.Repeat(" ", level*indent)
	for _, line := range textLines(rec.Data) {
		w.WriteString(prefix)
		w.WriteString(line)
		w.WriteByte('\n')
	}
	for _, child := range rec.Children {
		writeTextRecord(w, child, level+1, indent)
	}
}

// textLines splits a payload into lines. Table rows are joined by tabs.
func textLines(data any) []string {
	var s string
	switch t := data.(type) {
	case nil:
		return nil
	case string:
		s = t
	case []any:
		cells := make([]string, len(t))
		for i, c := range t {
			cells[i] = fmt.Sprint(c)
		}
		s = strings.Join(cells, "\t")
	default:
		s = fmt.Sprint(t)
	}
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
