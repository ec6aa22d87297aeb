package document

import (
	"iter"
	"strconv"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// sequence is a flat ordered list of chunks.
type sequence struct{}

func (sequence) kind() domain.DocumentType { return domain.DocumentSequence }

func (sequence) structural(recs iter.Seq[domain.Record]) iter.Seq[domain.Record] {
	return func(yield func(domain.Record) bool) {
		n := 0
		for rec := range recs {
			if rec.ID == "" {
				n++
				rec.ID = strconv.Itoa(n)
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (sequence) flatten(recs iter.Seq[domain.Record], _ domain.Metadata) iter.Seq2[domain.Record, domain.Context] {
	return func(yield func(domain.Record, domain.Context) bool) {
		for rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (sequence) add(d *Document, c domain.Chunk) error {
	d.records = append(d.records, domain.Record{
		ID:      c.ID,
		Data:    c.Data,
		Context: d.storedContext(c.Context),
	})
	return nil
}
