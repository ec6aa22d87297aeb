package document

import (
	"iter"
	"reflect"
	"strconv"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// table is a list of rows, each row holding one chunk per column.
type table struct{}

func (table) kind() domain.DocumentType { return domain.DocumentTable }

func (table) structural(recs iter.Seq[domain.Record]) iter.Seq[domain.Record] {
	return func(yield func(domain.Record) bool) {
		n := 0
		for rec := range recs {
			n++
			if rec.ID == "" {
				rec.ID = strconv.Itoa(n)
			}
			if !yield(rec) {
				return
			}
		}
	}
}

func (table) flatten(recs iter.Seq[domain.Record], md domain.Metadata) iter.Seq2[domain.Record, domain.Context] {
	names := columnNames(md)
	return func(yield func(domain.Record, domain.Context) bool) {
		for row := range recs {
			for i, cell := range cellsOf(row.Data) {
				col := map[string]any{domain.ColumnNumber: i + 1}
				if i < len(names) && names[i] != nil {
					col[domain.ColumnName] = names[i]
				}
				rec := domain.Record{
					ID:      row.ID + "." + strconv.Itoa(i+1),
					Data:    cell,
					Context: row.Context.Clone(),
				}
				if !yield(rec, domain.Context{domain.CtxRow: row.ID, domain.CtxColumn: col}) {
					return
				}
			}
		}
	}
}

// cellsOf expands a row payload. A scalar payload is a single-cell row.
func cellsOf(data any) []any {
	switch t := data.(type) {
	case nil:
		return nil
	case []any:
		return t
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	default:
		return []any{data}
	}
}

// columnNames reads column.name from metadata. Missing entries are nil.
func columnNames(md domain.Metadata) []any {
	v, ok := md.Get(domain.SectionColumn, domain.ColumnName)
	if !ok {
		return nil
	}
	return cellsOf(v)
}

func (table) add(d *Document, c domain.Chunk) error {
	row := c.Context[domain.CtxRow]
	if d.rowOpen && len(d.records) > 0 && reflect.DeepEqual(row, d.rowValue) {
		last := &d.records[len(d.records)-1]
		last.Data = append(last.Data.([]any), c.Data)
		return nil
	}

	rec := domain.Record{Data: []any{c.Data}, Context: d.storedContext(c.Context)}
	if row != nil {
		rec.ID = domain.IDString(row)
	}
	d.records = append(d.records, rec)
	d.rowOpen = true
	d.rowValue = row
	return nil
}
