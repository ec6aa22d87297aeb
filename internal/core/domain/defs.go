package domain

import "slices"

// Format identifiers written to, and checked in, serialized files.
const (
	FormatSrcDocument   = "piisa:src-document:v1"
	FormatPiiCollection = "piisa:pii-collection:v1"
	FormatConfigPrefix  = "piisa:config:"
	FormatConfigFull    = FormatConfigPrefix + "full:v1"
)

// Conventional metadata section names.
const (
	SectionDocument = "document"
	SectionDataset  = "dataset"
	SectionColumn   = "column"
)

// Keys inside the document metadata section.
const (
	MetaID       = "id"
	MetaType     = "type"
	MetaMainLang = "main_lang"
)

// Context keys added to chunks.
const (
	CtxBefore  = "before"
	CtxAfter   = "after"
	CtxSection = "section"
	CtxLevel   = "level"
	CtxRow     = "row"
	CtxColumn  = "column"
	CtxLang    = "lang"
)

// Keys of the column context mapping in table chunks.
const (
	ColumnNumber = "number"
	ColumnName   = "name"
)

// structuralFields are context fields that describe document structure
// rather than chunk content. Dumps omit them unless asked for explicitly.
var structuralFields = []string{
	CtxBefore, CtxAfter,
	SectionDocument, SectionDataset,
	CtxSection, CtxLevel,
	CtxColumn, CtxRow,
}

// StructuralContextFields returns the well-known structure context fields.
func StructuralContextFields() []string {
	return slices.Clone(structuralFields)
}

// IsStructuralContextField reports whether key is a structure context field.
func IsStructuralContextField(key string) bool {
	return slices.Contains(structuralFields, key)
}
