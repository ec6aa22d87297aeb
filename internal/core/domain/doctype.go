package domain

import "fmt"

// DocumentType is the topology of a source document.
type DocumentType string

const (
	// DocumentSequence is a flat ordered list of chunks.
	DocumentSequence DocumentType = "sequence"
	// DocumentTree is a hierarchy of chunks, flattened depth-first.
	DocumentTree DocumentType = "tree"
	// DocumentTable is a list of rows, each holding one chunk per column.
	DocumentTable DocumentType = "table"
)

// DocumentTypes lists every supported topology.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentSequence, DocumentTree, DocumentTable}
}

// String returns the metadata tag for the type.
func (t DocumentType) String() string {
	return string(t)
}

// IsValid returns true if t is one of the supported topologies.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentSequence, DocumentTree, DocumentTable:
		return true
	default:
		return false
	}
}

// ParseDocumentType converts a metadata tag into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown document type %q", ErrInvalidDocument, s)
	}
	return t, nil
}
