package domain

// RawDocument holds the bytes of an input file before normalisation.
type RawDocument struct {
	// URI is the original location, usually a file path.
	URI string

	// Content is the raw bytes.
	Content []byte

	// Metadata is merged into the normalised document's header.
	Metadata Metadata
}
