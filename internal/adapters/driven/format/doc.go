// Package format reads and writes source document files.
//
// Documents are serialized as an object carrying a format tag, the metadata
// header and the structural chunk list. YAML and JSON encodings can be read
// back; plain text is write-only. File names ending in .gz are transparently
// (de)compressed, names ending in .bz2 can be read, and "-" stands for
// stdin or stdout.
package format
