// Package normalisers provides implementations of the Normaliser interface
// for input formats that are not source document files. Each normaliser
// knows how to build a source document from the bytes of one file type.
//
// Normalisers are registered with a Registry at startup, keyed by file
// extension.
package normalisers
