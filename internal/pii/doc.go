// Package pii holds collections of PII entities detected in source
// documents.
//
// A collection carries a header (creation date, format tag, default
// language, processing stage and the detectors that produced the entities)
// and a flat entity list. Collections are written as NDJSON, one header
// line followed by one line per entity, or as a single JSON object.
package pii
