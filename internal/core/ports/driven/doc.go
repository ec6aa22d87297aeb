// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - Encoder / Loader: serialize and read source documents (YAML, JSON, text)
//   - Normaliser / NormaliserRegistry: turn raw input files into documents
//   - ChunkStore: chunk persistence (SQLite, in-memory)
//   - ModuleConfigLoader: module configuration files
//   - ConfigStore: CLI settings
//
// # Import Rules
//
//   - Can Import: domain and document packages only
//   - Cannot Import: Any adapter or normaliser package
package driven
