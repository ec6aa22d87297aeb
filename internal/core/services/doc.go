// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the filesystem or the network directly; loaders,
// stores and indexes are injected as driven ports.
package services
