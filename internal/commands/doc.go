// Package commands builds the read-only command registry from a loaded
// configuration model.
//
// Each command definition is resolved against the type catalog in package
// registry, its raw properties are mapped onto a fresh settings struct, and
// the result is keyed by the case-folded command name. A Store publishes
// complete registries atomically so that readers never observe a partially
// built one.
package commands
