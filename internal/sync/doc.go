// Package sync implements the incremental listings synchronization engine.
//
// Reconciliation follows one pattern for every entity type: load an
// in-memory snapshot of the identifiers already stored, diff the freshly
// fetched batch against it, and insert only the complement. The snapshot is
// extended as inserts are decided, so duplicates inside a single fetch batch
// resolve first-seen-wins without re-reading the store. Running the same
// payload twice therefore produces zero additional writes.
//
// The orchestrator drives one end-to-end cycle against the remote service in
// dependency order (channels, then programs, then schedules) and holds an
// exclusive file lock for its duration so concurrent cycles cannot
// interleave writes.
package sync
