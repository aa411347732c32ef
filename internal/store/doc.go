// Package store persists the overair catalog in SQLite.
//
// The catalog is append-only: channels, programs, and schedules are created
// by reconciliation and never mutated or deleted. Uniqueness invariants are
// enforced twice: the reconciler diffs against in-memory snapshots, and every
// insert uses INSERT OR IGNORE against a UNIQUE constraint as a second line
// of defense. Persons exist in the schema for future cast data but have no
// population path yet.
package store
