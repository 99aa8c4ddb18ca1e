// Package repositories implements SQLite persistence for the local cache.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [CourseRepository] : Course offering cache with remote-ID lookups
//   - [StudentRepository] : Roster cache with cohort filtering
//   - [CommitLogRepository] : Append-only log of session commit outcomes
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
