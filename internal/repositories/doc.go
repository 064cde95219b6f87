// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
//
// Key Implementations:
//   - [UserRepository] : account persistence with exact, case-sensitive username lookups
//   - [ItemRepository] : collection item persistence across the four section tables
//
// The four collection sections map to four physical tables. [ItemRepository]
// resolves a [models.Category] through a fixed table of literal SQL statements;
// no query text is ever assembled from request-influenced values, even
// allow-listed ones.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
