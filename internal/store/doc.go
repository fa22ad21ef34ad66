// Package store provides SQLite-backed storage for posting instructions.
//
// The journal is append-only. Every instruction is stored in its flat
// postings.Record form, keyed by account and client transaction id, and
// ordered by a logical seq assigned at write time.
//
// # Ordering
//
// All reads use ORDER BY seq ASC, id COLLATE BINARY ASC so a client
// transaction is always rehydrated in the order its instructions were
// accepted.
//
// # Rehydration
//
// Stored records were validated when they were accepted, so they are
// rebuilt with strongtyping.Trusted and clienttx.Trusted. Lifecycle rules
// still run while the client transaction replays them.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
