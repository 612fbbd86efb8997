// Package store keeps sweep run history in SQLite.
//
// Two tables:
//   - runs: one row per sweep run, keyed by a UUIDv7 run ID
//   - case_results: one row per case checked in a run
//
// # Ordering
//
// Rows carry a seq from the engine's logical clock. All list queries order
// by seq ASC with a binary-collated tie-breaker, so results are identical
// across reads.
//
// # Unsigned Counts
//
// Cycle and tick counts span the full uint64 range. SQLite integers are
// signed 64-bit, so these columns hold decimal TEXT.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
