// Package store provides SQLite-backed storage for the signum evaluation ledger.
//
// Each scenario run appends one evaluation per executed step. Rows are
// content-addressed (see ir.EvaluationID), so writing the same run twice
// is a no-op.
//
// # Ordering
//
// All queries use ORDER BY seq ASC, id ASC COLLATE BINARY. seq is the
// scenario's logical clock; timestamps are never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: SQLite allows one writer
package store
