// Package ir provides the canonical encoding shared by the scenario runner,
// the evaluation ledger and golden trace files.
//
// This package imports nothing internal.
//
// Key constraints:
//   - NO float values - integers are int64
//   - NO null values - absent fields are omitted by the caller
//   - Object keys sorted by UTF-16 code units (RFC 8785)
//   - Strings NFC normalized at the serialization boundary
package ir
