// Package number provides the signed value type used throughout signum.
//
// A Number carries an int64 value together with a parity flag. The flag is
// stored, not recomputed, so the type mirrors the data it was built from:
//
//   - New derives the flag from the value and is the normal constructor.
//   - Construct stores both fields verbatim and performs no validation.
//   - Validate reports ErrParityMismatch when Odd != (Value%2 != 0).
//
// Code that accepts external input (scenario files, catalogs, CLI flags)
// must call Validate before trusting the flag.
//
// # Capabilities
//
// Sign inspection is expressed through small interfaces instead of a type
// hierarchy. Signed and HasSign are satisfied by Number and by Int, a named
// int64, and the generic helpers IsNegative, IsPositive and IsOdd cover every
// built-in signed integer kind.
//
// # Copy semantics
//
// Number has no pointer fields, so plain assignment already copies it.
// Clone exists to make duplication explicit at call sites; the result never
// aliases the receiver.
package number
