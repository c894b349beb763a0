// Package runid generates identifiers for scenario runs.
//
// Production runs use time-sortable UUIDv7 strings so ledger listings sort
// by creation time. Tests and golden traces use a fixed id.
package runid

import "github.com/google/uuid"

// DefaultFixed is returned by Fixed when constructed with an empty id.
const DefaultFixed = "run-default"

// Generator produces run ids.
type Generator interface {
	Generate() string
}

// UUIDv7 generates "550e8400-e29b-71d4-a716-446655440000" style ids.
// Stateless and safe for concurrent use.
type UUIDv7 struct{}

// Generate returns a new UUIDv7. Panics if the system random source fails.
func (UUIDv7) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Fixed returns the same id on every call.
type Fixed struct {
	id string
}

// NewFixed returns a generator that always yields id, or DefaultFixed
// when id is empty.
func NewFixed(id string) Fixed {
	if id == "" {
		id = DefaultFixed
	}
	return Fixed{id: id}
}

// Generate returns the fixed id.
func (f Fixed) Generate() string {
	return f.id
}
