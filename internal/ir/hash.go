package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainEvaluation = "signum/evaluation/v1"
	DomainTrace      = "signum/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EvaluationID computes the content-addressed ID of one recorded operation.
// The same run, op, input and seq always produce the same ID, so replays
// into the ledger are idempotent.
func EvaluationID(runID, op string, input map[string]any, seq int64) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"run_id": runID,
		"op":     op,
		"input":  input,
		"seq":    seq,
	})
	if err != nil {
		return "", fmt.Errorf("EvaluationID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEvaluation, canonical), nil
}

// TraceHash fingerprints a canonical trace document.
func TraceHash(canonicalTrace []byte) string {
	return hashWithDomain(DomainTrace, canonicalTrace)
}
