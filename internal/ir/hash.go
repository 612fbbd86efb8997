package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future change of algorithm.
const (
	DomainCase  = "dtimer/case/v1"
	DomainTrace = "dtimer/trace/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The separator keeps the domain and data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CaseID computes the content-addressed ID of a sweep case definition.
//
// The ID depends on the frequency and on the delay exactly as written
// (encoding included), not on the case name, so renaming a case keeps its
// history in the store.
func CaseID(frequency, delayEncoding, delay string) (string, error) {
	obj := IRObject{
		"frequency":      IRString(frequency),
		"delay_encoding": IRString(delayEncoding),
		"delay":          IRString(delay),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CaseID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCase, canonical), nil
}

// TraceDigest hashes a canonical trace snapshot.
func TraceDigest(snapshot IRObject) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("TraceDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}
