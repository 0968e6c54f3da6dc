package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainStatement = "lisql/statement/v1"
	DomainDocument  = "lisql/document/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StatementID computes the content-addressed ID of a journaled statement.
// The ID is stable given the same session, sequence number and text, so
// re-journaling the same entry is idempotent.
func StatementID(session string, seq int64, statement string) (string, error) {
	obj := map[string]any{
		"session":   session,
		"seq":       seq,
		"statement": statement,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("StatementID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainStatement, canonical), nil
}

// DocumentHash fingerprints an ordered list of generated statements, e.g. the
// output of one command document.
func DocumentHash(statements []string) (string, error) {
	canonical, err := MarshalCanonical(statements)
	if err != nil {
		return "", fmt.Errorf("DocumentHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainDocument, canonical), nil
}

// MustStatementID is like StatementID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustStatementID(session string, seq int64, statement string) string {
	id, err := StatementID(session, seq, statement)
	if err != nil {
		panic(err)
	}
	return id
}
