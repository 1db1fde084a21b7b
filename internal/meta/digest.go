package meta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainDocument = "splice/document/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest computes the content address of v under domain.
// Equal values give equal digests regardless of map key order.
func Digest(domain string, v Value) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("digest: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// DocumentDigest decodes a JSON document and digests it under DomainDocument.
func DocumentDigest(jsonDoc []byte) (string, error) {
	v, err := UnmarshalValue(jsonDoc)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return Digest(DomainDocument, v)
}
