package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash canonically marshals v and returns the lowercase hex SHA-256 of
// domain || 0x00 || canonical(v). The null byte keeps the domain/data
// boundary unambiguous; domain strings carry a version suffix (for
// example "plm/profile/v1") so the scheme can migrate without colliding
// with old hashes.
func Hash(domain string, v any) (string, error) {
	data, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("canon: hash %s: %w", domain, err)
	}
	return HashBytes(domain, data), nil
}

// HashBytes hashes already-canonical bytes under domain.
func HashBytes(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
