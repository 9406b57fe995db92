// Package rowhash computes the change-detection digest stored with every
// history row.
package rowhash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Sum returns the hex SHA-256 of the canonical JSON encoding of fields.
// encoding/json writes map keys in sorted order, so the digest does not depend
// on how the map was built.
func Sum(fields map[string]any) (string, error) {
	canonical, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:]), nil
}
