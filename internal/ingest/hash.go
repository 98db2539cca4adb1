package ingest

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashBytes fingerprints a record's raw source so downstream stages can
// skip unchanged bodies.
func HashBytes(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
