// Package idgen generates gifticon identifiers and their creation-integrity
// stamps. The identifier format GIFT-YYYYMMDD-XXXXX is an external contract
// consumed by the QR-encoding collaborator and must not change.
package idgen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"time"
)

const (
	idPrefix      = "GIFT"
	suffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength  = 5
)

// GenerateID returns a new identifier of the form GIFT-YYYYMMDD-XXXXX with a
// date-coded prefix and a random uppercase-alphanumeric suffix. The suffix
// space is small enough that collisions are possible; callers must treat a
// duplicate as a create-time failure, never overwrite.
func GenerateID(now time.Time) (string, error) {
	buf := make([]byte, suffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random suffix: %w", err)
	}
	suffix := make([]byte, suffixLength)
	for i, b := range buf {
		suffix[i] = suffixCharset[int(b)%len(suffixCharset)]
	}
	return fmt.Sprintf("%s-%s-%s", idPrefix, now.Format("20060102"), suffix), nil
}

// SecurityHash returns a deterministic digest over the three immutable
// creation facts of a gifticon. The second return value reports whether the
// cryptographic digest was unavailable and the FNV fallback was used; the
// caller logs that degradation but creation proceeds regardless.
func SecurityHash(id string, amount int64, createdAt time.Time) (string, bool) {
	payload := fmt.Sprintf("%s|%d|%s", id, amount, createdAt.UTC().Format(time.RFC3339))

	h := sha256.New()
	if _, err := h.Write([]byte(payload)); err != nil {
		return fallbackChecksum(payload), true
	}
	return hex.EncodeToString(h.Sum(nil)), false
}

// fallbackChecksum is a fast non-cryptographic stamp, prefixed so degraded
// records are recognizable during reconciliation.
func fallbackChecksum(payload string) string {
	f := fnv.New32a()
	_, _ = f.Write([]byte(payload))
	return fmt.Sprintf("fnv:%08x", f.Sum32())
}
