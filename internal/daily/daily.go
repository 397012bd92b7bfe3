// internal/daily/daily.go
//
// Deterministic daily seed: HMAC(salt, YYYY-MM-DD).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic, non-zero puzzle seed for a date using
// HMAC(salt, YYYY-MM-DD). Every player gets the same daily puzzle.
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes, clear the sign bit
	n := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if n == 0 {
		return 1
	}
	return n
}
