// internal/daily/daily.go
//
// Deterministic word selection for the daily challenge. Every player
// gets the same secret word on a given date; the salt keeps the
// sequence unpredictable to anyone who knows the word list.

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

// WordIndex returns a deterministic index for a date using
// HMAC(salt, YYYY-MM-DD) % wordsLen.
func WordIndex(date time.Time, salt string, wordsLen int) int {
	if wordsLen <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(wordsLen))
}
