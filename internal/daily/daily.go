// Package daily derives the shared dice seed for the "daily" challenge.
//
// Every player who starts a daily game on the same UTC date rolls the same
// dice sequence, so scores on the daily leaderboard are comparable.
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

// Seed returns a deterministic, non-zero dice seed for a date using
// HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	return SeedForKey(DateKey(date), salt)
}

// SeedForKey is Seed for an already formatted date key.
func SeedForKey(dateKey, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dateKey))
	sum := h.Sum(nil)
	// first 8 bytes, top bit cleared so the seed stays positive
	n := int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
	if n == 0 {
		// zero means "random" to the session layer
		return 1
	}
	return n
}

// ValidKey reports whether s is a well-formed YYYY-MM-DD key.
func ValidKey(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
