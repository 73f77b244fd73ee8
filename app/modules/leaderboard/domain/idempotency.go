package leaderboarddomain

import (
	"crypto/sha256"
	"encoding/hex"
)

// GameRequestKey derives the idempotency key of a game request. The same
// request id from a different player yields a different key. An empty request
// id has no key and is never deduplicated.
func GameRequestKey(requestID string, player Identity) string {
	if requestID == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte("game:"))
	h.Write(player[:])
	h.Write([]byte(requestID))
	return hex.EncodeToString(h.Sum(nil))
}
