package flows

import (
	"encoding/json"
	"time"

	"github.com/MrEthical07/stitchgate/api"
)

// CacheEntry is the persisted profile cache record. The wire shape,
// `{"data": <identity>, "timestamp": <epoch ms>}`, is fixed so that file
// and Redis storages written by older client builds stay readable.
type CacheEntry struct {
	Data      api.Identity `json:"data"`
	Timestamp int64        `json:"timestamp"`
}

// SavedAt converts the epoch-millisecond stamp back to a time.
func (e CacheEntry) SavedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// EncodeCacheEntry serializes an identity with a fresh stamp.
func EncodeCacheEntry(identity api.Identity, now time.Time) (string, error) {
	data, err := json.Marshal(CacheEntry{
		Data:      identity,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeCacheEntry parses a stored entry. A corrupt blob reports ok == false
// and is treated exactly like an absent one; it is never an error the user
// sees.
func DecodeCacheEntry(raw string) (CacheEntry, bool) {
	var entry CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return CacheEntry{}, false
	}
	if entry.Timestamp <= 0 {
		return CacheEntry{}, false
	}
	entry.Data.ApplyDefaults()
	return entry, true
}

// CacheFresh reports whether an entry saved at savedAt may still seed the
// identity. An entry older than ttl is treated as absent, never "used but
// flagged".
func CacheFresh(savedAt, now time.Time, ttl time.Duration) bool {
	if savedAt.After(now) {
		// A future stamp means a clock jumped; distrust the entry.
		return false
	}
	return now.Sub(savedAt) <= ttl
}
