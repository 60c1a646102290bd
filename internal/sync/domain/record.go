package domain

import (
	"encoding/json"
	"time"
)

// Record is one versioned piece of synced data. Payload carries the record
// body untouched; only UpdatedAt participates in conflict resolution.
type Record struct {
	ID        string          `json:"id"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Resolve deterministically merges two versions of the same record. If one
// side is absent the other wins. Otherwise the strictly later UpdatedAt
// wins, and ties resolve to local.
func Resolve(local, remote *Record) *Record {
	if remote == nil {
		return local
	}
	if local == nil {
		return remote
	}
	if remote.UpdatedAt.After(local.UpdatedAt) {
		return remote
	}
	return local
}
