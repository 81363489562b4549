package flows

import (
	"time"

	"github.com/MrEthical07/stitchgate/api"
)

// Status is the session lifecycle phase. Consumers must treat StatusLoading
// as "decision pending", never as "unauthenticated".
type Status uint8

const (
	// StatusUninitialized means Bootstrap has not run yet.
	StatusUninitialized Status = iota
	// StatusLoading means a determinate answer is still pending.
	StatusLoading
	// StatusReady means Identity (possibly nil) is trustworthy.
	StatusReady
	// StatusError means the last refresh failed; Identity is stale but kept.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the whole mutable session record. The Manager holds exactly one
// and replaces it atomically under its lock with the transition functions
// in this package.
type State struct {
	Identity  *api.Identity
	Status    Status
	LastError error

	// LastFetch is when the most recent profile fetch was attempted,
	// successful or not. Drives the cooldown.
	LastFetch time.Time

	// Epoch increments whenever the session boundary moves (login, logout,
	// server-side 401). In-flight responses from an older epoch are
	// discarded instead of resurrecting a cleared identity.
	Epoch uint64
}
