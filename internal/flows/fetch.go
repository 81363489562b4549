package flows

import (
	"time"

	"github.com/MrEthical07/stitchgate/api"
)

// FetchOutcome classifies what a profile fetch did to the session.
type FetchOutcome uint8

const (
	// FetchSkipped means the cooldown suppressed the call; nothing changed.
	FetchSkipped FetchOutcome = iota
	// FetchUpdated means a fresh identity replaced the current one.
	FetchUpdated
	// FetchNotModified means the backend confirmed the cached identity.
	FetchNotModified
	// FetchUnauthorized means the backend revoked the session (401).
	FetchUnauthorized
	// FetchFailed means a network or server error; identity untouched.
	FetchFailed
)

// ThrottleAllows reports whether an unforced fetch may go out. The rule is
// purely time-based: two callers inside the window both see "skip", which is
// fine because neither would have done new work. Forced fetches always pass.
func ThrottleAllows(st State, now time.Time, cooldown time.Duration, force bool) bool {
	if force {
		return true
	}
	if st.LastFetch.IsZero() {
		return true
	}
	return now.Sub(st.LastFetch) >= cooldown
}

// ApplyFetchSuccess installs the authoritative identity.
func ApplyFetchSuccess(st State, identity *api.Identity) State {
	st.Identity = identity.Clone()
	st.Status = StatusReady
	st.LastError = nil
	return st
}

// ApplyFetchNotModified confirms the current identity without touching it.
func ApplyFetchNotModified(st State) State {
	st.Status = StatusReady
	st.LastError = nil
	return st
}

// ApplyFetchUnauthorized clears the identity. This is logout semantics, not
// an error: LastError stays nil and the state is determinate.
func ApplyFetchUnauthorized(st State) State {
	st.Identity = nil
	st.Status = StatusReady
	st.LastError = nil
	st.Epoch++
	return st
}

// ApplyFetchFailure records the failure and keeps whatever identity was
// there. Stale-but-present beats blanking the UI.
func ApplyFetchFailure(st State, err error) State {
	st.Status = StatusError
	st.LastError = err
	return st
}
