package flows

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/stitchgate/api"
)

// ErrInvalidLoginPayload rejects a login attempt that is missing either the
// token or the identity payload. Nothing is mutated when this is returned.
var ErrInvalidLoginPayload = errors.New("invalid login payload: token and identity required")

// LoginInput is what a successful backend login hands the session manager.
type LoginInput struct {
	Token    string
	Identity *api.Identity
}

// ValidateLoginInput fails fast on a partial payload.
func ValidateLoginInput(in LoginInput) error {
	if strings.TrimSpace(in.Token) == "" || in.Identity == nil {
		return ErrInvalidLoginPayload
	}
	return nil
}

// ApplyLogin seeds the optimistic identity and opens a new epoch so that any
// response still in flight for the previous session is discarded.
func ApplyLogin(st State, identity *api.Identity) State {
	st.Identity = identity.Clone()
	st.Status = StatusReady
	st.LastError = nil
	st.LastFetch = time.Time{}
	st.Epoch++
	return st
}

// ApplyLogout clears the identity. Calling it on an already-cleared state
// yields the same state, which is what makes Logout idempotent.
func ApplyLogout(st State) State {
	st.Identity = nil
	st.Status = StatusReady
	st.LastError = nil
	st.LastFetch = time.Time{}
	st.Epoch++
	return st
}
