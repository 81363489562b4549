package stitchgate

import (
	"github.com/MrEthical07/stitchgate/api"
	"github.com/MrEthical07/stitchgate/internal/flows"
)

var (
	// ErrInvalidLoginPayload is returned by [Manager.Login] when the token or
	// identity is missing. No state is mutated.
	ErrInvalidLoginPayload = flows.ErrInvalidLoginPayload

	// ErrUnauthorized is the backend's 401, re-exported so consumers of other
	// endpoints can follow the same clear-and-redirect convention.
	ErrUnauthorized = api.ErrUnauthorized
)
