package stitchgate

import (
	"io"

	"github.com/MrEthical07/stitchgate/api"
	"github.com/MrEthical07/stitchgate/internal/audit"
	"github.com/MrEthical07/stitchgate/internal/flows"
	internalmetrics "github.com/MrEthical07/stitchgate/internal/metrics"
)

// Identity is the authenticated user's profile as known to the client.
type Identity = api.Identity

// Status is the session lifecycle phase.
type Status = flows.Status

const (
	// StatusUninitialized means Bootstrap has not run yet.
	StatusUninitialized = flows.StatusUninitialized
	// StatusLoading means a determinate answer is still pending.
	StatusLoading = flows.StatusLoading
	// StatusReady means the identity (possibly absent) is trustworthy.
	StatusReady = flows.StatusReady
	// StatusError means the last refresh failed; the identity is stale but kept.
	StatusError = flows.StatusError
)

// LoginInput is the token-and-identity pair a successful backend login
// produces. Both parts are required.
type LoginInput = flows.LoginInput

// SessionSnapshot is a consistent read of the session, taken under the
// manager's lock. Gate decisions are made over snapshots, never over
// piecemeal accessor calls.
type SessionSnapshot struct {
	Identity  *Identity
	Status    Status
	LastError error
}

// AuditEvent is one session lifecycle record.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the manager's dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes JSON-encoded events, one per line.
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// Audit event types emitted by the manager.
const (
	AuditBootstrap      = audit.EventBootstrap
	AuditLogin          = audit.EventLogin
	AuditLoginRejected  = audit.EventLoginRejected
	AuditLogout         = audit.EventLogout
	AuditSessionRevoked = audit.EventSessionRevoked
	AuditProfileRefresh = audit.EventProfileRefresh
)

// MetricID identifies a counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricBootstrap counts Bootstrap runs.
	MetricBootstrap = internalmetrics.MetricBootstrap
	// MetricBootstrapCacheSeed counts bootstraps seeded from the cache.
	MetricBootstrapCacheSeed = internalmetrics.MetricBootstrapCacheSeed
	// MetricFetchSuccess counts fetches that replaced the identity.
	MetricFetchSuccess = internalmetrics.MetricFetchSuccess
	// MetricFetchNotModified counts 304 confirmations.
	MetricFetchNotModified = internalmetrics.MetricFetchNotModified
	// MetricFetchSkipped counts fetches suppressed by the cooldown.
	MetricFetchSkipped = internalmetrics.MetricFetchSkipped
	// MetricFetchUnauthorized counts 401s that cleared the session.
	MetricFetchUnauthorized = internalmetrics.MetricFetchUnauthorized
	// MetricFetchFailure counts network or server fetch failures.
	MetricFetchFailure = internalmetrics.MetricFetchFailure
	// MetricFetchStaleDiscarded counts responses dropped after an epoch change.
	MetricFetchStaleDiscarded = internalmetrics.MetricFetchStaleDiscarded
	// MetricLoginSuccess counts accepted logins.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginRejected counts logins rejected for a partial payload.
	MetricLoginRejected = internalmetrics.MetricLoginRejected
	// MetricLoginReconcileFailure counts failed background reconciliations.
	MetricLoginReconcileFailure = internalmetrics.MetricLoginReconcileFailure
	// MetricLogout counts logouts, including idempotent repeats.
	MetricLogout = internalmetrics.MetricLogout
	// MetricGateAllow counts gate evaluations that rendered the target.
	MetricGateAllow = internalmetrics.MetricGateAllow
	// MetricGatePending counts gate evaluations answered while loading.
	MetricGatePending = internalmetrics.MetricGatePending
	// MetricGateLoginRedirect counts redirects to the login entry point.
	MetricGateLoginRedirect = internalmetrics.MetricGateLoginRedirect
	// MetricGateRoleRedirect counts redirects to a role default path.
	MetricGateRoleRedirect = internalmetrics.MetricGateRoleRedirect
)

// Metrics holds the manager's atomic counters.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = internalmetrics.Snapshot

// MetricDef describes one counter for exporters.
type MetricDef = internalmetrics.Def

// MetricDefs lists every counter in ID order.
func MetricDefs() []MetricDef {
	return internalmetrics.Defs
}
