// Package metrics is the in-process counter set for the session core.
// Counters are plain atomics so the hot paths (gate decisions, throttled
// fetches) never take a lock or allocate.
package metrics

import "sync/atomic"

// MetricID identifies one counter.
type MetricID uint16

const (
	// MetricBootstrap counts Bootstrap runs.
	MetricBootstrap MetricID = iota
	// MetricBootstrapCacheSeed counts bootstraps that seeded from cache.
	MetricBootstrapCacheSeed
	// MetricFetchSuccess counts profile fetches that replaced the identity.
	MetricFetchSuccess
	// MetricFetchNotModified counts 304 confirmations.
	MetricFetchNotModified
	// MetricFetchSkipped counts fetches suppressed by the cooldown.
	MetricFetchSkipped
	// MetricFetchUnauthorized counts 401s that cleared the session.
	MetricFetchUnauthorized
	// MetricFetchFailure counts network/server fetch failures.
	MetricFetchFailure
	// MetricFetchStaleDiscarded counts responses dropped by an epoch change.
	MetricFetchStaleDiscarded
	// MetricLoginSuccess counts accepted logins.
	MetricLoginSuccess
	// MetricLoginRejected counts logins rejected for a partial payload.
	MetricLoginRejected
	// MetricLoginReconcileFailure counts failed background reconciliations.
	MetricLoginReconcileFailure
	// MetricLogout counts logouts, including idempotent repeats.
	MetricLogout
	// MetricGateAllow counts gate evaluations that rendered the target.
	MetricGateAllow
	// MetricGatePending counts gate evaluations answered while loading.
	MetricGatePending
	// MetricGateLoginRedirect counts redirects to the login entry point.
	MetricGateLoginRedirect
	// MetricGateRoleRedirect counts redirects to a role default path.
	MetricGateRoleRedirect

	// MetricIDCount is the number of defined metric IDs.
	MetricIDCount
)

// Def is the exportable description of one counter.
type Def struct {
	ID   MetricID
	Name string
	Help string
}

// Defs lists every counter in ID order, for exporters.
var Defs = []Def{
	{MetricBootstrap, "stitchgate_bootstrap_total", "Session bootstrap runs."},
	{MetricBootstrapCacheSeed, "stitchgate_bootstrap_cache_seed_total", "Bootstraps seeded from the persisted cache."},
	{MetricFetchSuccess, "stitchgate_fetch_success_total", "Profile fetches that replaced the identity."},
	{MetricFetchNotModified, "stitchgate_fetch_not_modified_total", "Profile fetches answered 304."},
	{MetricFetchSkipped, "stitchgate_fetch_skipped_total", "Profile fetches suppressed by the cooldown."},
	{MetricFetchUnauthorized, "stitchgate_fetch_unauthorized_total", "Profile fetches answered 401, clearing the session."},
	{MetricFetchFailure, "stitchgate_fetch_failure_total", "Profile fetches that failed with a network or server error."},
	{MetricFetchStaleDiscarded, "stitchgate_fetch_stale_discarded_total", "Fetch responses discarded after a session epoch change."},
	{MetricLoginSuccess, "stitchgate_login_success_total", "Accepted logins."},
	{MetricLoginRejected, "stitchgate_login_rejected_total", "Logins rejected for a partial payload."},
	{MetricLoginReconcileFailure, "stitchgate_login_reconcile_failure_total", "Background login reconciliations that failed."},
	{MetricLogout, "stitchgate_logout_total", "Logouts, including idempotent repeats."},
	{MetricGateAllow, "stitchgate_gate_allow_total", "Gate evaluations that rendered the target."},
	{MetricGatePending, "stitchgate_gate_pending_total", "Gate evaluations answered with a pending indicator."},
	{MetricGateLoginRedirect, "stitchgate_gate_login_redirect_total", "Gate redirects to the login entry point."},
	{MetricGateRoleRedirect, "stitchgate_gate_role_redirect_total", "Gate redirects to a role default path."},
}

// Config controls metric collection.
type Config struct {
	Enabled bool
}

// Metrics holds the counter array. A disabled instance turns every call
// into a no-op; a nil *Metrics behaves the same way.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

// New creates a Metrics instance.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Counters [MetricIDCount]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	var snap Snapshot
	if m == nil || !m.enabled {
		return snap
	}
	for i := range m.counters {
		snap.Counters[i] = m.counters[i].Load()
	}
	return snap
}
