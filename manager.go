package stitchgate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/stitchgate/api"
	"github.com/MrEthical07/stitchgate/internal/audit"
	"github.com/MrEthical07/stitchgate/internal/flows"
	internalmetrics "github.com/MrEthical07/stitchgate/internal/metrics"
	"github.com/MrEthical07/stitchgate/storage"
	"github.com/MrEthical07/stitchgate/token"
)

// Manager is the single source of truth for "who is logged in" in a running
// client. Construct it through [Builder.Build], call [Manager.Bootstrap]
// once at application start, and [Manager.Dispose] at shutdown.
//
// All methods are safe for concurrent use. The UI analogue is a
// single-threaded event loop; here the mutex provides the same serialization
// for state transitions while network calls run outside the lock.
type Manager struct {
	cfg     Config
	client  *api.Client
	store   storage.Storage
	log     zerolog.Logger
	now     func() time.Time
	metrics *internalmetrics.Metrics
	audit   *audit.Dispatcher

	bootstrapOnce sync.Once
	bootstrapErr  error

	mu    sync.Mutex
	state flows.State
	etag  string

	bg sync.WaitGroup
}

// Bootstrap hydrates the session from persisted state. It runs at most once
// per Manager; later calls return the first result. On return the session is
// in a determinate state (StatusReady or StatusError) and gate decisions can
// be trusted.
//
// With no valid stored token the session is Ready and logged out without any
// network call. With a valid token, a cache entry within TTL seeds the
// identity first so the UI can render immediately, then an authoritative
// forced fetch reconciles it as a sequential awaited step.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.bootstrapOnce.Do(func() {
		m.bootstrapErr = m.runBootstrap(ctx)
	})
	return m.bootstrapErr
}

func (m *Manager) runBootstrap(ctx context.Context) error {
	m.metrics.Inc(MetricBootstrap)

	m.mu.Lock()
	m.state.Status = flows.StatusLoading
	m.mu.Unlock()

	raw, ok := m.readToken(ctx)
	if !ok {
		m.settleLoggedOut()
		m.emit(AuditBootstrap, "", "", true, nil)
		return nil
	}

	claims, valid := token.ValidateAt(raw, m.now())
	if !valid {
		// Expired or malformed token: clear silently, this is a logged-out
		// state, not a user-visible error.
		m.clearSessionStorage(ctx)
		m.settleLoggedOut()
		m.emit(AuditBootstrap, "", "", true, nil)
		return nil
	}

	seeded := false
	if entry, ok := m.readCache(ctx); ok && flows.CacheFresh(entry.SavedAt(), m.now(), m.cfg.Cache.TTL) {
		m.mu.Lock()
		m.state = flows.ApplyFetchSuccess(m.state, &entry.Data)
		m.mu.Unlock()
		seeded = true
		m.metrics.Inc(MetricBootstrapCacheSeed)
	}

	err := m.FetchProfile(ctx, true)
	m.emit(AuditBootstrap, claims.UserID, claims.Role, err == nil, err)
	if err != nil && seeded {
		// The seeded identity keeps the UI alive; the failure is already
		// recorded in LastError.
		return nil
	}
	return err
}

// FetchProfile refreshes the identity from GET /user/profile.
//
// Unless force is true, a call within the cooldown window of the previous
// one is a no-op. On success the identity and cache are replaced and
// LastError cleared. A 401 clears token, cache, and identity: that is logout
// semantics, not an error. A 304 is success without a data change. Any other
// failure is recorded in LastError and returned; the identity is left as it
// was, since stale-but-present beats blanking the UI.
func (m *Manager) FetchProfile(ctx context.Context, force bool) error {
	m.mu.Lock()
	if !flows.ThrottleAllows(m.state, m.now(), m.cfg.Fetch.Cooldown, force) {
		m.mu.Unlock()
		m.metrics.Inc(MetricFetchSkipped)
		return nil
	}
	m.state.LastFetch = m.now()
	epoch := m.state.Epoch
	etag := m.etag
	m.mu.Unlock()

	res, err := m.client.GetProfile(ctx, etag)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Epoch != epoch {
		// The session moved (login/logout) while this response was in
		// flight. Applying it could resurrect a cleared identity.
		m.metrics.Inc(MetricFetchStaleDiscarded)
		return nil
	}

	if err != nil {
		m.state = flows.ApplyFetchFailure(m.state, err)
		m.metrics.Inc(MetricFetchFailure)
		return err
	}

	switch res.Kind {
	case api.ProfileUnauthorized:
		m.clearSessionStorage(ctx)
		m.etag = ""
		userID := identityID(m.state.Identity)
		m.state = flows.ApplyFetchUnauthorized(m.state)
		m.metrics.Inc(MetricFetchUnauthorized)
		m.emit(AuditSessionRevoked, userID, "", true, nil)
		return nil

	case api.ProfileNotModified:
		m.state = flows.ApplyFetchNotModified(m.state)
		m.metrics.Inc(MetricFetchNotModified)
		return nil

	default:
		m.state = flows.ApplyFetchSuccess(m.state, res.Identity)
		if res.ETag != "" {
			m.etag = res.ETag
		}
		m.writeCache(ctx, *res.Identity)
		m.metrics.Inc(MetricFetchSuccess)
		m.emit(AuditProfileRefresh, res.Identity.ID, res.Identity.Role, true, nil)
		return nil
	}
}

// Login installs a session from a backend login result. The input must
// carry both the token and the identity payload; a partial payload is
// rejected with [ErrInvalidLoginPayload] before anything is mutated.
//
// The supplied identity is seeded optimistically and a forced reconciliation
// fetch is scheduled in the background. A failed reconciliation is logged,
// never surfaced to the Login caller, and never undoes the optimistic login.
func (m *Manager) Login(ctx context.Context, in LoginInput) error {
	if err := flows.ValidateLoginInput(in); err != nil {
		m.metrics.Inc(MetricLoginRejected)
		m.emit(AuditLoginRejected, "", "", false, err)
		return err
	}

	identity := in.Identity.Clone()
	identity.ApplyDefaults()

	if err := m.store.Set(ctx, m.cfg.Token.StorageKey, in.Token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	m.writeCache(ctx, *identity)

	m.mu.Lock()
	m.state = flows.ApplyLogin(m.state, identity)
	m.etag = ""
	m.mu.Unlock()

	m.metrics.Inc(MetricLoginSuccess)
	m.emit(AuditLogin, identity.ID, identity.Role, true, nil)

	m.bg.Add(1)
	go func() {
		defer m.bg.Done()
		// Detached from the caller's cancellation: the login already
		// succeeded, reconciliation is housekeeping.
		if err := m.FetchProfile(context.WithoutCancel(ctx), true); err != nil {
			m.metrics.Inc(MetricLoginReconcileFailure)
			m.log.Warn().Err(err).Msg("login reconciliation failed")
		}
	}()

	return nil
}

// LoginWithCredentials calls POST /auth/login and installs the resulting
// session via [Manager.Login].
func (m *Manager) LoginWithCredentials(ctx context.Context, email, password string) (*Identity, error) {
	res, err := m.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := m.Login(ctx, LoginInput{Token: res.Token, Identity: &res.User}); err != nil {
		return nil, err
	}
	return m.Identity(), nil
}

// Logout clears the token, the cache entry, and the identity synchronously.
// Idempotent: logging out when already logged out is a no-op without error.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	userID := identityID(m.state.Identity)
	m.state = flows.ApplyLogout(m.state)
	m.etag = ""
	m.mu.Unlock()

	err := m.clearSessionStorage(ctx)
	m.metrics.Inc(MetricLogout)
	m.emit(AuditLogout, userID, "", err == nil, err)
	return err
}

// UpdateProfile submits profile changes and adopts the backend's response as
// the new identity; the submitted fields are never assumed to have been
// persisted verbatim. A 401 clears the session like any other authenticated
// call.
func (m *Manager) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*Identity, error) {
	m.mu.Lock()
	epoch := m.state.Epoch
	m.mu.Unlock()

	identity, err := m.client.UpdateProfile(ctx, req)
	if api.IsUnauthorized(err) {
		m.mu.Lock()
		if m.state.Epoch == epoch {
			m.clearSessionStorage(ctx)
			m.etag = ""
			m.state = flows.ApplyFetchUnauthorized(m.state)
		}
		m.mu.Unlock()
		m.metrics.Inc(MetricFetchUnauthorized)
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Epoch != epoch {
		return identity.Clone(), nil
	}
	m.state = flows.ApplyFetchSuccess(m.state, identity)
	m.etag = ""
	m.writeCache(ctx, *identity)
	return identity.Clone(), nil
}

// Snapshot returns a consistent read of the session.
func (m *Manager) Snapshot() SessionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return SessionSnapshot{
		Identity:  m.state.Identity.Clone(),
		Status:    m.state.Status,
		LastError: m.state.LastError,
	}
}

// Identity returns a copy of the current identity, or nil when logged out.
func (m *Manager) Identity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Identity.Clone()
}

// Status returns the session lifecycle phase.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Status
}

// LastError returns the most recent fetch failure, or nil.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastError
}

// Client exposes the REST client so storefront screens (orders, services,
// payments, blog, admin lists) share the manager's bearer interceptor.
func (m *Manager) Client() *api.Client {
	return m.client
}

// Metrics exposes the counter set; gate middleware records through it.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// MetricsSnapshot returns a point-in-time copy of all counters.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	return m.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (m *Manager) AuditDropped() uint64 {
	return m.audit.Dropped()
}

// Flush waits for background reconciliation work to finish.
func (m *Manager) Flush() {
	m.bg.Wait()
}

// Dispose flushes background work and stops the audit dispatcher.
func (m *Manager) Dispose() {
	m.Flush()
	m.audit.Close()
}

func (m *Manager) readToken(ctx context.Context) (string, bool) {
	value, err := m.store.Get(ctx, m.cfg.Token.StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.log.Warn().Err(err).Msg("token storage read failed")
		}
		return "", false
	}
	return value, value != ""
}

func (m *Manager) readCache(ctx context.Context) (flows.CacheEntry, bool) {
	raw, err := m.store.Get(ctx, m.cfg.Cache.StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.log.Warn().Err(err).Msg("cache storage read failed")
		}
		return flows.CacheEntry{}, false
	}
	return flows.DecodeCacheEntry(raw)
}

func (m *Manager) writeCache(ctx context.Context, identity Identity) {
	encoded, err := flows.EncodeCacheEntry(identity, m.now())
	if err == nil {
		err = m.store.Set(ctx, m.cfg.Cache.StorageKey, encoded)
	}
	if err != nil {
		// A dead cache only costs a loading flash on the next start.
		m.log.Warn().Err(err).Msg("cache storage write failed")
	}
}

func (m *Manager) clearSessionStorage(ctx context.Context) error {
	tokenErr := m.store.Delete(ctx, m.cfg.Token.StorageKey)
	cacheErr := m.store.Delete(ctx, m.cfg.Cache.StorageKey)
	if tokenErr != nil {
		return tokenErr
	}
	return cacheErr
}

func (m *Manager) settleLoggedOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Identity = nil
	m.state.Status = flows.StatusReady
	m.state.LastError = nil
}

func (m *Manager) emit(eventType, userID, role string, success bool, err error) {
	if m.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp: m.now(),
		EventType: eventType,
		UserID:    userID,
		Role:      role,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	m.audit.Emit(event)
}

func identityID(identity *Identity) string {
	if identity == nil {
		return ""
	}
	return identity.ID
}
