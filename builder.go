package stitchgate

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MrEthical07/stitchgate/api"
	"github.com/MrEthical07/stitchgate/internal/audit"
	internalmetrics "github.com/MrEthical07/stitchgate/internal/metrics"
	"github.com/MrEthical07/stitchgate/storage"
)

// Builder assembles a [Manager]. Configure it during initialization and call
// [Builder.Build] exactly once.
type Builder struct {
	config Config

	store      storage.Storage
	httpClient *http.Client
	apiClient  *api.Client

	logger    zerolog.Logger
	loggerSet bool

	auditSink AuditSink
	clock     func() time.Time

	built bool
}

// New returns a builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStorage sets the persisted client-state collaborator. Required.
func (b *Builder) WithStorage(store storage.Storage) *Builder {
	b.store = store
	return b
}

// WithHTTPClient overrides the HTTP client handed to the REST client.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithAPIClient injects a prebuilt REST client. When set, the builder does
// not construct one and Config.API is ignored; the injected client must
// already attach bearer tokens from the same storage.
func (b *Builder) WithAPIClient(client *api.Client) *Builder {
	b.apiClient = client
	return b
}

// WithLogger sets the logger used for background failures and request
// tracing. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.loggerSet = true
	return b
}

// WithAuditSink sets the destination for session lifecycle events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithAuditEnabled toggles the audit dispatcher.
func (b *Builder) WithAuditEnabled(enabled bool) *Builder {
	b.config.Audit.Enabled = enabled
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithClock overrides the wall clock. Test seam; production code leaves it
// unset.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the wiring and returns a ready [Manager].
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("storage required")
	}

	logger := b.logger
	if !b.loggerSet {
		logger = zerolog.Nop()
	}

	clock := b.clock
	if clock == nil {
		clock = time.Now
	}

	client := b.apiClient
	if client == nil {
		if cfg.API.BaseURL == "" {
			return nil, errors.New("API base URL required")
		}
		var err error
		client, err = api.New(api.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			Tokens: &storageTokenSource{
				store: b.store,
				key:   cfg.Token.StorageKey,
			},
			HTTPClient: b.httpClient,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
	}

	m := &Manager{
		cfg:     cfg,
		client:  client,
		store:   b.store,
		log:     logger,
		now:     clock,
		metrics: internalmetrics.New(internalmetrics.Config{Enabled: cfg.Metrics.Enabled}),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
		}, b.auditSink),
	}

	b.built = true

	return m, nil
}

// storageTokenSource adapts token storage to [api.TokenSource] so the
// request interceptor always reads the token the manager last persisted.
type storageTokenSource struct {
	store storage.Storage
	key   string
}

func (s *storageTokenSource) Token() (string, bool) {
	value, err := s.store.Get(context.Background(), s.key)
	if err != nil || value == "" {
		return "", false
	}
	return value, true
}
