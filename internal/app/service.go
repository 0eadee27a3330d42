// Package service wires the record collections, their persistence, and the
// import/export entry points used by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/agentdesk/internal/adapters/kvstore"
	eventqueue "github.com/okian/agentdesk/internal/adapters/mq/queue"
	workerpool "github.com/okian/agentdesk/internal/adapters/mq/worker"
	"github.com/okian/agentdesk/internal/adapters/repository"
	"github.com/okian/agentdesk/internal/domain/ident"
	"github.com/okian/agentdesk/internal/domain/model"
	"github.com/okian/agentdesk/internal/domain/normalize"
	"github.com/okian/agentdesk/internal/domain/query"
	"github.com/okian/agentdesk/internal/domain/stats"
	"github.com/okian/agentdesk/internal/seed"
	"github.com/okian/agentdesk/pkg/logger"
	"github.com/okian/agentdesk/pkg/metrics"
)

const workerShutdownTimeout = 10 * time.Second

// Service owns one repository per collection plus the branding and session
// values, all backed by the same store.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend     kvstore.Backend
	players     *repository.Collection[model.Player]
	clubs       *repository.Collection[model.Club]
	friendlies  *repository.Collection[model.Friendly]
	contracts   *repository.Collection[model.Contract]
	branding    *repository.Value[model.Branding]
	session     *repository.Value[model.Session]
	collections map[model.Kind]collection
	normalizer  *normalize.Normalizer
	ids         *ident.Generator
	importQueue *eventqueue.InMemoryQueue
	workerPool  *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	seedOnEmpty bool

	// State
	started     bool
	stopWorkers context.CancelFunc

	logger  logger.Logger
	metrics *metrics.Manager
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBackend sets the backing store. Defaults to an in-memory store.
func WithBackend(b kvstore.Backend) Option {
	return func(s *Service) {
		if b != nil {
			s.backend = b
		}
	}
}

// WithWorkerCount sets the number of background import workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending background imports.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSeedOnEmpty controls whether never-stored collections start from the
// sample records.
func WithSeedOnEmpty(enabled bool) Option {
	return func(s *Service) {
		s.seedOnEmpty = enabled
	}
}

// WithIDGenerator sets the identifier generator.
func WithIDGenerator(g *ident.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics manager. Defaults to the global one.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// New loads every collection from the backing store. Background imports
// are available once Start has been called.
func New(ctx context.Context, opts ...Option) *Service {
	s := &Service{
		workerCount: 2,
		queueSize:   64,
		seedOnEmpty: true,
		metrics:     metrics.Global(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.backend == nil {
		s.backend = kvstore.NewMemoryBackend()
	}
	if s.ids == nil {
		s.ids = ident.New()
	}
	s.normalizer = normalize.New(s.ids)

	data := seed.Empty()
	if s.seedOnEmpty {
		data = seed.New(s.ids)
	}

	repoOpts := func(kind model.Kind) []repository.Option {
		return []repository.Option{
			repository.WithName(string(kind)),
			repository.WithIDGenerator(s.ids),
			repository.WithLogger(s.logger.Named("repository")),
			repository.WithMetrics(s.metrics),
		}
	}
	s.players = repository.NewCollection(ctx, s.backend, model.KindPlayers.StorageKey(), data.Players, repoOpts(model.KindPlayers)...)
	s.clubs = repository.NewCollection(ctx, s.backend, model.KindClubs.StorageKey(), data.Clubs, repoOpts(model.KindClubs)...)
	s.friendlies = repository.NewCollection(ctx, s.backend, model.KindFriendlies.StorageKey(), data.Friendlies, repoOpts(model.KindFriendlies)...)
	s.contracts = repository.NewCollection(ctx, s.backend, model.KindContracts.StorageKey(), data.Contracts, repoOpts(model.KindContracts)...)
	s.branding = repository.NewValue(ctx, s.backend, model.BrandingKey, data.Branding,
		repository.WithName("branding"), repository.WithLogger(s.logger.Named("repository")), repository.WithMetrics(s.metrics))
	s.session = repository.NewValue(ctx, s.backend, model.SessionKey, model.Session{},
		repository.WithName("session"), repository.WithLogger(s.logger.Named("repository")), repository.WithMetrics(s.metrics))

	s.collections = map[model.Kind]collection{
		model.KindPlayers: &typedCollection[model.Player]{
			k: model.KindPlayers, repo: s.players, normalize: s.normalizer.Player,
			edit: model.Player.ClampBirthYear,
		},
		model.KindClubs: &typedCollection[model.Club]{
			k: model.KindClubs, repo: s.clubs, normalize: s.normalizer.Club,
		},
		model.KindFriendlies: &typedCollection[model.Friendly]{
			k: model.KindFriendlies, repo: s.friendlies, normalize: s.normalizer.Friendly,
		},
		model.KindContracts: &typedCollection[model.Contract]{
			k: model.KindContracts, repo: s.contracts, normalize: s.normalizer.Contract,
		},
	}
	return s
}

// Start launches the background import workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.importQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithMetrics(s.metrics),
	)
	s.workerPool = workerpool.NewPool(s.workerCount, s.importQueue, s,
		workerpool.WithLogger(s.logger),
		workerpool.WithMetrics(s.metrics),
	)
	// Workers outlive the caller's context so that Stop can drain accepted jobs.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stopWorkers = cancel
	s.workerPool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "agent dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains pending imports and stops the workers. The backing store
// stays open; see Close.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "import workers did not stop cleanly", logger.Error(err))
	}
	s.stopWorkers()

	s.started = false
	s.logger.Info(ctx, "agent dashboard service stopped")
}

// Close stops the service and releases the backing store.
func (s *Service) Close() error {
	s.Stop()
	if err := s.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// Players returns the player repository.
func (s *Service) Players() *repository.Collection[model.Player] { return s.players }

// Clubs returns the club repository.
func (s *Service) Clubs() *repository.Collection[model.Club] { return s.clubs }

// Friendlies returns the friendly-request repository.
func (s *Service) Friendlies() *repository.Collection[model.Friendly] { return s.friendlies }

// Contracts returns the contract repository.
func (s *Service) Contracts() *repository.Collection[model.Contract] { return s.contracts }

func (s *Service) collection(kind model.Kind) (collection, error) {
	c, ok := s.collections[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return c, nil
}

// List returns the records of kind matching q, newest first.
func (s *Service) List(kind model.Kind, q query.Query) ([]model.Record, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	return c.list(q), nil
}

// Facets returns the distinct non-empty values of field in kind.
func (s *Service) Facets(kind model.Kind, field string) ([]string, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	return c.facets(field), nil
}

// Upsert stores a hand-edited record given as JSON. Player birth years are
// clamped to the range the edit form accepts.
func (s *Service) Upsert(ctx context.Context, kind model.Kind, raw []byte) (model.Record, error) {
	c, err := s.collection(kind)
	if err != nil {
		return nil, err
	}
	return c.upsertJSON(ctx, raw)
}

// Remove deletes the record with id from kind. An unknown id is not an error.
func (s *Service) Remove(ctx context.Context, kind model.Kind, id string) error {
	c, err := s.collection(kind)
	if err != nil {
		return err
	}
	c.remove(ctx, id)
	return nil
}

// KPIs returns the dashboard summary.
func (s *Service) KPIs() stats.KPIs {
	return stats.Compute(s.players.All(), s.clubs.All(), s.friendlies.All(), s.contracts.All())
}

// Stats is the service status reported by monitoring endpoints.
type Stats struct {
	Started          bool       `json:"started"`
	Workers          int        `json:"workers"`
	QueueLength      int        `json:"queueLength"`
	QueueCapacity    int        `json:"queueCapacity"`
	ImportsProcessed int64      `json:"importsProcessed"`
	KPIs             stats.KPIs `json:"kpis"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Started:       s.started,
		Workers:       s.workerCount,
		QueueCapacity: s.queueSize,
		KPIs:          s.KPIs(),
	}
	if s.started {
		st.QueueLength = s.importQueue.Len(ctx)
		st.ImportsProcessed = s.workerPool.Processed()
		s.metrics.UpdateImportQueue(st.QueueLength, s.queueSize)
	}
	for kind, c := range s.collections {
		s.metrics.UpdateCollectionSize(string(kind), c.size())
	}
	return st
}
