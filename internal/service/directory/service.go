package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/internal/infra/storage/snapshot"
)

// Коллекции справочника (метка метрики)
const (
	CollectionReservations  = "reservations"
	CollectionSubscriptions = "subscriptions"
	CollectionClients       = "clients"
)

// Результаты обращения к кэшу (метка метрики)
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// Loader загружает снимок справочника: из кэша или параллельно из бэкенда
type Loader struct {
	source  Source
	cache   Cache
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time

	// mu сериализует дозапись броней в кэш внутри процесса
	mu sync.Mutex
}

// NewLoader создает загрузчик; cache и metrics могут быть nil
func NewLoader(source Source, cache Cache, logger Logger, metrics MetricsRecorder) *Loader {
	return &Loader{
		source:  source,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Load возвращает снимок справочника.
// Ошибка загрузки отдельной коллекции не прерывает загрузку: вместо нее
// подставляется пустая коллекция, а в снимке выставляется флаг Degraded.
// Неполный снимок в кэш не пишется.
func (l *Loader) Load(ctx context.Context) *domain.DirectorySnapshot {
	if snap := l.fromCache(ctx); snap != nil {
		return snap
	}

	snap := &domain.DirectorySnapshot{LoadedAt: l.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := l.source.ListReservations(gctx)
		if err != nil {
			l.fetchFailed(CollectionReservations, err)
			snap.Degraded.Reservations = true
			items = []domain.Reservation{}
		}
		snap.Reservations = items
		return nil
	})
	g.Go(func() error {
		items, err := l.source.ListSubscriptions(gctx)
		if err != nil {
			l.fetchFailed(CollectionSubscriptions, err)
			snap.Degraded.Subscriptions = true
			items = []domain.Subscription{}
		}
		snap.Subscriptions = items
		return nil
	})
	g.Go(func() error {
		items, err := l.source.ListClients(gctx)
		if err != nil {
			l.fetchFailed(CollectionClients, err)
			snap.Degraded.Clients = true
			items = []domain.Client{}
		}
		snap.Clients = items
		return nil
	})
	// горутины не возвращают ошибок
	_ = g.Wait()

	l.logger.Info("Load: directory loaded: reservations=%d subscriptions=%d clients=%d degraded=%t",
		len(snap.Reservations), len(snap.Subscriptions), len(snap.Clients), snap.Degraded.Any())

	if l.cache != nil && !snap.Degraded.Any() {
		if err := l.cache.Set(ctx, snap); err != nil {
			l.logger.Warn("Load: failed to store directory snapshot: %v", err)
		}
	}

	return snap
}

// AddReservation дописывает в кэшированный снимок бронь, найденную отложенной загрузкой
func (l *Loader) AddReservation(ctx context.Context, res domain.Reservation) {
	if l.cache == nil || res.ID.IsZero() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	snap, err := l.cache.Get(ctx)
	if err != nil {
		if !errors.Is(err, snapshot.ErrCacheMiss) {
			l.logger.Warn("AddReservation: failed to read directory snapshot: %v", err)
			l.dropCorrupted(ctx, err)
		}
		return
	}
	if snap.HasReservation(res.ID) {
		return
	}

	snap.Reservations = append(snap.Reservations, res)
	if err := l.cache.Set(ctx, snap); err != nil {
		l.logger.Warn("AddReservation: failed to store reservation id=%d: %v", res.ID, err)
		return
	}

	l.logger.Info("AddReservation: reservation id=%d added to directory snapshot", res.ID)
}

func (l *Loader) fromCache(ctx context.Context) *domain.DirectorySnapshot {
	if l.cache == nil {
		return nil
	}

	snap, err := l.cache.Get(ctx)
	switch {
	case err == nil:
		l.recordCache(cacheHit)
		return snap
	case errors.Is(err, snapshot.ErrCacheMiss):
		l.recordCache(cacheMiss)
	default:
		l.recordCache(cacheError)
		l.logger.Warn("Load: directory cache unavailable: %v", err)
		l.dropCorrupted(ctx, err)
	}
	return nil
}

// dropCorrupted удаляет из кэша нечитаемый снимок
func (l *Loader) dropCorrupted(ctx context.Context, err error) {
	if !errors.Is(err, snapshot.ErrCacheCorrupted) {
		return
	}
	if err := l.cache.Invalidate(ctx); err != nil {
		l.logger.Warn("Loader: failed to drop corrupted directory snapshot: %v", err)
		return
	}
	l.logger.Info("Loader: corrupted directory snapshot dropped")
}

func (l *Loader) fetchFailed(collection string, err error) {
	l.logger.Error("Load: failed to fetch %s, continuing with empty collection: %v", collection, err)
	if l.metrics != nil {
		l.metrics.RecordBackendFetchError(collection)
	}
}

func (l *Loader) recordCache(result string) {
	if l.metrics != nil {
		l.metrics.RecordDirectoryCache(result)
	}
}
