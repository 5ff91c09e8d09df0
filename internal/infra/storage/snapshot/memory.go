package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
)

// MemoryCache хранит снимок в памяти процесса (Redis выключен)
type MemoryCache struct {
	mu      sync.RWMutex
	snap    *domain.DirectorySnapshot
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache создает кэш в памяти; ttl <= 0 - без истечения
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get возвращает копию снимка или ErrCacheMiss
func (c *MemoryCache) Get(_ context.Context) (*domain.DirectorySnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snap == nil {
		return nil, ErrCacheMiss
	}
	if c.ttl > 0 && !c.now().Before(c.expires) {
		return nil, ErrCacheMiss
	}

	return cloneSnapshot(c.snap), nil
}

// Set сохраняет копию снимка
func (c *MemoryCache) Set(_ context.Context, snap *domain.DirectorySnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = cloneSnapshot(snap)
	c.expires = c.now().Add(c.ttl)
	return nil
}

// Invalidate очищает кэш
func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = nil
	return nil
}

func cloneSnapshot(s *domain.DirectorySnapshot) *domain.DirectorySnapshot {
	out := *s
	out.Reservations = append([]domain.Reservation(nil), s.Reservations...)
	out.Subscriptions = append([]domain.Subscription(nil), s.Subscriptions...)
	out.Clients = append([]domain.Client(nil), s.Clients...)
	return &out
}
