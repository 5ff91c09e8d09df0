package snapshot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
)

func testSnapshot() *domain.DirectorySnapshot {
	return &domain.DirectorySnapshot{
		Reservations: []domain.Reservation{
			{ID: 42, Date: "2025-06-03", StartTime: "20:00", ClientPhone: "0612345678", FieldID: 1},
		},
		Subscriptions: []domain.Subscription{
			{ID: 10, FieldID: 1, ClientID: 3, Schedule: []domain.ScheduleSlot{{ID: 100, SubscriptionID: 10, Weekday: "MARDI"}}},
		},
		Clients: []domain.Client{
			{ID: 3, LastName: "Martin", Phone: "0699999999"},
		},
		LoadedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestRedisCache_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", time.Minute)

	data, err := json.Marshal(testSnapshot())
	require.NoError(t, err)
	mock.ExpectGet(DefaultKey).SetVal(string(data))

	got, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, got.HasReservation(42))
	assert.Equal(t, "0699999999", got.Clients[0].Phone.String())
	assert.Len(t, got.Subscriptions[0].Schedule, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "planning:dir", time.Minute)

	mock.ExpectGet("planning:dir").RedisNil()

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", time.Minute)

	mock.ExpectGet(DefaultKey).SetErr(assert.AnError)

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheRead)
}

func TestRedisCache_GetCorrupted(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", time.Minute)

	mock.ExpectGet(DefaultKey).SetVal("{not json")

	_, err := cache.Get(context.Background())
	assert.ErrorIs(t, err, ErrCacheCorrupted)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", 5*time.Minute)

	mock.Regexp().ExpectSet(DefaultKey, `.*`, 5*time.Minute).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), testSnapshot()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", 5*time.Minute)

	mock.Regexp().ExpectSet(DefaultKey, `.*`, 5*time.Minute).SetErr(assert.AnError)

	err := cache.Set(context.Background(), testSnapshot())
	assert.ErrorIs(t, err, ErrCacheWrite)
}

func TestRedisCache_Invalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", time.Minute)

	mock.ExpectDel(DefaultKey).SetVal(1)

	require.NoError(t, cache.Invalidate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_InvalidateError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewRedisCache(db, "", time.Minute)

	mock.ExpectDel(DefaultKey).SetErr(assert.AnError)

	assert.ErrorIs(t, cache.Invalidate(context.Background()), ErrCacheWrite)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	cache := NewMemoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	snap := testSnapshot()
	require.NoError(t, cache.Set(ctx, snap))

	// изменения исходного снимка не попадают в кэш
	snap.Reservations[0].ID = 7
	snap.Reservations = append(snap.Reservations, domain.Reservation{ID: 8})

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Reservations, 1)
	assert.True(t, got.HasReservation(42))

	now = now.Add(time.Minute)
	_, err = cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, testSnapshot()))
	require.NoError(t, cache.Invalidate(ctx))
	_, err = cache.Get(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
