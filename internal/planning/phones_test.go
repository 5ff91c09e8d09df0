package planning

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/logger"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

type MockFetcher struct{ mock.Mock }

func (m *MockFetcher) GetReservation(ctx context.Context, id types.ID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func newIndex(dir Directory, opts IndexOptions) *PhoneIndex {
	return NewPhoneIndex(dir, opts, logger.Nop(), nil)
}

func subscriptionRecord(id, sourceID int64) domain.Unavailability {
	return domain.Unavailability{
		ID: types.ID(id), FieldID: 1, Date: "2025-06-04",
		StartTime: "18:00", EndTime: "19:00",
		Kind: domain.KindSubscription, SourceID: types.ID(sourceID),
	}
}

func punctualRecord(id, sourceID int64, date, start string) domain.Unavailability {
	return domain.Unavailability{
		ID: types.ID(id), FieldID: 1, Date: date,
		StartTime: types.TimeString(start), EndTime: "23:00",
		Kind: domain.KindPunctualReservation, SourceID: types.ID(sourceID),
	}
}

func TestResolve_SubscriptionPrefersDirectPhone(t *testing.T) {
	ix := newIndex(Directory{
		Subscriptions: []domain.Subscription{{ID: 5, ClientID: 9, ClientPhone: "600000001"}},
		Clients:       []domain.Client{{ID: 9, Phone: "699999999"}},
	}, IndexOptions{})

	assert.Equal(t, "600000001", ix.Resolve(context.Background(), subscriptionRecord(100, 5)))
}

func TestResolve_SubscriptionViaClient(t *testing.T) {
	ix := newIndex(Directory{
		Subscriptions: []domain.Subscription{{ID: 5, ClientID: 9}},
		Clients:       []domain.Client{{ID: 9, Phone: "699999999"}},
	}, IndexOptions{})

	assert.Equal(t, "699999999", ix.Resolve(context.Background(), subscriptionRecord(100, 5)))
}

func TestResolve_SubscriptionViaScheduleSlotID(t *testing.T) {
	ix := newIndex(Directory{
		Subscriptions: []domain.Subscription{{
			ID: 5, ClientID: 9,
			Schedule: []domain.ScheduleSlot{{ID: 51, SubscriptionID: 5}, {ID: 52, SubscriptionID: 5}},
		}},
		Clients: []domain.Client{{ID: 9, Phone: "699999999"}},
	}, IndexOptions{})

	assert.Equal(t, "699999999", ix.Resolve(context.Background(), subscriptionRecord(100, 52)))
}

func TestResolve_SubscriptionViaSibling(t *testing.T) {
	ix := newIndex(Directory{
		Subscriptions: []domain.Subscription{
			{ID: 5, ClientID: 9, Schedule: []domain.ScheduleSlot{{ID: 51}}},
			{ID: 6, ClientID: 9, ClientPhone: "611111111"},
		},
	}, IndexOptions{})

	assert.Equal(t, "611111111", ix.Resolve(context.Background(), subscriptionRecord(100, 51)))
}

func TestResolve_ClientsUnavailableRendersEmpty(t *testing.T) {
	// Список клиентов не загрузился: абонемент без прямого телефона остается без номера
	ix := newIndex(Directory{
		Subscriptions: []domain.Subscription{{ID: 5, ClientID: 9}},
	}, IndexOptions{})

	assert.NotPanics(t, func() {
		assert.Equal(t, "", ix.Resolve(context.Background(), subscriptionRecord(100, 5)))
	})
}

func TestResolve_PunctualReservation(t *testing.T) {
	ix := newIndex(Directory{
		Reservations: []domain.Reservation{{ID: 42, Date: "2025-06-04", StartTime: "20:00", ClientPhone: "622222222", FieldID: 1}},
	}, IndexOptions{})

	assert.Equal(t, "622222222", ix.Resolve(context.Background(), punctualRecord(100, 42, "2025-06-04", "20:00")))
}

func TestResolve_FallbackByRecordID(t *testing.T) {
	// sourceId устарел, но бронь находится по дате/времени/терраину
	ix := newIndex(Directory{
		Reservations: []domain.Reservation{{ID: 42, Date: "2025-06-04", StartTime: "20:00:00", ClientPhone: "622222222", FieldID: 1}},
	}, IndexOptions{})

	rec := punctualRecord(100, 777, "2025-06-04", "20:00")
	ix.Prime(context.Background(), []domain.Unavailability{rec})

	// кэш по sourceId заполнен при Prime
	assert.Equal(t, "622222222", ix.Resolve(context.Background(), rec))

	// другая запись, чей ID совпал с закэшированным ID записи
	other := punctualRecord(100, 0, "2025-06-05", "10:00")
	assert.Equal(t, "622222222", ix.Resolve(context.Background(), other))
}

func TestResolve_FirstResolutionWins(t *testing.T) {
	ix := newIndex(Directory{
		Reservations: []domain.Reservation{
			{ID: 5, ClientPhone: "600000005"},
			{ID: 5, ClientPhone: "699999995"},
		},
	}, IndexOptions{})

	assert.Equal(t, "600000005", ix.Resolve(context.Background(), punctualRecord(100, 5, "2025-06-04", "10:00")))
}

func TestResolve_ReservationAndSubscriptionWithSameID(t *testing.T) {
	ix := newIndex(Directory{
		Reservations:  []domain.Reservation{{ID: 5, ClientPhone: "0611111111"}},
		Subscriptions: []domain.Subscription{{ID: 5, ClientPhone: "0622222222"}},
	}, IndexOptions{})

	assert.Equal(t, "0622222222", ix.Resolve(context.Background(), subscriptionRecord(1, 5)))
	assert.Equal(t, "0611111111", ix.Resolve(context.Background(), punctualRecord(2, 5, "2025-06-04", "10:00")))
	// повторное разрешение из кэша не смешивает типы
	assert.Equal(t, "0622222222", ix.Resolve(context.Background(), subscriptionRecord(3, 5)))
}

func TestResolve_Unresolved(t *testing.T) {
	ix := newIndex(Directory{}, IndexOptions{})

	assert.Equal(t, "", ix.Resolve(context.Background(), subscriptionRecord(100, 5)))
	assert.Equal(t, "", ix.Resolve(context.Background(), punctualRecord(101, 6, "2025-06-04", "10:00")))
}

func TestResolve_DeferredLookupFillsCacheAndSignals(t *testing.T) {
	release := make(chan time.Time)
	fetcher := new(MockFetcher)
	fetcher.On("GetReservation", mock.Anything, types.ID(42)).
		WaitUntil(release).
		Return(&domain.Reservation{ID: 42, Date: "2025-06-04", ClientPhone: "633333333"}, nil).Once()

	var resolved atomic.Int32
	var resolvedID atomic.Int64
	ix := newIndex(Directory{}, IndexOptions{
		Lookup: NewReservationLookup(fetcher, nil, time.Second),
		OnResolved: func(res domain.Reservation) {
			resolved.Add(1)
			resolvedID.Store(int64(res.ID))
		},
	})

	rec := punctualRecord(100, 42, "2025-06-04", "20:00")
	assert.Equal(t, "", ix.Resolve(context.Background(), rec), "first render has no phone yet")
	// повторное обращение не запускает второй запрос
	assert.Equal(t, "", ix.Resolve(context.Background(), rec))
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, ix.Wait(ctx))

	select {
	case <-ix.Changes():
	default:
		t.Fatal("expected change signal after deferred lookup")
	}

	assert.Equal(t, "633333333", ix.Resolve(context.Background(), rec))
	assert.Equal(t, int32(1), resolved.Load())
	assert.Equal(t, int64(42), resolvedID.Load())
	// догруженная бронь находится и для других записей с тем же sourceId
	assert.Equal(t, "633333333", ix.Resolve(context.Background(), punctualRecord(101, 42, "2025-06-11", "20:00")))
	fetcher.AssertExpectations(t)
}

func TestPrime_DeferredLookupFailureIsNotFatal(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("GetReservation", mock.Anything, types.ID(42)).Return(nil, errors.New("boom")).Once()

	ix := newIndex(Directory{}, IndexOptions{Lookup: NewReservationLookup(fetcher, nil, time.Second)})
	rec := punctualRecord(100, 42, "2025-06-04", "20:00")

	ix.Prime(context.Background(), []domain.Unavailability{rec, rec})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, ix.Wait(ctx))

	assert.Equal(t, "", ix.Resolve(context.Background(), rec))
	fetcher.AssertNumberOfCalls(t, "GetReservation", 1)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) RecordGridBuild(trigger string)        { m.Called(trigger) }
func (m *MockMetrics) RecordGridRecord(result string)        { m.Called(result) }
func (m *MockMetrics) RecordPhoneResolution(strategy string) { m.Called(strategy) }
func (m *MockMetrics) RecordDeferredLookup(result string)    { m.Called(result) }

func TestResolve_FinishedLookupWithoutPhoneIsUnresolved(t *testing.T) {
	tests := []struct {
		name   string
		res    *domain.Reservation
		err    error
		result string
	}{
		{name: "lookup failed", err: errors.New("boom"), result: lookupFailed},
		{name: "reservation without phone", res: &domain.Reservation{ID: 42, Date: "2025-06-04"}, result: lookupNoPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockFetcher)
			if tt.res != nil {
				fetcher.On("GetReservation", mock.Anything, types.ID(42)).Return(tt.res, nil).Once()
			} else {
				fetcher.On("GetReservation", mock.Anything, types.ID(42)).Return(nil, tt.err).Once()
			}

			metrics := new(MockMetrics)
			metrics.On("RecordPhoneResolution", StrategyDeferred).Once()
			metrics.On("RecordDeferredLookup", tt.result).Once()
			metrics.On("RecordPhoneResolution", StrategyUnresolved).Twice()

			var buf bytes.Buffer
			ix := NewPhoneIndex(Directory{}, IndexOptions{Lookup: NewReservationLookup(fetcher, nil, time.Second)},
				logger.NewWithWriter(&buf, "warn"), metrics)
			rec := punctualRecord(100, 42, "2025-06-04", "20:00")

			assert.Equal(t, "", ix.Resolve(context.Background(), rec))

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			require.NoError(t, ix.Wait(ctx))

			// загрузка одноразовая: после неудачи запись считается неразрешенной
			assert.Equal(t, "", ix.Resolve(context.Background(), rec))
			assert.Equal(t, "", ix.Resolve(context.Background(), rec))

			assert.Contains(t, buf.String(), "no client phone for unavailability id=100")
			fetcher.AssertNumberOfCalls(t, "GetReservation", 1)
			metrics.AssertExpectations(t)
		})
	}
}

func TestReservationLookup_DeduplicatesConcurrentCalls(t *testing.T) {
	release := make(chan time.Time)
	fetcher := new(MockFetcher)
	fetcher.On("GetReservation", mock.Anything, types.ID(42)).
		WaitUntil(release).
		Return(&domain.Reservation{ID: 42, ClientPhone: "633333333"}, nil)

	lookup := NewReservationLookup(fetcher, nil, time.Second)

	results := make(chan *domain.Reservation, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := lookup.Fetch(context.Background(), 42)
			if err == nil {
				results <- res
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		select {
		case res := <-results:
			assert.Equal(t, types.Phone("633333333"), res.ClientPhone)
		case <-time.After(2 * time.Second):
			t.Fatal("lookup did not finish")
		}
	}
	fetcher.AssertNumberOfCalls(t, "GetReservation", 1)
}
