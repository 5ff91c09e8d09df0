package planning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// ErrLookupThrottled возвращается, когда лимит отложенных запросов исчерпан до истечения таймаута
var ErrLookupThrottled = errors.New("planning: deferred reservation lookup throttled")

// ReservationLookup загрузка одиночных броней для отложенного разрешения телефонов.
// Один экземпляр на процесс: одновременные запросы одного и того же ID
// схлопываются в один сетевой вызов, общий поток запросов ограничивается limiter.
type ReservationLookup struct {
	fetcher ReservationFetcher
	limiter *rate.Limiter
	timeout time.Duration
	group   singleflight.Group
}

// NewReservationLookup создает загрузчик. limiter может быть nil (без ограничения).
func NewReservationLookup(fetcher ReservationFetcher, limiter *rate.Limiter, timeout time.Duration) *ReservationLookup {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ReservationLookup{
		fetcher: fetcher,
		limiter: limiter,
		timeout: timeout,
	}
}

// Fetch загружает бронь по ID
func (l *ReservationLookup) Fetch(ctx context.Context, id types.ID) (*domain.Reservation, error) {
	v, err, _ := l.group.Do(id.String(), func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		if l.limiter != nil {
			if err := l.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: id=%d: %v", ErrLookupThrottled, id, err)
			}
		}

		return l.fetcher.GetReservation(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	res, ok := v.(*domain.Reservation)
	if !ok || res == nil {
		return nil, fmt.Errorf("planning: empty reservation for id=%d", id)
	}
	// Копия: результат singleflight общий для всех ожидающих
	out := *res
	return &out, nil
}
