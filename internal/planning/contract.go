package planning

import (
	"context"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// ReservationFetcher загружает одну бронь по ID (отложенное разрешение телефона)
type ReservationFetcher interface {
	GetReservation(ctx context.Context, id types.ID) (*domain.Reservation, error)
}

// MetricsRecorder метрики построения планинга
type MetricsRecorder interface {
	RecordGridBuild(trigger string)
	RecordGridRecord(result string)
	RecordPhoneResolution(strategy string)
	RecordDeferredLookup(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type nopMetrics struct{}

func (nopMetrics) RecordGridBuild(string)       {}
func (nopMetrics) RecordGridRecord(string)      {}
func (nopMetrics) RecordPhoneResolution(string) {}
func (nopMetrics) RecordDeferredLookup(string)  {}
