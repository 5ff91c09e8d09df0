package directory

import (
	"context"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
)

// Source источник справочных данных (REST клиент или Postgres)
type Source interface {
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// Cache кэш снимка справочника
type Cache interface {
	Get(ctx context.Context) (*domain.DirectorySnapshot, error)
	Set(ctx context.Context, snap *domain.DirectorySnapshot) error
	Invalidate(ctx context.Context) error
}

// MetricsRecorder метрики загрузки справочника
type MetricsRecorder interface {
	RecordBackendFetchError(collection string)
	RecordDirectoryCache(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
