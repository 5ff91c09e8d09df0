package get_planning

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/internal/planning"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// FieldSource источник терраинов
type FieldSource interface {
	// ListFields получает терраины владельца; ownerID = 0 - все терраины
	ListFields(ctx context.Context, ownerID types.ID) ([]domain.Field, error)
}

// UnavailabilitySource источник записей о занятости
type UnavailabilitySource interface {
	ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error)
}

// DirectoryLoader загрузчик справочника броней, абонементов и клиентов
type DirectoryLoader interface {
	Load(ctx context.Context) *domain.DirectorySnapshot
	AddReservation(ctx context.Context, res domain.Reservation)
}

// GridBuilder построитель сетки планинга
type GridBuilder interface {
	Build(in planning.BuildInput) *planning.Grid
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время в часовом поясе терраинов
func (p *RealTimeProvider) Now() time.Time {
	if p.Location != nil {
		return time.Now().In(p.Location)
	}
	return time.Now()
}
