package list_unavailabilities

import (
	"context"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// UnavailabilitySource источник записей о занятости
type UnavailabilitySource interface {
	ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
