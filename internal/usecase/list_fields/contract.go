package list_fields

import (
	"context"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// FieldSource источник терраинов
type FieldSource interface {
	ListFields(ctx context.Context, ownerID types.ID) ([]domain.Field, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
