package list_fields

import (
	"context"

	listFields "github.com/m04kA/SMC-PlanningService/internal/usecase/list_fields"
)

type ListFieldsUseCase interface {
	Execute(ctx context.Context, req *listFields.Request) (*listFields.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
