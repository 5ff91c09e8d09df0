package list_unavailabilities

import (
	"context"

	listUnavailabilities "github.com/m04kA/SMC-PlanningService/internal/usecase/list_unavailabilities"
)

type ListUnavailabilitiesUseCase interface {
	Execute(ctx context.Context, req *listUnavailabilities.Request) (*listUnavailabilities.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
