package list_unavailabilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	backendRepo "github.com/m04kA/SMC-PlanningService/internal/infra/storage/backend"
	"github.com/m04kA/SMC-PlanningService/internal/integrations/terrainapi"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// UseCase use case получения записей о занятости терраина за период
type UseCase struct {
	source UnavailabilitySource
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(source UnavailabilitySource, logger Logger) *UseCase {
	return &UseCase{
		source: source,
		logger: logger,
	}
}

// Execute выполняет use case.
// Фильтр по датам строковый: даты в формате YYYY-MM-DD сравниваются лексикографически.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListUnavailabilities: field=%d, from=%s, to=%s", req.FieldID, req.From, req.To)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ListUnavailabilities: validation failed: %v", err)
		return nil, err
	}

	// 2. Записи терраина
	records, err := uc.source.ListUnavailabilities(ctx, req.FieldID)
	if err != nil {
		if errors.Is(err, terrainapi.ErrNotFound) || errors.Is(err, backendRepo.ErrNotFound) {
			uc.logger.Warn("ListUnavailabilities: field id=%d not found", req.FieldID)
			return nil, ErrFieldNotFound
		}
		uc.logger.Error("ListUnavailabilities: failed to get records for field=%d: %v", req.FieldID, err)
		return nil, fmt.Errorf("%w: failed to get unavailabilities: %v", ErrInternal, err)
	}

	// 3. Фильтр по периоду
	items := make([]domain.Unavailability, 0, len(records))
	for _, rec := range records {
		if types.DateInRange(rec.Date, req.From, req.To) {
			items = append(items, rec)
		}
	}

	uc.logger.Info("ListUnavailabilities: %d of %d records in range for field=%d", len(items), len(records), req.FieldID)
	return &Response{FieldID: req.FieldID, Items: items}, nil
}
