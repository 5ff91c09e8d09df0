package list_fields

import (
	"context"
	"errors"
	"fmt"

	backendRepo "github.com/m04kA/SMC-PlanningService/internal/infra/storage/backend"
	"github.com/m04kA/SMC-PlanningService/internal/integrations/terrainapi"
)

// UseCase use case получения терраинов владельца
type UseCase struct {
	fields FieldSource
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(fields FieldSource, logger Logger) *UseCase {
	return &UseCase{
		fields: fields,
		logger: logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ListFields: owner=%d", req.OwnerID)

	if req.OwnerID <= 0 {
		uc.logger.Warn("ListFields: validation failed: ownerID=%d", req.OwnerID)
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	fields, err := uc.fields.ListFields(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, terrainapi.ErrNotFound) || errors.Is(err, backendRepo.ErrNotFound) {
			uc.logger.Warn("ListFields: owner id=%d has no fields", req.OwnerID)
			return &Response{OwnerID: req.OwnerID, Fields: []Field{}}, nil
		}
		uc.logger.Error("ListFields: failed to list fields for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: failed to list fields: %v", ErrInternal, err)
	}

	out := make([]Field, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		out = append(out, Field{
			ID:                  f.ID,
			Name:                f.Name,
			Address:             f.Address,
			OpeningTime:         f.OpeningOrDefault(),
			ClosingTime:         f.ClosingOrDefault(),
			ClosesAfterMidnight: f.ClosesAfterMidnight(),
		})
	}

	uc.logger.Info("ListFields: found %d fields for owner=%d", len(out), req.OwnerID)
	return &Response{OwnerID: req.OwnerID, Fields: out}, nil
}
