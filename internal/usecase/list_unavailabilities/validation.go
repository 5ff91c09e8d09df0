package list_unavailabilities

import (
	"fmt"

	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FieldID <= 0 {
		return fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.From != "" {
		if _, err := types.ParseDate(req.From); err != nil {
			return fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	if req.To != "" {
		if _, err := types.ParseDate(req.To); err != nil {
			return fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	if req.From != "" && req.To != "" && req.From > req.To {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}

	return nil
}
