package get_planning

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.FieldID <= 0 {
		return fmt.Errorf("%w: fieldID must be positive", ErrInvalidInput)
	}

	if req.OwnerID < 0 {
		return fmt.Errorf("%w: ownerID must not be negative", ErrInvalidInput)
	}

	return nil
}
