package get_planning

import "errors"

var (
	// ErrFieldNotFound возвращается, когда терраин не найден
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
