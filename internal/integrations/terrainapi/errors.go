package terrainapi

import "errors"

var (
	// ErrNotFound возвращается, когда сущность не найдена на бэкенде
	ErrNotFound = errors.New("terrainapi client: not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("terrainapi client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("terrainapi client: invalid response")

	// ErrUnauthorized возвращается, когда бэкенд отклонил токен
	ErrUnauthorized = errors.New("terrainapi client: unauthorized")
)
