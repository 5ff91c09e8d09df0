package list_unavailabilities

import (
	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Request модель запроса записей о занятости
type Request struct {
	FieldID types.ID
	From    string // YYYY-MM-DD, пустая строка - без нижней границы
	To      string // YYYY-MM-DD, пустая строка - без верхней границы
}

// Response модель ответа
type Response struct {
	FieldID types.ID
	Items   []domain.Unavailability
}
