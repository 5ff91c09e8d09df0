package list_fields

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// Request модель запроса списка терраинов
type Request struct {
	OwnerID types.ID
}

// Response модель ответа со списком терраинов
type Response struct {
	OwnerID types.ID
	Fields  []Field
}

// Field модель терраина
type Field struct {
	ID                  types.ID
	Name                string
	Address             string
	OpeningTime         types.TimeString
	ClosingTime         types.TimeString
	ClosesAfterMidnight bool
}
