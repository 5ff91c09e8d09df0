package list_fields

import listFields "github.com/m04kA/SMC-PlanningService/internal/usecase/list_fields"

// FieldsResponse HTTP response model
type FieldsResponse struct {
	OwnerID int64   `json:"proprietaireId"`
	Fields  []Field `json:"terrains"`
}

// Field модель терраина
type Field struct {
	ID                  int64  `json:"id"`
	Name                string `json:"nom"`
	Address             string `json:"adresse,omitempty"`
	OpeningTime         string `json:"heureOuverture"`
	ClosingTime         string `json:"heureFermeture"`
	ClosesAfterMidnight bool   `json:"closesAfterMidnight"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listFields.Response) *FieldsResponse {
	fields := make([]Field, len(resp.Fields))
	for i, f := range resp.Fields {
		fields[i] = Field{
			ID:                  f.ID.Int64(),
			Name:                f.Name,
			Address:             f.Address,
			OpeningTime:         f.OpeningTime.String(),
			ClosingTime:         f.ClosingTime.String(),
			ClosesAfterMidnight: f.ClosesAfterMidnight,
		}
	}

	return &FieldsResponse{
		OwnerID: resp.OwnerID.Int64(),
		Fields:  fields,
	}
}
