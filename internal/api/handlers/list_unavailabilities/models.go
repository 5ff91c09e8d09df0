package list_unavailabilities

import listUnavailabilities "github.com/m04kA/SMC-PlanningService/internal/usecase/list_unavailabilities"

// UnavailabilitiesResponse HTTP response model
type UnavailabilitiesResponse struct {
	FieldID int64            `json:"terrainId"`
	Items   []Unavailability `json:"indisponibles"`
}

// Unavailability запись о занятости
type Unavailability struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	StartTime   string `json:"heureDebut"`
	EndTime     string `json:"heureFin"`
	Kind        string `json:"typeReservation"`
	SourceID    int64  `json:"sourceId"`
	Description string `json:"description,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *listUnavailabilities.Response) *UnavailabilitiesResponse {
	items := make([]Unavailability, len(resp.Items))
	for i, u := range resp.Items {
		items[i] = Unavailability{
			ID:          u.ID.Int64(),
			Date:        u.Date,
			StartTime:   u.StartTime.String(),
			EndTime:     u.EndTime.String(),
			Kind:        string(u.Kind),
			SourceID:    u.SourceID.Int64(),
			Description: u.Description,
		}
	}

	return &UnavailabilitiesResponse{
		FieldID: resp.FieldID.Int64(),
		Items:   items,
	}
}
