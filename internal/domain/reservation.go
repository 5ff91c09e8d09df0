package domain

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// Reservation represents a one-off (punctual) booking of a field
type Reservation struct {
	ID          types.ID
	Date        string // YYYY-MM-DD
	StartTime   types.TimeString
	EndTime     types.TimeString // вычисляется бэкендом, может отсутствовать
	Price       float64
	ClientPhone types.Phone
	FieldID     types.ID
}

// HasPhone returns true if the reservation carries the client phone directly
func (r *Reservation) HasPhone() bool {
	return !r.ClientPhone.IsEmpty()
}
