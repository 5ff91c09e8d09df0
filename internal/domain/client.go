package domain

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// Client represents a subscribed client of the field owner
type Client struct {
	ID        types.ID
	LastName  string
	FirstName string
	Phone     types.Phone
}
