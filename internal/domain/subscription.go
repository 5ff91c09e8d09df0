package domain

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// SubscriptionStatus represents the status of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionSuspended SubscriptionStatus = "SUSPENDU"
	SubscriptionEnded     SubscriptionStatus = "TERMINE"
	SubscriptionCancelled SubscriptionStatus = "ANNULE"
)

// Subscription represents a recurring booking (abonnement) with a weekly schedule
type Subscription struct {
	ID          types.ID
	FieldID     types.ID
	ClientID    types.ID
	ClientPhone types.Phone // бэкенд отдает не всегда
	StartDate   string      // YYYY-MM-DD
	EndDate     string      // YYYY-MM-DD
	TotalPrice  float64
	Status      SubscriptionStatus
	Schedule    []ScheduleSlot
}

// ScheduleSlot represents one weekly recurring time slot (horaire) of a subscription
type ScheduleSlot struct {
	ID             types.ID
	SubscriptionID types.ID
	Weekday        string // LUNDI ... DIMANCHE
	StartTime      types.TimeString
	EndTime        types.TimeString
	HourlyPrice    float64
}

// HasPhone returns true if the subscription carries the client phone directly
func (s *Subscription) HasPhone() bool {
	return !s.ClientPhone.IsEmpty()
}

// HasScheduleSlot returns true if one of the schedule slots has the given id
func (s *Subscription) HasScheduleSlot(id types.ID) bool {
	for _, slot := range s.Schedule {
		if slot.ID == id {
			return true
		}
	}
	return false
}
