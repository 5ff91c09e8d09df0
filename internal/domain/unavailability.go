package domain

import (
	"strings"

	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// BookingKind tags the source of an unavailability record
type BookingKind string

const (
	KindSubscription        BookingKind = "SUBSCRIPTION"
	KindPunctualReservation BookingKind = "PUNCTUAL_RESERVATION"
	KindUnknown             BookingKind = ""
)

// ParseBookingKind accepts both the backend's French tags and the English ones
func ParseBookingKind(s string) BookingKind {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ABONNEMENT", "SUBSCRIPTION":
		return KindSubscription
	case "RESERVATION_PONCTUELLE", "PUNCTUAL_RESERVATION":
		return KindPunctualReservation
	default:
		return KindUnknown
	}
}

// Unavailability is a backend-computed occupancy record (indisponibilité) for one
// concrete date and time range.
//
// SourceID points to a reservation, a subscription or a subscription schedule slot;
// which one is not encoded anywhere and has to be guessed by the consumer.
type Unavailability struct {
	ID          types.ID
	FieldID     types.ID
	Date        string // YYYY-MM-DD
	StartTime   types.TimeString
	EndTime     types.TimeString
	Kind        BookingKind
	SourceID    types.ID
	Description string
}

// IsSubscription returns true for records derived from a subscription schedule
func (u *Unavailability) IsSubscription() bool {
	return u.Kind == KindSubscription
}

// IsPunctual returns true for records derived from a one-off reservation
func (u *Unavailability) IsPunctual() bool {
	return u.Kind == KindPunctualReservation
}
