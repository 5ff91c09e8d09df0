package domain

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// Field represents a bookable sports field (terrain)
type Field struct {
	ID          types.ID
	Name        string
	Address     string
	OwnerID     types.ID
	OpeningTime types.TimeString
	ClosingTime types.TimeString
}

// OpeningOrDefault returns the opening time, falling back to DefaultOpeningTime
func (f *Field) OpeningOrDefault() types.TimeString {
	if f.OpeningTime.IsValid() {
		return f.OpeningTime
	}
	return DefaultOpeningTime
}

// ClosingOrDefault returns the closing time, falling back to DefaultClosingTime
func (f *Field) ClosingOrDefault() types.TimeString {
	if f.ClosingTime.IsValid() {
		return f.ClosingTime
	}
	return DefaultClosingTime
}

// ClosesAfterMidnight returns true if the field closes on the next calendar day
func (f *Field) ClosesAfterMidnight() bool {
	return !f.OpeningOrDefault().IsBefore(f.ClosingOrDefault())
}
