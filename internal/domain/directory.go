package domain

import (
	"time"

	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// DirectorySnapshot справочные данные бэкенда, нужные для разрешения телефонов
type DirectorySnapshot struct {
	Reservations  []Reservation     `json:"reservations"`
	Subscriptions []Subscription    `json:"subscriptions"`
	Clients       []Client          `json:"clients"`
	LoadedAt      time.Time         `json:"loadedAt"`
	Degraded      DirectoryDegraded `json:"-"`
}

// DirectoryDegraded отмечает коллекции, которые не удалось загрузить
type DirectoryDegraded struct {
	Reservations  bool
	Subscriptions bool
	Clients       bool
}

// Any returns true if at least one collection failed to load
func (d DirectoryDegraded) Any() bool {
	return d.Reservations || d.Subscriptions || d.Clients
}

// HasReservation returns true if a reservation with the given id is already in the snapshot
func (s *DirectorySnapshot) HasReservation(id types.ID) bool {
	for _, r := range s.Reservations {
		if r.ID == id {
			return true
		}
	}
	return false
}
