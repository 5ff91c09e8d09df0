package planning

import "github.com/m04kA/SMC-PlanningService/internal/domain"

// Короткие подписи карточек планинга
const (
	LabelSubscription = "Abo."
	LabelReservation  = "Rés. ponctuelle"
)

// Label короткая подпись записи; для неизвестного типа - описание записи как есть.
// Запись без описания остается без подписи.
func Label(u *domain.Unavailability) string {
	if u == nil || u.Description == "" {
		return ""
	}
	switch u.Kind {
	case domain.KindSubscription:
		return LabelSubscription
	case domain.KindPunctualReservation:
		return LabelReservation
	default:
		return u.Description
	}
}
