package planning

import (
	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// GenerateHours генерирует строки планинга: по одной на каждый час от открытия
// до закрытия (не включая закрытие), с переходом через полночь.
// После первого шага минуты обнуляются, поэтому при открытии в 08:30 строки
// будут 08:30, 09:00, 10:00...
// Пустые или некорректные значения заменяются на 08:00-22:00.
func GenerateHours(opening, closing types.TimeString) []types.TimeString {
	open, errOpen := opening.Minutes()
	end, errClose := closing.Minutes()
	if errOpen != nil || errClose != nil {
		open, _ = types.TimeString(domain.DefaultOpeningTime).Minutes()
		end, _ = types.TimeString(domain.DefaultClosingTime).Minutes()
	}

	hours := make([]types.TimeString, 0, domain.MaxGeneratedHours)
	current := open
	for i := 0; i < domain.MaxGeneratedHours; i++ {
		if current == end {
			break
		}
		hours = append(hours, types.FromMinutes(current))
		current = ((current/60 + 1) % 24) * 60
	}

	return hours
}
