package planning

import "github.com/m04kA/SMC-PlanningService/pkg/types"

// ContainsHour проверяет, попадает ли час hour (минута суток) в интервал [start, end).
// end <= start означает переход через полночь: тогда часы раньше start считаются
// следующими сутками и сдвигаются на +1440.
//
// Примеры:
// - 20:00-21:00 → занят только 20:00
// - 23:00-01:00 → заняты 23:00 и 00:00, но не 01:00 и не 22:00
func ContainsHour(hour, start, end int) bool {
	h := hour
	target := end

	if end <= start {
		if h < start {
			h += types.MinutesPerDay
		}
		target += types.MinutesPerDay
	}

	return h >= start && h < target
}

// isNightTail проверяет, что час - ночной хвост вечерней брони:
// раньше открытия терраина и раньше ограничения (06:00)
func isNightTail(hour, opening, limit int) bool {
	return hour < opening && hour < limit
}
