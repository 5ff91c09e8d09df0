package planning

import (
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Week неделя планинга: 7 последовательных дат начиная с понедельника
type Week struct {
	start time.Time // понедельник, полночь UTC
	dates []string
}

// WeekOf возвращает неделю, содержащую календарную дату t (в локации t)
func WeekOf(t time.Time) Week {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	// time.Sunday = 0, планинг начинается с понедельника
	offset := (int(day.Weekday()) + 6) % 7
	return newWeek(day.AddDate(0, 0, -offset))
}

func newWeek(monday time.Time) Week {
	dates := make([]string, domain.DaysPerWeek)
	for i := range dates {
		dates[i] = types.FormatDate(monday.AddDate(0, 0, i))
	}
	return Week{start: monday, dates: dates}
}

// Start понедельник недели
func (w Week) Start() time.Time {
	return w.start
}

// End воскресенье недели
func (w Week) End() time.Time {
	return w.start.AddDate(0, 0, domain.DaysPerWeek-1)
}

// Days даты недели
func (w Week) Days() []time.Time {
	days := make([]time.Time, domain.DaysPerWeek)
	for i := range days {
		days[i] = w.start.AddDate(0, 0, i)
	}
	return days
}

// IndexOf позиция даты в неделе, -1 если даты нет
func (w Week) IndexOf(date string) int {
	for i, d := range w.dates {
		if d == date {
			return i
		}
	}
	return -1
}

// Contains проверяет, что дата попадает в неделю
func (w Week) Contains(date string) bool {
	return len(w.dates) > 0 && types.DateInRange(date, w.dates[0], w.dates[len(w.dates)-1])
}

// Previous предыдущая неделя
func (w Week) Previous() Week {
	return newWeek(w.start.AddDate(0, 0, -domain.DaysPerWeek))
}

// Next следующая неделя
func (w Week) Next() Week {
	return newWeek(w.start.AddDate(0, 0, domain.DaysPerWeek))
}

// previousDate дата за день до date, пустая строка при некорректной дате
func previousDate(date string) string {
	t, err := types.ParseDate(date)
	if err != nil {
		return ""
	}
	return types.FormatDate(t.AddDate(0, 0, -1))
}
