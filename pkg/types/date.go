package types

import "time"

// DateLayout формат даты бэкенда; строки фиксированной ширины сравниваются лексикографически
const DateLayout = "2006-01-02"

// FormatDate форматирует дату в "YYYY-MM-DD" без учета времени
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate парсит "YYYY-MM-DD" в полночь UTC
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateInRange проверяет from <= date <= to для строк "YYYY-MM-DD".
// Пустая граница не ограничивает.
func DateInRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
