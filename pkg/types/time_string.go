package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60

	timeStringLen = 5 // "HH:mm"
)

// ErrInvalidTimeString возвращается, когда строка не в формате "HH:mm"
var ErrInvalidTimeString = errors.New("invalid time string, expected HH:mm")

// TimeString время суток в формате "HH:mm".
// Значения приходят из внешних источников как есть, поэтому валидация
// выполняется при обращении к Minutes, а не при декодировании.
type TimeString string

// NewTimeString создает TimeString из time.Time (часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return FromMinutes(t.Hour()*60 + t.Minute())
}

// NewTimeStringFromString парсит "HH:mm" или "HH:mm:ss" (секунды отбрасываются)
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(truncate(s))
	if _, err := ts.Minutes(); err != nil {
		return "", err
	}
	return ts, nil
}

// FromMinutes создает TimeString из смещения в минутах, с переходом через полночь
func FromMinutes(minutes int) TimeString {
	m := ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

// Minutes возвращает минуту суток в диапазоне [0, 1440)
func (t TimeString) Minutes() (int, error) {
	s := truncate(string(t))
	if len(s) != timeStringLen || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}

	return h*60 + m, nil
}

// Hour возвращает час (0-23), -1 для некорректного значения
func (t TimeString) Hour() int {
	m, err := t.Minutes()
	if err != nil {
		return -1
	}
	return m / 60
}

// IsValid проверяет формат "HH:mm"
func (t TimeString) IsValid() bool {
	_, err := t.Minutes()
	return err == nil
}

// AddMinutes прибавляет минуты, результат заворачивается через полночь
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + minutes), nil
}

// IsBefore сравнивает время в пределах одних суток.
// Некорректные значения не бывают ни раньше, ни позже.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter сравнивает время в пределах одних суток
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a > b
}

// String возвращает "HH:mm" (секунды отброшены)
func (t TimeString) String() string {
	return truncate(string(t))
}

// UnmarshalJSON сохраняет значение без валидации, чтобы одна битая запись
// не ломала декодирование всего списка
func (t *TimeString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = TimeString(truncate(s))
	return nil
}

// Scan реализует sql.Scanner для колонок типа time и text
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = TimeString(truncate(v))
	case []byte:
		*t = TimeString(truncate(string(v)))
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	return t.String(), nil
}

func truncate(s string) string {
	if len(s) > timeStringLen {
		return s[:timeStringLen]
	}
	return s
}
