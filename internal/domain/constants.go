package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Planning defaults
const (
	// DefaultOpeningTime используется, если у терраина не задано время открытия
	DefaultOpeningTime = "08:00"
	// DefaultClosingTime используется, если у терраина не задано время закрытия
	DefaultClosingTime = "22:00"

	// NightShiftLimitMinutes часы раньше 06:00 считаются ночным хвостом вечерней брони
	NightShiftLimitMinutes = 6 * 60

	// DaysPerWeek количество дней в недельном планинге
	DaysPerWeek = 7

	// MaxGeneratedHours ограничение на количество часовых строк планинга
	MaxGeneratedHours = 24
)
