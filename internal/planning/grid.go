package planning

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// Результаты обработки записей (метка метрики)
const (
	recordPlaced    = "placed"
	recordOutOfWeek = "out_of_week"
	recordMalformed = "malformed"
)

// Триггеры построения сетки (метка метрики)
const (
	TriggerRequest = "request"
	TriggerRebuild = "rebuild"
)

// Slot ячейка планинга (отображаемый день, час)
type Slot struct {
	Date           string // дата отображаемого дня, может отличаться от даты записи
	Hour           types.TimeString
	Unavailability *domain.Unavailability
	RowSpan        int
}

// IsOccupied возвращает true, если ячейку занимает запись
func (s *Slot) IsOccupied() bool {
	return s != nil && s.Unavailability != nil
}

type slotKey struct {
	date string
	hour types.TimeString
}

// Grid недельная сетка планинга: 7 дней × N часов
type Grid struct {
	week  Week
	hours []types.TimeString
	slots map[slotKey]*Slot
}

// BuildInput входные данные построения сетки
type BuildInput struct {
	Week        Week
	Hours       []types.TimeString
	OpeningTime types.TimeString
	Records     []domain.Unavailability

	// NightShiftLimitMinutes 0 - используется domain.NightShiftLimitMinutes
	NightShiftLimitMinutes int
	Trigger                string
}

// Builder строит сетку планинга
type Builder struct {
	logger  Logger
	metrics MetricsRecorder
}

// NewBuilder создает построитель сетки. metrics может быть nil.
func NewBuilder(logger Logger, metrics MetricsRecorder) *Builder {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Builder{logger: logger, metrics: metrics}
}

// Build строит сетку с нуля. Сетка не патчится инкрементально: при любом
// изменении данных вызывается заново.
//
// Записи вне недели молча отбрасываются, записи с битым временем пропускаются
// с предупреждением в логе. Ошибок построение не возвращает.
func (b *Builder) Build(in BuildInput) *Grid {
	trigger := in.Trigger
	if trigger == "" {
		trigger = TriggerRequest
	}
	b.metrics.RecordGridBuild(trigger)

	grid := newGrid(in.Week, in.Hours)

	opening, err := in.OpeningTime.Minutes()
	if err != nil {
		opening, _ = types.TimeString(domain.DefaultOpeningTime).Minutes()
	}
	limit := in.NightShiftLimitMinutes
	if limit <= 0 {
		limit = domain.NightShiftLimitMinutes
	}

	for i := range in.Records {
		record := in.Records[i]

		// 1. Базовый день записи
		baseIdx := in.Week.IndexOf(record.Date)
		if baseIdx < 0 {
			b.metrics.RecordGridRecord(recordOutOfWeek)
			continue
		}

		// 2. Интервал в минутах
		start, err := record.StartTime.Minutes()
		if err != nil {
			b.logger.Warn("Build: skip unavailability id=%d date=%s: bad start time: %v", record.ID, record.Date, err)
			b.metrics.RecordGridRecord(recordMalformed)
			continue
		}
		end, err := record.EndTime.Minutes()
		if err != nil {
			b.logger.Warn("Build: skip unavailability id=%d date=%s: bad end time: %v", record.ID, record.Date, err)
			b.metrics.RecordGridRecord(recordMalformed)
			continue
		}

		// 3. Заполняем каждую часовую ячейку интервала
		for _, hour := range grid.hours {
			h, err := hour.Minutes()
			if err != nil || !ContainsHour(h, start, end) {
				continue
			}

			displayIdx := baseIdx

			// Ночной хвост разовой брони показывается в колонке предыдущего дня.
			// Абонементы не сдвигаются никогда.
			if record.IsPunctual() && isNightTail(h, opening, limit) {
				if prevIdx := in.Week.IndexOf(previousDate(record.Date)); prevIdx >= 0 {
					displayIdx = prevIdx
				}
			}

			slot, ok := grid.slots[slotKey{date: in.Week.dates[displayIdx], hour: hour}]
			if !ok {
				continue
			}
			slot.Unavailability = &record
			slot.RowSpan = 1
		}

		b.metrics.RecordGridRecord(recordPlaced)
	}

	return grid
}

func newGrid(week Week, hours []types.TimeString) *Grid {
	g := &Grid{
		week:  week,
		hours: append([]types.TimeString(nil), hours...),
		slots: make(map[slotKey]*Slot, len(week.dates)*len(hours)),
	}
	for _, date := range week.dates {
		for _, hour := range g.hours {
			g.slots[slotKey{date: date, hour: hour}] = &Slot{Date: date, Hour: hour}
		}
	}
	return g
}

// Week неделя сетки
func (g *Grid) Week() Week {
	return g.week
}

// Hours часовые строки сетки
func (g *Grid) Hours() []types.TimeString {
	return append([]types.TimeString(nil), g.hours...)
}

// Slot ячейка по дате отображаемого дня и часу
func (g *Grid) Slot(date string, hour types.TimeString) (Slot, bool) {
	s, ok := g.slots[slotKey{date: date, hour: hour}]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// IsOccupied занята ли ячейка
func (g *Grid) IsOccupied(date string, hour types.TimeString) bool {
	s, ok := g.slots[slotKey{date: date, hour: hour}]
	return ok && s.IsOccupied()
}

// Kind тип брони в ячейке, KindUnknown для свободной
func (g *Grid) Kind(date string, hour types.TimeString) domain.BookingKind {
	if s, ok := g.occupied(date, hour); ok {
		return s.Unavailability.Kind
	}
	return domain.KindUnknown
}

// Description описание записи в ячейке
func (g *Grid) Description(date string, hour types.TimeString) string {
	if s, ok := g.occupied(date, hour); ok {
		return s.Unavailability.Description
	}
	return ""
}

// TimeRange интервал записи в ячейке, "HH:mm - HH:mm"
func (g *Grid) TimeRange(date string, hour types.TimeString) string {
	s, ok := g.occupied(date, hour)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s - %s", s.Unavailability.StartTime.String(), s.Unavailability.EndTime.String())
}

// RowSpan всегда 1: многочасовые записи занимают каждую ячейку отдельно
func (g *Grid) RowSpan(date string, hour types.TimeString) int {
	if s, ok := g.slots[slotKey{date: date, hour: hour}]; ok && s.RowSpan > 0 {
		return s.RowSpan
	}
	return 1
}

// IsFirstHourOfSlot совпадает ли час ячейки с началом записи.
// Сравнивается с временем начала самой записи, а не с соседними ячейками.
func (g *Grid) IsFirstHourOfSlot(date string, hour types.TimeString) bool {
	s, ok := g.occupied(date, hour)
	if !ok {
		return false
	}
	h, err := hour.Minutes()
	if err != nil {
		return false
	}
	start, err := s.Unavailability.StartTime.Minutes()
	if err != nil {
		return false
	}
	return h == start
}

// ShouldShowSlot показывать ли карточку записи в ячейке (только в первом часе)
func (g *Grid) ShouldShowSlot(date string, hour types.TimeString) bool {
	return g.IsFirstHourOfSlot(date, hour)
}

// IsSlotInPast прошел ли час ячейки.
// Для занятой ячейки берется дата записи, а не отображаемого дня (ночной хвост
// показывается накануне). Час считается прошедшим, когда наступил следующий полный час.
func (g *Grid) IsSlotInPast(date string, hour types.TimeString, now time.Time) bool {
	dateToCompare := date
	if s, ok := g.occupied(date, hour); ok && s.Unavailability.Date != "" {
		dateToCompare = s.Unavailability.Date
	}

	day, err := time.ParseInLocation(domain.DateFormat, dateToCompare, now.Location())
	if err != nil {
		return false
	}
	h := hour.Hour()
	if h < 0 {
		return false
	}

	nextHour := time.Date(day.Year(), day.Month(), day.Day(), h+1, 0, 0, 0, now.Location())
	return !nextHour.After(now)
}

// Rows строки сетки в порядке часов, ячейки в порядке дней недели
func (g *Grid) Rows() [][]Slot {
	rows := make([][]Slot, 0, len(g.hours))
	for _, hour := range g.hours {
		row := make([]Slot, 0, len(g.week.dates))
		for _, date := range g.week.dates {
			row = append(row, *g.slots[slotKey{date: date, hour: hour}])
		}
		rows = append(rows, row)
	}
	return rows
}

// Records уникальные записи, размещенные в сетке, в порядке первой ячейки
func (g *Grid) Records() []domain.Unavailability {
	seen := make(map[*domain.Unavailability]bool)
	out := make([]domain.Unavailability, 0)
	for _, row := range g.Rows() {
		for _, s := range row {
			if !s.IsOccupied() || seen[s.Unavailability] {
				continue
			}
			seen[s.Unavailability] = true
			out = append(out, *s.Unavailability)
		}
	}
	return out
}

// Equal сравнивает матрицы занятости двух сеток
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || len(g.slots) != len(other.slots) || len(g.hours) != len(other.hours) {
		return false
	}
	for key, s := range g.slots {
		o, ok := other.slots[key]
		if !ok || s.RowSpan != o.RowSpan || s.IsOccupied() != o.IsOccupied() {
			return false
		}
		if s.IsOccupied() && *s.Unavailability != *o.Unavailability {
			return false
		}
	}
	return true
}

func (g *Grid) occupied(date string, hour types.TimeString) (*Slot, bool) {
	s, ok := g.slots[slotKey{date: date, hour: hour}]
	if !ok || !s.IsOccupied() {
		return nil, false
	}
	return s, true
}
