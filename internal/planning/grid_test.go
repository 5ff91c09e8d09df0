package planning

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PlanningService/internal/domain"
	"github.com/m04kA/SMC-PlanningService/pkg/logger"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// неделя 2025-06-02 (пн) - 2025-06-08 (вс)
var testWeek = WeekOf(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

func eveningHours() []types.TimeString {
	return GenerateHours("08:00", "02:00")
}

func build(t *testing.T, records ...domain.Unavailability) *Grid {
	t.Helper()
	b := NewBuilder(logger.Nop(), nil)
	return b.Build(BuildInput{
		Week:        testWeek,
		Hours:       eveningHours(),
		OpeningTime: "08:00",
		Records:     records,
	})
}

func record(id int64, kind domain.BookingKind, date, start, end string) domain.Unavailability {
	return domain.Unavailability{
		ID:          types.ID(id),
		FieldID:     1,
		Date:        date,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Kind:        kind,
		SourceID:    types.ID(id * 10),
		Description: "booking",
	}
}

func TestBuild_EmptyGrid(t *testing.T) {
	g := build(t)

	rows := g.Rows()
	require.Len(t, rows, len(eveningHours()))
	for _, row := range rows {
		require.Len(t, row, 7)
		for _, s := range row {
			assert.False(t, s.IsOccupied())
		}
	}
}

func TestBuild_OneHourInterval(t *testing.T) {
	g := build(t, record(1, domain.KindSubscription, "2025-06-04", "20:00", "21:00"))

	assert.True(t, g.IsOccupied("2025-06-04", "20:00"))
	assert.False(t, g.IsOccupied("2025-06-04", "19:00"))
	assert.False(t, g.IsOccupied("2025-06-04", "21:00"))
	assert.Equal(t, 1, g.RowSpan("2025-06-04", "20:00"))
}

func TestBuild_PunctualNightTailShiftsToPreviousDay(t *testing.T) {
	g := build(t, record(1, domain.KindPunctualReservation, "2025-06-02", "23:00", "01:00"))

	assert.True(t, g.IsOccupied("2025-06-02", "23:00"))
	assert.True(t, g.IsOccupied("2025-06-02", "00:00"), "00:00 tail stays in monday column")
	assert.False(t, g.IsOccupied("2025-06-03", "00:00"))
	assert.False(t, g.IsOccupied("2025-06-02", "01:00"))
}

func TestBuild_SubscriptionIsNeverShifted(t *testing.T) {
	g := build(t, record(1, domain.KindSubscription, "2025-06-02", "23:00", "01:00"))

	assert.True(t, g.IsOccupied("2025-06-02", "23:00"))
	assert.True(t, g.IsOccupied("2025-06-02", "00:00"), "record's own date")
	assert.False(t, g.IsOccupied("2025-06-01", "00:00"))
}

func TestBuild_PunctualRecordOnNextDayShifts(t *testing.T) {
	// Бэкенд кладет ночной хвост на дату следующего дня
	g := build(t, record(1, domain.KindPunctualReservation, "2025-06-03", "00:00", "01:00"))

	assert.True(t, g.IsOccupied("2025-06-02", "00:00"))
	assert.False(t, g.IsOccupied("2025-06-03", "00:00"))
}

func TestBuild_ShiftStaysWhenPreviousDayOutOfWeek(t *testing.T) {
	g := build(t, record(1, domain.KindPunctualReservation, "2025-06-02", "00:00", "01:00"))

	assert.True(t, g.IsOccupied("2025-06-02", "00:00"))
}

func TestBuild_EarlyOpeningIsNotShifted(t *testing.T) {
	b := NewBuilder(logger.Nop(), nil)
	g := b.Build(BuildInput{
		Week:        testWeek,
		Hours:       GenerateHours("05:00", "10:00"),
		OpeningTime: "05:00",
		Records:     []domain.Unavailability{record(1, domain.KindPunctualReservation, "2025-06-04", "05:00", "06:00")},
	})

	assert.True(t, g.IsOccupied("2025-06-04", "05:00"))
	assert.False(t, g.IsOccupied("2025-06-03", "05:00"))
}

func TestBuild_OutOfWeekRecordIsDropped(t *testing.T) {
	g := build(t, record(1, domain.KindPunctualReservation, "2025-06-09", "10:00", "11:00"))

	for _, row := range g.Rows() {
		for _, s := range row {
			assert.False(t, s.IsOccupied())
		}
	}
}

func TestBuild_MalformedRecordIsSkippedWithWarning(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(logger.NewWithWriter(&buf, "info"), nil)

	g := b.Build(BuildInput{
		Week:        testWeek,
		Hours:       eveningHours(),
		OpeningTime: "08:00",
		Records: []domain.Unavailability{
			record(1, domain.KindPunctualReservation, "2025-06-04", "1x:00", "11:00"),
			record(2, domain.KindPunctualReservation, "2025-06-04", "12:00", "13:00"),
		},
	})

	assert.False(t, g.IsOccupied("2025-06-04", "10:00"))
	assert.True(t, g.IsOccupied("2025-06-04", "12:00"))
	assert.Contains(t, buf.String(), "skip unavailability id=1")
}

func TestBuild_Idempotent(t *testing.T) {
	records := []domain.Unavailability{
		record(1, domain.KindPunctualReservation, "2025-06-02", "23:00", "01:00"),
		record(2, domain.KindSubscription, "2025-06-05", "18:00", "20:00"),
		record(3, domain.KindPunctualReservation, "2025-06-12", "18:00", "20:00"),
	}

	first := build(t, records...)
	second := build(t, records...)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Rows(), second.Rows())
}

func TestGrid_Accessors(t *testing.T) {
	g := build(t, record(7, domain.KindSubscription, "2025-06-05", "18:00", "20:00"))

	assert.Equal(t, domain.KindSubscription, g.Kind("2025-06-05", "18:00"))
	assert.Equal(t, domain.KindUnknown, g.Kind("2025-06-05", "17:00"))
	assert.Equal(t, "booking", g.Description("2025-06-05", "19:00"))
	assert.Equal(t, "18:00 - 20:00", g.TimeRange("2025-06-05", "19:00"))
	assert.Equal(t, "", g.TimeRange("2025-06-05", "20:00"))

	assert.True(t, g.IsFirstHourOfSlot("2025-06-05", "18:00"))
	assert.False(t, g.IsFirstHourOfSlot("2025-06-05", "19:00"))
	assert.True(t, g.ShouldShowSlot("2025-06-05", "18:00"))

	require.Len(t, g.Records(), 1)
	assert.Equal(t, types.ID(7), g.Records()[0].ID)
}

func TestGrid_IsSlotInPast(t *testing.T) {
	g := build(t, record(1, domain.KindPunctualReservation, "2025-06-03", "00:00", "01:00"))
	now := time.Date(2025, 6, 3, 0, 30, 0, 0, time.UTC)

	// Ячейка показана в понедельник, но прошедшим считается по дате записи (вторник)
	assert.False(t, g.IsSlotInPast("2025-06-02", "00:00", now))
	assert.True(t, g.IsSlotInPast("2025-06-02", "22:00", now))
	assert.True(t, g.IsSlotInPast("2025-06-03", "00:00", time.Date(2025, 6, 3, 1, 0, 0, 0, time.UTC)))
	assert.False(t, g.IsSlotInPast("2025-06-04", "10:00", now))
}

func TestLabel(t *testing.T) {
	sub := record(1, domain.KindSubscription, "2025-06-02", "10:00", "11:00")
	res := record(2, domain.KindPunctualReservation, "2025-06-02", "10:00", "11:00")
	other := record(3, domain.KindUnknown, "2025-06-02", "10:00", "11:00")
	empty := record(4, domain.KindSubscription, "2025-06-02", "10:00", "11:00")
	empty.Description = ""

	assert.Equal(t, LabelSubscription, Label(&sub))
	assert.Equal(t, LabelReservation, Label(&res))
	assert.Equal(t, "booking", Label(&other))
	assert.Equal(t, "", Label(&empty))
	assert.Equal(t, "", Label(nil))
}
