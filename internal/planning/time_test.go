package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

func minutes(t *testing.T, s string) int {
	t.Helper()
	m, err := types.TimeString(s).Minutes()
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return m
}

func TestContainsHour_OneHourInterval(t *testing.T) {
	start, end := minutes(t, "20:00"), minutes(t, "21:00")

	assert.True(t, ContainsHour(minutes(t, "20:00"), start, end))
	assert.False(t, ContainsHour(minutes(t, "19:00"), start, end))
	assert.False(t, ContainsHour(minutes(t, "21:00"), start, end), "end hour is exclusive")
}

func TestContainsHour_Wraparound(t *testing.T) {
	start, end := minutes(t, "23:00"), minutes(t, "01:00")

	assert.True(t, ContainsHour(minutes(t, "23:00"), start, end))
	assert.True(t, ContainsHour(minutes(t, "00:00"), start, end))
	assert.False(t, ContainsHour(minutes(t, "01:00"), start, end))
	assert.False(t, ContainsHour(minutes(t, "22:00"), start, end))
}

func TestContainsHour_EndsAtMidnight(t *testing.T) {
	start, end := minutes(t, "22:00"), minutes(t, "00:00")

	assert.True(t, ContainsHour(minutes(t, "22:00"), start, end))
	assert.True(t, ContainsHour(minutes(t, "23:00"), start, end))
	assert.False(t, ContainsHour(minutes(t, "00:00"), start, end))
}

func TestContainsHour_MultiHour(t *testing.T) {
	start, end := minutes(t, "18:00"), minutes(t, "21:00")

	for _, h := range []string{"18:00", "19:00", "20:00"} {
		assert.True(t, ContainsHour(minutes(t, h), start, end), h)
	}
	assert.False(t, ContainsHour(minutes(t, "21:00"), start, end))
}

func TestIsNightTail(t *testing.T) {
	limit := 360
	assert.True(t, isNightTail(minutes(t, "00:00"), minutes(t, "08:00"), limit))
	assert.False(t, isNightTail(minutes(t, "07:00"), minutes(t, "08:00"), limit), "after 06:00 is a real early hour")
	assert.False(t, isNightTail(minutes(t, "05:00"), minutes(t, "05:00"), limit), "field opens at 05:00")
}
