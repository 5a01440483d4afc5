package schedule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddDaysWeeklySeries(t *testing.T) {
	date := "2024-01-06"
	expected := []string{
		"2024-01-06", "2024-01-13", "2024-01-20", "2024-01-27",
		"2024-02-03", "2024-02-10", "2024-02-17", "2024-02-24",
		"2024-03-02", "2024-03-09", "2024-03-16", "2024-03-23",
	}

	for i, want := range expected {
		got, err := AddDays(date, i*WeekDays)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestAddDaysCrossesMonthAndYear(t *testing.T) {
	got, err := AddDays("2024-12-28", 7)
	require.NoError(t, err)
	require.Equal(t, "2025-01-04", got)

	got, err = AddDays("2024-03-07", -7)
	require.NoError(t, err)
	require.Equal(t, "2024-02-29", got, "2024 is a leap year")
}

func TestAddDaysRejectsMalformedDate(t *testing.T) {
	_, err := AddDays("06/01/2024", 7)
	require.Error(t, err)
}

func TestFormatDisplayDropsLeadingZeros(t *testing.T) {
	require.Equal(t, "9/3", FormatDisplay("2024-03-09"))
	require.Equal(t, "23/11", FormatDisplay("2024-11-23"))
	require.Equal(t, "", FormatDisplay("not-a-date"))
}

func TestCurriculumCoversAllLessons(t *testing.T) {
	for id := 1; id <= LessonCount; id++ {
		require.NotEmpty(t, LessonName(id))
		require.NotEmpty(t, LessonDescription(id))
	}
	require.Empty(t, LessonName(0))
	require.Empty(t, LessonName(LessonCount+1))
}
