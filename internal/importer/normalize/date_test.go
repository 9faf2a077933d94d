package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestISOWeekCode(t *testing.T) {
	cases := []struct {
		code string
		want time.Time
	}{
		{"202401", day(2024, time.January, 1)},
		{"202405", day(2024, time.January, 29)},
		{"202501", day(2024, time.December, 30)},
		{"202352", day(2023, time.December, 25)},
	}
	for _, c := range cases {
		got, err := ISOWeekCode(c.code)
		require.NoError(t, err, c.code)
		assert.Equal(t, c.want, got, c.code)
		assert.Equal(t, time.Monday, got.Weekday(), c.code)
	}
}

func TestISOWeekCodeRejectsBadInput(t *testing.T) {
	for _, code := range []string{"", "2024", "20240", "2024W1", "202400", "202454"} {
		_, err := ISOWeekCode(code)
		assert.Error(t, err, code)
	}
}

func TestMonthWeek(t *testing.T) {
	cases := []struct {
		label string
		want  time.Time
	}{
		{"Dec Wk 5 2024", day(2024, time.December, 30)},
		{"Dec Wk 1 2024", day(2024, time.December, 2)},
		{"Jan Wk 1 2024", day(2024, time.January, 1)},
		{"Sep Wk 2 2025", day(2025, time.September, 8)},
	}
	for _, c := range cases {
		got, err := MonthWeek(c.label)
		require.NoError(t, err, c.label)
		assert.Equal(t, c.want, got, c.label)
	}
}

func TestMonthWeekRejectsBadInput(t *testing.T) {
	for _, label := range []string{"", "Dec 5 2024", "Foo Wk 1 2024", "Dec Wk x 2024"} {
		_, err := MonthWeek(label)
		assert.Error(t, err, label)
	}
}

func TestFiscalWeekEnding(t *testing.T) {
	got, err := FiscalWeekEnding("Fiscal Week Ending 01-11-2025")
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.January, 5), got)

	got, err = FiscalWeekEnding("fiscal week ending 12-28-2024")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.December, 22), got)
}

func TestFiscalWeekEndingRejectsBadInput(t *testing.T) {
	for _, label := range []string{"", "Week Ending 01-11-2025", "Fiscal Week Ending 2025-01-11"} {
		_, err := FiscalWeekEnding(label)
		assert.Error(t, err, label)
	}
}

func TestExcelSerial(t *testing.T) {
	// 44927 lands on Sunday 2023-01-01 and floors to the prior Monday.
	got, err := ExcelSerial("44927")
	require.NoError(t, err)
	assert.Equal(t, day(2022, time.December, 26), got)

	// Fractional time beyond the fifth digit is ignored.
	got, err = ExcelSerial("449280.5")
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.January, 2), got)
}

func TestExcelSerialRejectsBadInput(t *testing.T) {
	for _, literal := range []string{"", "abc", "-12"} {
		_, err := ExcelSerial(literal)
		assert.Error(t, err, literal)
	}
}

func TestWarehouseDate(t *testing.T) {
	got, err := WarehouseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 10), got)

	got, err = WarehouseDate("2025-03-10 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 10), got)

	got, err = WarehouseDate("2025-03-10T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.March, 10), got)

	_, err = WarehouseDate("03/10/2025")
	assert.Error(t, err)
}

func TestISODate(t *testing.T) {
	got, err := ISODate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.June, 3), got)

	got, err = ISODate("44927")
	require.NoError(t, err)
	assert.Equal(t, day(2022, time.December, 26), got)

	_, err = ISODate("June 3")
	assert.Error(t, err)
}
