package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeFor(t *testing.T) {
	now := time.Date(2024, time.May, 15, 9, 30, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		code     string
		expected DateRange
		ok       bool
	}{
		{"ZeroIsOpenEnded", "0", DateRange{End: "05/15/2024"}, true},
		{"OneIsOpenEnded", "1", DateRange{End: "05/15/2024"}, true},
		{"NegativeIsOpenEnded", "-3", DateRange{End: "05/15/2024"}, true},
		{"Two", "2", DateRange{Start: "04/15/2024", End: "05/15/2024"}, true},
		{"Four", "4", DateRange{Start: "02/15/2024", End: "05/15/2024"}, true},
		{"AcrossYear", "7", DateRange{Start: "11/15/2023", End: "05/15/2024"}, true},
		{"Whitespace", " 4 ", DateRange{Start: "02/15/2024", End: "05/15/2024"}, true},
		{"Empty", "", DateRange{}, false},
		{"NonNumeric", "last-month", DateRange{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, ok := DateRangeFor(tc.code, now)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, r)
		})
	}
}

func TestDateRangeFor_Now(t *testing.T) {
	now := time.Now()

	r, ok := DateRangeFor("4", now)
	assert.True(t, ok)
	assert.Equal(t, now.Format("01/02/2006"), r.End)
	assert.Equal(t, MonthsAgo(now, 3).Format("01/02/2006"), r.Start)
}

func TestMonthsAgo_ClampsToMonthEnd(t *testing.T) {
	testCases := []struct {
		name     string
		from     time.Time
		months   int
		expected time.Time
	}{
		{"LeapFebruary", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"CommonFebruary", time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"ThirtyDayMonth", time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"PreviousYear", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 2, time.Date(2023, 11, 30, 0, 0, 0, 0, time.UTC)},
		{"NoClamp", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), 3, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MonthsAgo(tc.from, tc.months))
		})
	}
}
