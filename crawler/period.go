package crawler

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "01/02/2006"

// DateRangeFor turns a period code into a date range ending at now. A code
// of n months starts the range n-1 months back; codes of 1 or less leave
// the start open. ok is false when code is not an integer.
func DateRangeFor(code string, now time.Time) (r DateRange, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil {
		return DateRange{}, false
	}

	r.End = now.Format(dateLayout)
	if months := n - 1; months >= 1 {
		r.Start = MonthsAgo(now, months).Format(dateLayout)
	}
	return r, true
}

// MonthsAgo steps back whole calendar months, clamping the day to the end
// of the target month.
func MonthsAgo(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
