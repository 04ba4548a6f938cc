package services

import (
	"bufio"
	"log"
	"os"
	"strings"
	"time"
)

// Calendar day classifications used as a discount-table axis.
const (
	DateWorkday = "workday"
	DateWeekend = "weekend"
	DateHoliday = "holiday"
)

// HolidayCalendar is a set of public-holiday dates keyed by "2006-01-02".
type HolidayCalendar map[string]struct{}

// LoadHolidayCalendar reads a newline-separated list of YYYY-MM-DD dates.
// An empty path or a missing file yields an empty calendar, in which case
// classification is purely structural (weekday vs weekend).
func LoadHolidayCalendar(path string) HolidayCalendar {
	cal := HolidayCalendar{}
	if path == "" {
		return cal
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Holiday calendar %s not loaded: %v", path, err)
		return cal
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := time.Parse("2006-01-02", line); err != nil {
			continue
		}
		cal[line] = struct{}{}
	}

	if len(cal) > 0 {
		log.Printf("Loaded %d holiday dates from %s", len(cal), path)
	}
	return cal
}

// ClassifyDate maps a departure date to a calendar classification. Holiday
// membership wins over the structural day-of-week rule.
func ClassifyDate(t time.Time, holidays HolidayCalendar) string {
	if _, ok := holidays[t.Format("2006-01-02")]; ok {
		return DateHoliday
	}
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return DateWeekend
	}
	return DateWorkday
}
