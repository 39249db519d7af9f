// Package recurrence computes concrete calendar dates for recurring
// event rules and expiration of one-off events.
package recurrence

import (
	"time"

	"nalia-backend/internal/models"
)

// Rule describes how an event repeats. WeekOfMonth is zero-based: 0 is
// the first occurrence of the weekday in the month, 4 the last (clamped
// when the month has fewer occurrences).
type Rule struct {
	Type        string
	DayOfWeek   int // 0=Sunday .. 6=Saturday
	WeekOfMonth int // monthly rules only, 0..4
}

// eventDuration is how long after its start a one-off event stays live.
const eventDuration = 6 * time.Hour

// NextOccurrence returns the next calendar date on or after now matching
// the rule. Weekly rules never return the current day: a same-day match
// rolls a full week forward. Unknown rule types return today's date.
func NextOccurrence(rule Rule, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch rule.Type {
	case models.RecurrenceWeekly:
		days := rule.DayOfWeek - int(today.Weekday())
		if days <= 0 {
			days += 7
		}
		return today.AddDate(0, 0, days)
	case models.RecurrenceMonthly:
		date := nthWeekdayOfMonth(today.Year(), today.Month(), rule.DayOfWeek, rule.WeekOfMonth, today.Location())
		if !date.After(today) {
			next := today.AddDate(0, 0, -today.Day()+1).AddDate(0, 1, 0)
			date = nthWeekdayOfMonth(next.Year(), next.Month(), rule.DayOfWeek, rule.WeekOfMonth, today.Location())
		}
		return date
	default:
		return today
	}
}

// nthWeekdayOfMonth returns the n-th (zero-based) occurrence of the
// weekday in the given month, clamped to the last occurrence when the
// month has fewer than n+1.
func nthWeekdayOfMonth(year int, month time.Month, dayOfWeek, n int, loc *time.Location) time.Time {
	var occurrences []time.Time
	for day := 1; day <= 31; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, loc)
		if d.Month() != month {
			break
		}
		if int(d.Weekday()) == dayOfWeek {
			occurrences = append(occurrences, d)
		}
	}
	if n < 0 {
		n = 0
	}
	if n >= len(occurrences) {
		n = len(occurrences) - 1
	}
	return occurrences[n]
}

// Expired reports whether a one-off event has passed. Recurring events
// never expire. eventTime is the local time of day in "15:04" form; an
// unparseable time is treated as midnight.
func Expired(eventDate time.Time, eventTime string, isRecurring bool, now time.Time) bool {
	if isRecurring {
		return false
	}
	start := StartTime(eventDate, eventTime)
	return now.After(start.Add(eventDuration))
}

// StartTime combines an event's calendar date with its local time of day.
func StartTime(eventDate time.Time, eventTime string) time.Time {
	t, err := time.Parse("15:04", eventTime)
	if err != nil {
		t = time.Time{}
	}
	return time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(),
		t.Hour(), t.Minute(), 0, 0, eventDate.Location())
}
