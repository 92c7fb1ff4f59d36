package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/xyedo/rrule"

	"calbox/calview"
)

// Event is one VEVENT, built from a stored event record. Recurring
// records carry their pattern rendered as an RFC 5545 RRULE line.
type Event struct {
	record calview.EventRecord
	start  time.Time
	end    time.Time
}

// NewEvent validates the record's civil date/time strings and wraps it
// for serialization.
func NewEvent(record calview.EventRecord) (Event, error) {
	if record.ID == "" {
		return Event{}, fmt.Errorf("NewEvent: %s", ErrIDNotSet)
	}
	if record.Title == "" {
		return Event{}, fmt.Errorf("NewEvent: %s", ErrSummaryNotSet)
	}
	start, err := civilInstant(record.StartDate, record.StartTime)
	if err != nil {
		return Event{}, fmt.Errorf("NewEvent: %s: %w", ErrStartDateInvalid, err)
	}
	end, err := civilInstant(record.EndDate, record.EndTime)
	if err != nil {
		return Event{}, fmt.Errorf("NewEvent: %s: %w", ErrEndDateInvalid, err)
	}
	if !end.After(start) {
		return Event{}, fmt.Errorf("NewEvent: %s", ErrStartDateAfterEndDate)
	}
	return Event{record: record, start: start, end: end}, nil
}

func (e *Event) GetID() string {
	return e.record.ID
}

func (e *Event) writeTo(writer func(string)) error {
	writer("BEGIN:VEVENT\n")
	writer(fmt.Sprintf("UID:%s\n", e.record.ID))
	writer(fmt.Sprintf("DTSTART:%s\n", e.start.Format(icalDatetimeLayout)))
	writer(fmt.Sprintf("DTEND:%s\n", e.end.Format(icalDatetimeLayout)))
	writer(foldLine(fmt.Sprintf("SUMMARY:%s", escapeText(e.record.Title))))
	if e.record.Description != "" {
		writer(foldLine(fmt.Sprintf("DESCRIPTION:%s", escapeText(e.record.Description))))
	}
	if e.record.Location != nil {
		if addr := e.record.Location.DisplayAddress(); addr != "" {
			writer(foldLine(fmt.Sprintf("LOCATION:%s", escapeText(addr))))
		}
	}
	if len(e.record.Tags) > 0 {
		escaped := make([]string, 0, len(e.record.Tags))
		for _, tag := range e.record.Tags {
			escaped = append(escaped, escapeText(tag))
		}
		writer(foldLine(fmt.Sprintf("CATEGORIES:%s", strings.Join(escaped, ","))))
	}
	for _, participant := range e.record.Participants {
		writer(foldLine(fmt.Sprintf("ATTENDEE:mailto:%s", participant)))
	}
	if e.record.IsRecurring && e.record.Recurrence != nil {
		line, err := rruleLine(e.record.Recurrence, e.start)
		if err != nil {
			return fmt.Errorf("(*Event).writeTo: %w", err)
		}
		writer(fmt.Sprintf("RRULE:%s\n", line))
	}
	for _, minutes := range e.record.Reminders {
		writer("BEGIN:VALARM\n")
		writer("ACTION:DISPLAY\n")
		writer(fmt.Sprintf("TRIGGER:-PT%dM\n", minutes))
		writer("END:VALARM\n")
	}
	writer("END:VEVENT\n")
	return nil
}

// rruleLine maps one of the four supported cadences onto an RRULE value.
// Anything else is rejected so the feed never advertises recurrence the
// rest of the system won't expand.
func rruleLine(pattern *calview.RecurrencePattern, dtstart time.Time) (string, error) {
	option := rrule.ROption{
		Dtstart:  dtstart,
		Interval: pattern.Interval,
	}
	if option.Interval < 1 {
		option.Interval = 1
	}

	switch pattern.Type {
	case calview.RecurrenceDaily:
		option.Freq = rrule.DAILY
	case calview.RecurrenceWeekly:
		option.Freq = rrule.WEEKLY
		option.Byweekday = icalWeekdays(pattern.DaysOfWeek)
	case calview.RecurrenceMonthly:
		option.Freq = rrule.MONTHLY
		if pattern.DayOfMonth != 0 {
			option.Bymonthday = []int{pattern.DayOfMonth}
		}
	case calview.RecurrenceYearly:
		option.Freq = rrule.YEARLY
		if pattern.DayOfMonth != 0 {
			option.Bymonthday = []int{pattern.DayOfMonth}
		}
		option.Byweekday = icalWeekdays(pattern.DaysOfWeek)
	default:
		return "", fmt.Errorf("rruleLine: unsupported recurrence type %q", pattern.Type)
	}

	if pattern.EndDate != "" {
		if until, err := calview.ParseDate(pattern.EndDate); err == nil {
			option.Until = until.Add(24*time.Hour - time.Second)
		}
	}

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return "", fmt.Errorf("rruleLine: %w", err)
	}
	// RRuleString leaves DTSTART out; it already has its own line
	return rule.OrigOptions.RRuleString(), nil
}

func icalWeekdays(daysOfWeek []int) []rrule.Weekday {
	// 0=Sunday in event records
	table := []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}
	var out []rrule.Weekday
	for _, day := range daysOfWeek {
		if day >= 0 && day < len(table) {
			out = append(out, table[day])
		}
	}
	return out
}

const icalDatetimeLayout = "20060102T150405"

func civilInstant(dateStr, clockStr string) (time.Time, error) {
	day, err := calview.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := calview.ParseClock(clockStr)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), nil
}

// escapeText escapes the characters RFC 5545 treats specially in text
// values.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

// foldLine wraps content lines at 75 octets with a leading space on
// continuations, then terminates the line.
func foldLine(s string) string {
	if len(s) <= 75 {
		return s + "\n"
	}
	var sb strings.Builder
	for len(s) > 75 {
		sb.WriteString(s[:75])
		sb.WriteString("\n ")
		s = s[75:]
	}
	sb.WriteString(s)
	sb.WriteString("\n")
	return sb.String()
}
