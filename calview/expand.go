package calview

import (
	"fmt"
	"time"
)

// ExpandForWindow turns stored event records into the concrete occurrences
// that fall inside [windowStart, windowEnd] (inclusive civil dates). Output
// order is input event order, then occurrence order. Records whose date or
// time strings fail to parse are skipped; an inverted window yields an
// empty slice. Identical inputs always produce element-wise equal output.
func ExpandForWindow(events []EventRecord, windowStart, windowEnd time.Time) []Occurrence {
	out := make([]Occurrence, 0, len(events))
	windowStart = Day(windowStart)
	windowEnd = Day(windowEnd)
	if windowEnd.Before(windowStart) {
		return out
	}
	for _, event := range events {
		out = append(out, expandEvent(event, windowStart, windowEnd)...)
	}
	return out
}

func expandEvent(event EventRecord, windowStart, windowEnd time.Time) []Occurrence {
	start, err := instant(event.StartDate, event.StartTime)
	if err != nil {
		return nil
	}
	end, err := instant(event.EndDate, event.EndTime)
	if err != nil {
		return nil
	}

	if !event.IsRecurring || event.Recurrence == nil {
		if Day(end).Before(windowStart) || Day(start).After(windowEnd) {
			return nil
		}
		return []Occurrence{{EventRecord: event, OriginalID: event.ID}}
	}

	iter := occurrenceIter{
		event:       event,
		duration:    end.Sub(start),
		windowStart: windowStart,
		windowEnd:   windowEnd,
	}
	if patternEnd := event.Recurrence.EndDate; patternEnd != "" {
		// an unparsable pattern end date acts as "no bound", same
		// data-tolerance policy as everywhere else in this package
		if bound, err := ParseDate(patternEnd); err == nil {
			iter.patternEnd = &bound
		}
	}

	interval := event.Recurrence.Interval
	if interval < 1 {
		interval = 1
	}

	switch event.Recurrence.Type {
	case RecurrenceDaily:
		for cur := start; iter.inRange(cur); cur = cur.AddDate(0, 0, interval) {
			iter.emit(cur)
		}
	case RecurrenceWeekly:
		iter.expandWeekly(start, interval)
	case RecurrenceMonthly:
		wantDay := event.Recurrence.DayOfMonth
		for cur := start; iter.inRange(cur); cur = addMonths(cur, interval) {
			if wantDay == 0 || cur.Day() == wantDay {
				iter.emit(cur)
			}
		}
	case RecurrenceYearly:
		// a yearly occurrence must match both the day of month and a
		// listed weekday; absent either constraint nothing recurs
		wantDay := event.Recurrence.DayOfMonth
		wantWeekdays := event.Recurrence.DaysOfWeek
		for cur := start; iter.inRange(cur); cur = addYears(cur, interval) {
			if wantDay != 0 && cur.Day() == wantDay && weekdayIn(cur, wantWeekdays) {
				iter.emit(cur)
			}
		}
	default:
		// unknown cadence: the original start is the only occurrence
		if iter.inRange(start) {
			iter.emit(start)
		}
	}

	return iter.out
}

// occurrenceIter accumulates materialized occurrences while walking a
// recurrence pattern forward from the event's own start instant.
type occurrenceIter struct {
	event       EventRecord
	duration    time.Duration
	windowStart time.Time
	windowEnd   time.Time
	patternEnd  *time.Time

	seq int
	out []Occurrence
}

// inRange reports whether iteration should continue at this instant: the
// walk stops past the window's last day or past the pattern's end date,
// whichever comes first.
func (it *occurrenceIter) inRange(cur time.Time) bool {
	day := Day(cur)
	if day.After(it.windowEnd) {
		return false
	}
	if it.patternEnd != nil && day.After(*it.patternEnd) {
		return false
	}
	return true
}

// emit counts a valid occurrence and materializes it when its date lies
// inside the window. The sequence number advances for every valid
// occurrence since the event start, so a given occurrence keeps the same
// synthesized ID no matter which window asked for it.
func (it *occurrenceIter) emit(cur time.Time) {
	day := Day(cur)
	if !day.Before(it.windowStart) && !day.After(it.windowEnd) {
		occ := Occurrence{EventRecord: it.event, OriginalID: it.event.ID}
		occ.ID = fmt.Sprintf("%s_rec_%d", it.event.ID, it.seq)
		occ.StartDate = FormatDate(day)
		occ.EndDate = FormatDate(Day(cur.Add(it.duration)))
		it.out = append(it.out, occ)
	}
	it.seq++
}

// expandWeekly walks interval-aligned weeks from the event start. Without
// a DaysOfWeek restriction only the start's own weekday recurs; with one,
// every listed weekday inside each week produces an occurrence.
func (it *occurrenceIter) expandWeekly(start time.Time, interval int) {
	weekdays := it.event.Recurrence.DaysOfWeek
	if len(weekdays) == 0 {
		for cur := start; it.inRange(cur); cur = cur.AddDate(0, 0, 7*interval) {
			it.emit(cur)
		}
		return
	}
	startDay := Day(start)
	for anchor := start; it.inRange(anchor); anchor = anchor.AddDate(0, 0, 7*interval) {
		for offset := 0; offset < 7; offset++ {
			cand := anchor.AddDate(0, 0, offset)
			if Day(cand).Before(startDay) {
				continue
			}
			if !it.inRange(cand) {
				return
			}
			if weekdayIn(cand, weekdays) {
				it.emit(cand)
			}
		}
	}
}

func weekdayIn(t time.Time, weekdays []int) bool {
	for _, wd := range weekdays {
		if int(t.Weekday()) == wd {
			return true
		}
	}
	return false
}

// addMonths steps the calendar month while keeping the clock time. Like a
// plain month increment on a wall calendar, an out-of-range day normalizes
// forward (Jan 31 + 1 month lands in early March).
func addMonths(t time.Time, months int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(months), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func addYears(t time.Time, years int) time.Time {
	return time.Date(t.Year()+years, t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
