package ical_test

import (
	"strings"
	"testing"

	"calbox/calview"
	"calbox/ical"
)

func TestCalendarToIcal(t *testing.T) {
	cal := ical.NewCalendar("team calendar")

	event, err := ical.NewEvent(calview.EventRecord{
		ID:           "ev1",
		Title:        "Weekly sync",
		Description:  "agenda; bring notes",
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-01",
		StartTime:    "09:00",
		EndTime:      "10:00",
		Location:     calview.PlainAddress("Room 4"),
		IsRecurring:  true,
		Tags:         []string{"work"},
		Participants: []string{"ann@example.com"},
		Reminders:    []int{15},
		Recurrence: &calview.RecurrencePattern{
			Type:       calview.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []int{1, 3},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	cal.AddEvent(event)

	var sb strings.Builder
	if err := cal.ToIcal(func(s string) { sb.WriteString(s) }); err != nil {
		t.Fatal(err)
	}
	out := sb.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"X-WR-CALNAME:team calendar",
		"BEGIN:VEVENT",
		"UID:ev1",
		"DTSTART:20240101T090000",
		"DTEND:20240101T100000",
		"SUMMARY:Weekly sync",
		`DESCRIPTION:agenda\; bring notes`,
		"LOCATION:Room 4",
		"CATEGORIES:work",
		"ATTENDEE:mailto:ann@example.com",
		"RRULE:",
		"FREQ=WEEKLY",
		"TRIGGER:-PT15M",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewEventRejectsBadRecords(t *testing.T) {
	base := calview.EventRecord{
		ID:        "ev1",
		Title:     "ok",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	}

	noTitle := base
	noTitle.Title = ""
	if _, err := ical.NewEvent(noTitle); err == nil {
		t.Error("event without a title must be rejected")
	}

	badDate := base
	badDate.StartDate = "01/01/2024"
	if _, err := ical.NewEvent(badDate); err == nil {
		t.Error("unparsable start date must be rejected")
	}

	inverted := base
	inverted.EndTime = "08:00"
	if _, err := ical.NewEvent(inverted); err == nil {
		t.Error("end before start must be rejected")
	}
}
