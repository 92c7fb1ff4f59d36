package calview_test

import (
	"testing"
	"time"

	"calbox/calview"
)

func TestParseDate(t *testing.T) {
	got, err := calview.ParseDate("2024-02-29")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("got %v", got)
	}

	for _, bad := range []string{"", "2024-13-01", "2024-02-30", "02/29/2024", "tomorrow"} {
		if _, err := calview.ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) must fail", bad)
		}
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	day := date(2031, time.December, 7)
	if got := calview.FormatDate(day); got != "2031-12-07" {
		t.Errorf("got %q", got)
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, err := calview.ParseClock("09:30")
	if err != nil {
		t.Fatal(err)
	}
	if hour != 9 || minute != 30 {
		t.Errorf("got %d:%d", hour, minute)
	}

	for _, bad := range []string{"", "24:00", "9:99", "noon"} {
		if _, _, err := calview.ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) must fail", bad)
		}
	}
}

func TestDayTruncates(t *testing.T) {
	at := time.Date(2024, time.March, 5, 17, 42, 9, 120, time.UTC)
	if got := calview.Day(at); !got.Equal(date(2024, time.March, 5)) {
		t.Errorf("got %v", got)
	}
}
