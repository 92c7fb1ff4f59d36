package calview

import (
	"fmt"
	"time"
)

// MonthGridSize is 6 weeks of 7 days: the grid always stays rectangular
// even when the trailing week(s) belong entirely to the next month.
const MonthGridSize = 42

// MonthGrid returns the 42 consecutive civil dates backing a month view,
// starting on the first startOfWeek-aligned date on or before the 1st of
// the month. Out-of-range month or startOfWeek values are caller bugs and
// return an error rather than a wrong-shaped grid.
func MonthGrid(year int, month time.Month, startOfWeek time.Weekday) ([]time.Time, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("MonthGrid: %w: %d", ErrMonthOutOfRange, month)
	}
	if startOfWeek < time.Sunday || startOfWeek > time.Saturday {
		return nil, fmt.Errorf("MonthGrid: %w: %d", ErrStartOfWeekInvalid, startOfWeek)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	back := (int(first.Weekday()) - int(startOfWeek) + 7) % 7
	cur := first.AddDate(0, 0, -back)

	grid := make([]time.Time, 0, MonthGridSize)
	for i := 0; i < MonthGridSize; i++ {
		grid = append(grid, cur)
		cur = cur.AddDate(0, 0, 1)
	}
	return grid, nil
}

// HourSlot labels one hour row of a day or week view.
type HourSlot struct {
	Hour  int
	Label string
}

// HourSlots returns the fixed 24 hour rows, "00:00" through "23:00".
// Always 24; DST transitions are not modeled anywhere in this package.
func HourSlots() []HourSlot {
	slots := make([]HourSlot, 0, 24)
	for hour := 0; hour < 24; hour++ {
		slots = append(slots, HourSlot{
			Hour:  hour,
			Label: fmt.Sprintf("%02d:00", hour),
		})
	}
	return slots
}

// SlotEntry places one occurrence into one grid cell. StartsHere is true
// only in the cell where the occurrence begins, so the rendering layer can
// draw a full card once and thin continuation markers after it instead of
// repeating the card in every spanned hour.
type SlotEntry struct {
	Occurrence Occurrence
	StartsHere bool
}

// TimeSlot is one hour bucket of a day view.
type TimeSlot struct {
	Hour    int
	Entries []SlotEntry
}

// AssignToSlots buckets occurrences into the 24 hour slots of a single
// day. Only occurrences starting on that day participate; an occurrence
// running past midnight is clamped to slot 23 and never wraps onto the
// next day's grid. Occurrences with unparsable times are left out.
func AssignToSlots(occurrences []Occurrence, day time.Time) []TimeSlot {
	slots := make([]TimeSlot, 24)
	for hour := range slots {
		slots[hour].Hour = hour
	}

	for _, occ := range occurrences {
		startHour, endHour, ok := slotSpan(occ, day)
		if !ok {
			continue
		}
		for hour := startHour; hour <= endHour; hour++ {
			slots[hour].Entries = append(slots[hour].Entries, SlotEntry{
				Occurrence: occ,
				StartsHere: hour == startHour,
			})
		}
	}
	return slots
}

// slotSpan computes the inclusive hour range an occurrence covers on the
// given day, or ok=false when the occurrence starts elsewhere or carries
// unparsable fields.
func slotSpan(occ Occurrence, day time.Time) (startHour, endHour int, ok bool) {
	startDate, err := ParseDate(occ.StartDate)
	if err != nil || !sameDate(startDate, day) {
		return 0, 0, false
	}
	startHour, _, err = ParseClock(occ.StartTime)
	if err != nil {
		return 0, 0, false
	}
	endHour, _, err = ParseClock(occ.EndTime)
	if err != nil {
		return 0, 0, false
	}
	if endDate, err := ParseDate(occ.EndDate); err == nil && endDate.After(startDate) {
		// cross-midnight spans cap at the end-of-day slot
		endHour = 23
	}
	if endHour > 23 {
		endHour = 23
	}
	if endHour < startHour {
		endHour = startHour
	}
	return startHour, endHour, true
}

// WeekCell addresses one cell of a week view: day column 0-6 by hour row.
type WeekCell struct {
	Day  int
	Hour int
}

// AssignToWeekCells applies the per-day slot rule across the 7 days of a
// week view. Only cells holding at least one occurrence appear in the map.
func AssignToWeekCells(occurrences []Occurrence, weekDays []time.Time) (map[WeekCell][]SlotEntry, error) {
	if len(weekDays) != 7 {
		return nil, fmt.Errorf("AssignToWeekCells: %w: got %d", ErrWeekDaysWrongLength, len(weekDays))
	}
	cells := make(map[WeekCell][]SlotEntry)
	for dayIndex, day := range weekDays {
		for _, slot := range AssignToSlots(occurrences, day) {
			if len(slot.Entries) == 0 {
				continue
			}
			cells[WeekCell{Day: dayIndex, Hour: slot.Hour}] = slot.Entries
		}
	}
	return cells, nil
}

// AssignToMonthCells buckets occurrences into month-grid cells, one bucket
// per grid date. Unlike hour slots, a multi-day occurrence appears in
// every cell its [startDate, endDate] interval covers; StartsHere marks
// the cell carrying its first day.
func AssignToMonthCells(occurrences []Occurrence, gridDays []time.Time) [][]SlotEntry {
	cells := make([][]SlotEntry, len(gridDays))
	for i, day := range gridDays {
		for _, occ := range occurrences {
			startDate, err := ParseDate(occ.StartDate)
			if err != nil {
				continue
			}
			endDate, err := ParseDate(occ.EndDate)
			if err != nil {
				endDate = startDate
			}
			if day.Before(startDate) || day.After(endDate) {
				continue
			}
			cells[i] = append(cells[i], SlotEntry{
				Occurrence: occ,
				StartsHere: sameDate(day, startDate),
			})
		}
	}
	return cells
}
