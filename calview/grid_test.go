package calview_test

import (
	"errors"
	"testing"
	"time"

	"calbox/calview"
)

func TestMonthGridShape(t *testing.T) {
	for _, tc := range []struct {
		name        string
		year        int
		month       time.Month
		startOfWeek time.Weekday
		wantFirst   time.Time
	}{
		{"february 2024 sunday start", 2024, time.February, time.Sunday, date(2024, time.January, 28)},
		{"first lands on start of week", 2024, time.September, time.Sunday, date(2024, time.September, 1)},
		{"monday start", 2024, time.January, time.Monday, date(2024, time.January, 1)},
		{"december wraps year", 2023, time.December, time.Sunday, date(2023, time.November, 26)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			grid, err := calview.MonthGrid(tc.year, tc.month, tc.startOfWeek)
			if err != nil {
				t.Fatal(err)
			}
			if len(grid) != calview.MonthGridSize {
				t.Fatalf("grid length = %d, want %d", len(grid), calview.MonthGridSize)
			}
			if !grid[0].Equal(tc.wantFirst) {
				t.Errorf("grid[0] = %v, want %v", grid[0], tc.wantFirst)
			}
			for i := 1; i < len(grid); i++ {
				if !grid[i].Equal(grid[i-1].AddDate(0, 0, 1)) {
					t.Fatalf("grid not consecutive at index %d: %v after %v", i, grid[i], grid[i-1])
				}
			}
			if grid[0].Weekday() != tc.startOfWeek {
				t.Errorf("grid[0] weekday = %v, want %v", grid[0].Weekday(), tc.startOfWeek)
			}
		})
	}
}

func TestMonthGridDeterministic(t *testing.T) {
	first, err := calview.MonthGrid(2024, time.June, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	second, err := calview.MonthGrid(2024, time.June, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("grids differ at index %d", i)
		}
	}
}

func TestMonthGridRejectsBadArguments(t *testing.T) {
	if _, err := calview.MonthGrid(2024, time.Month(13), time.Sunday); !errors.Is(err, calview.ErrMonthOutOfRange) {
		t.Errorf("month 13: err = %v, want ErrMonthOutOfRange", err)
	}
	if _, err := calview.MonthGrid(2024, time.Month(0), time.Sunday); !errors.Is(err, calview.ErrMonthOutOfRange) {
		t.Errorf("month 0: err = %v, want ErrMonthOutOfRange", err)
	}
	if _, err := calview.MonthGrid(2024, time.June, time.Weekday(7)); !errors.Is(err, calview.ErrStartOfWeekInvalid) {
		t.Errorf("weekday 7: err = %v, want ErrStartOfWeekInvalid", err)
	}
}

func TestHourSlots(t *testing.T) {
	slots := calview.HourSlots()
	if len(slots) != 24 {
		t.Fatalf("expected 24 slots, got %d", len(slots))
	}
	if slots[0].Label != "00:00" || slots[9].Label != "09:00" || slots[23].Label != "23:00" {
		t.Errorf("labels wrong: %q %q %q", slots[0].Label, slots[9].Label, slots[23].Label)
	}
	for i, slot := range slots {
		if slot.Hour != i {
			t.Errorf("slot %d has hour %d", i, slot.Hour)
		}
	}
}

func occurrenceOn(id, day, startTime, endTime string) calview.Occurrence {
	return calview.Occurrence{
		EventRecord: calview.EventRecord{
			ID:        id + "_rec_0",
			Title:     "occ",
			StartDate: day,
			EndDate:   day,
			StartTime: startTime,
			EndTime:   endTime,
		},
		OriginalID: id,
	}
}

func TestAssignToSlotsSpanAndStartFlag(t *testing.T) {
	occ := occurrenceOn("ev1", "2024-01-05", "14:00", "17:00")
	slots := calview.AssignToSlots([]calview.Occurrence{occ}, date(2024, time.January, 5))

	for hour, slot := range slots {
		wantOccupied := hour >= 14 && hour <= 17
		if got := len(slot.Entries) == 1; got != wantOccupied {
			t.Errorf("slot %d occupied = %v, want %v", hour, got, wantOccupied)
			continue
		}
		if !wantOccupied {
			continue
		}
		if wantStarts := hour == 14; slot.Entries[0].StartsHere != wantStarts {
			t.Errorf("slot %d StartsHere = %v, want %v", hour, slot.Entries[0].StartsHere, wantStarts)
		}
	}
}

func TestAssignToSlotsCrossMidnightCapsAtLastSlot(t *testing.T) {
	occ := occurrenceOn("ev1", "2024-01-05", "22:00", "01:00")
	occ.EndDate = "2024-01-06"

	slots := calview.AssignToSlots([]calview.Occurrence{occ}, date(2024, time.January, 5))
	for hour, slot := range slots {
		wantOccupied := hour == 22 || hour == 23
		if got := len(slot.Entries) == 1; got != wantOccupied {
			t.Errorf("slot %d occupied = %v, want %v", hour, got, wantOccupied)
		}
	}

	// and nothing on the next day's grid
	next := calview.AssignToSlots([]calview.Occurrence{occ}, date(2024, time.January, 6))
	for hour, slot := range next {
		if len(slot.Entries) != 0 {
			t.Errorf("slot %d of the next day must stay empty", hour)
		}
	}
}

func TestAssignToSlotsIgnoresOtherDaysAndBadTimes(t *testing.T) {
	other := occurrenceOn("ev1", "2024-01-04", "09:00", "10:00")
	broken := occurrenceOn("ev2", "2024-01-05", "soonish", "10:00")

	slots := calview.AssignToSlots([]calview.Occurrence{other, broken}, date(2024, time.January, 5))
	for hour, slot := range slots {
		if len(slot.Entries) != 0 {
			t.Errorf("slot %d must be empty, has %d entries", hour, len(slot.Entries))
		}
	}
}

func TestAssignToWeekCells(t *testing.T) {
	weekDays := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		weekDays = append(weekDays, date(2024, time.January, 1+i))
	}
	occ := occurrenceOn("ev1", "2024-01-03", "08:00", "09:00")

	cells, err := calview.AssignToWeekCells([]calview.Occurrence{occ}, weekDays)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("expected 2 occupied cells, got %d", len(cells))
	}
	start, ok := cells[calview.WeekCell{Day: 2, Hour: 8}]
	if !ok || len(start) != 1 || !start[0].StartsHere {
		t.Errorf("cell (2,8) must hold the starting entry, got %+v", start)
	}
	cont, ok := cells[calview.WeekCell{Day: 2, Hour: 9}]
	if !ok || len(cont) != 1 || cont[0].StartsHere {
		t.Errorf("cell (2,9) must hold a continuation entry, got %+v", cont)
	}
}

func TestAssignToWeekCellsRejectsWrongLength(t *testing.T) {
	_, err := calview.AssignToWeekCells(nil, []time.Time{date(2024, time.January, 1)})
	if !errors.Is(err, calview.ErrWeekDaysWrongLength) {
		t.Errorf("err = %v, want ErrWeekDaysWrongLength", err)
	}
}

func TestAssignToMonthCells(t *testing.T) {
	grid, err := calview.MonthGrid(2024, time.January, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	occ := occurrenceOn("ev1", "2024-01-10", "09:00", "10:00")
	occ.EndDate = "2024-01-12" // spans three cells

	cells := calview.AssignToMonthCells([]calview.Occurrence{occ}, grid)
	if len(cells) != calview.MonthGridSize {
		t.Fatalf("expected %d cells, got %d", calview.MonthGridSize, len(cells))
	}
	occupied := 0
	for i, cell := range cells {
		if len(cell) == 0 {
			continue
		}
		occupied++
		day := grid[i]
		if day.Before(date(2024, time.January, 10)) || day.After(date(2024, time.January, 12)) {
			t.Errorf("cell %d (%v) wrongly occupied", i, day)
		}
		if wantStarts := day.Equal(date(2024, time.January, 10)); cell[0].StartsHere != wantStarts {
			t.Errorf("cell %d StartsHere = %v, want %v", i, cell[0].StartsHere, wantStarts)
		}
	}
	if occupied != 3 {
		t.Errorf("expected 3 occupied cells, got %d", occupied)
	}
}
