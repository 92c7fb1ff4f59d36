package model

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"calbox/calview"
)

type EventIDCtxKeyType string

const EventIDCtxKey EventIDCtxKeyType = "event-id"

// Event is a stored calendar event. Dates are YYYY-MM-DD and times are
// HH:MM local-civil strings, the same shapes the calview core consumes;
// lexicographic comparison on the date columns matches chronological
// order, which the range queries rely on.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk"`            // required
	OwnerID     string `bun:"owner_id,notnull"` // required
	Title       string `bun:"title,notnull"`    // required
	Description string `bun:"description"`

	StartDate string `bun:"start_date,notnull"` // required
	EndDate   string `bun:"end_date,notnull"`   // required
	StartTime string `bun:"start_time,notnull"` // required
	EndTime   string `bun:"end_time,notnull"`   // required

	LocationAddress string  `bun:"location_address"`
	PlaceID         string  `bun:"place_id"`
	Latitude        float64 `bun:"latitude"`
	Longitude       float64 `bun:"longitude"`
	HasCoordinates  bool    `bun:"has_coordinates"`

	IsPublic    bool `bun:"is_public"`
	IsDraft     bool `bun:"is_draft"`
	IsRecurring bool `bun:"is_recurring"`

	// comma-joined; order irrelevant for tags, ascending for reminders
	Tags      string `bun:"tags"`
	Reminders string `bun:"reminders"`

	RecurrenceType       string `bun:"recurrence_type"`
	RecurrenceInterval   int    `bun:"recurrence_interval"`
	RecurrenceEndDate    string `bun:"recurrence_end_date"`
	RecurrenceDaysOfWeek string `bun:"recurrence_days_of_week"`
	RecurrenceDayOfMonth int    `bun:"recurrence_day_of_month"`

	CreatedAt int64 `bun:"created_at,notnull"`
	UpdatedAt int64 `bun:"updated_at"`

	Participants []*Participant `bun:"rel:has-many,join:id=event_id"`
}

var _ bun.AfterDeleteHook = (*Event)(nil)

// Cleanup related participants
func (e *Event) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	if query.DB() == nil {
		return fmt.Errorf("Event.AfterDelete: db is nil")
	}

	switch eventID := ctx.Value(EventIDCtxKey).(type) {
	case string:
		if eventID == "" {
			return fmt.Errorf("Event.AfterDelete: event id is blank")
		}
		if _, err := query.DB().NewDelete().
			Model((*Participant)(nil)).
			Where("event_id = ?", eventID).
			Exec(ctx); err != nil {
			return fmt.Errorf("Event.AfterDelete: can't delete participants: %w", err)
		}
	case nil:
		return fmt.Errorf("Event.AfterDelete: event id is nil")
	default:
		return fmt.Errorf("Event.AfterDelete: wrong event id type | type=%T", eventID)
	}

	return nil
}

func (e *Event) Upsert(ctx context.Context, db bun.IDB) error {
	// validate
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Upsert: event id is blank")
	case e.OwnerID == "":
		return fmt.Errorf("(*Event).Upsert: owner id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Upsert: title is blank")
	}
	start, err := civilInstant(e.StartDate, e.StartTime)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: invalid start: %w", err)
	}
	end, err := civilInstant(e.EndDate, e.EndTime)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: invalid end: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("(*Event).Upsert: start must be before end")
	}
	if e.IsRecurring {
		switch calview.RecurrenceType(e.RecurrenceType) {
		case calview.RecurrenceDaily, calview.RecurrenceWeekly,
			calview.RecurrenceMonthly, calview.RecurrenceYearly:
		default:
			return fmt.Errorf("(*Event).Upsert: unknown recurrence type %q", e.RecurrenceType)
		}
		if e.RecurrenceEndDate != "" {
			if _, err := calview.ParseDate(e.RecurrenceEndDate); err != nil {
				return fmt.Errorf("(*Event).Upsert: invalid recurrence end date: %w", err)
			}
		}
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}

	exists, err := db.NewSelect().
		Model((*Event)(nil)).
		Where("id = ?", e.ID).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).Upsert: %w", err)
	}

	switch exists {
	case true:
		e.UpdatedAt = time.Now().UTC().Unix()
		if _, err := db.NewUpdate().
			Model(e).
			WherePK().
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	case false:
		if _, err := db.NewInsert().
			Model(e).
			Exec(ctx); err != nil {
			return fmt.Errorf("(*Event).Upsert: %w", err)
		}
	}

	return nil
}

// SetTags stores a tag set in the comma-joined column.
func (e *Event) SetTags(tags []string) {
	e.Tags = strings.Join(tags, ",")
}

// SetReminders stores reminder minute offsets, ascending.
func (e *Event) SetReminders(reminders []int) {
	sorted := make([]int, len(reminders))
	copy(sorted, reminders)
	sort.Ints(sorted)
	parts := make([]string, 0, len(sorted))
	for _, minutes := range sorted {
		parts = append(parts, strconv.Itoa(minutes))
	}
	e.Reminders = strings.Join(parts, ",")
}

// SetDaysOfWeek stores the weekly weekday restriction (0=Sunday).
func (e *Event) SetDaysOfWeek(daysOfWeek []int) {
	parts := make([]string, 0, len(daysOfWeek))
	for _, day := range daysOfWeek {
		parts = append(parts, strconv.Itoa(day))
	}
	e.RecurrenceDaysOfWeek = strings.Join(parts, ",")
}

// ToRecord converts the stored row into the shape the calview core
// consumes. Participants must already be loaded via the relation.
func (e *Event) ToRecord() calview.EventRecord {
	record := calview.EventRecord{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		IsPublic:    e.IsPublic,
		IsDraft:     e.IsDraft,
		IsRecurring: e.IsRecurring,
		Tags:        splitList(e.Tags),
	}

	switch {
	case e.PlaceID != "":
		record.Location = calview.StructuredPlace{
			PlaceID:        e.PlaceID,
			Address:        e.LocationAddress,
			Latitude:       e.Latitude,
			Longitude:      e.Longitude,
			HasCoordinates: e.HasCoordinates,
		}
	case e.LocationAddress != "":
		record.Location = calview.PlainAddress(e.LocationAddress)
	}

	for _, part := range splitList(e.Reminders) {
		if minutes, err := strconv.Atoi(part); err == nil {
			record.Reminders = append(record.Reminders, minutes)
		}
	}

	for _, participant := range e.Participants {
		record.Participants = append(record.Participants, participant.Email)
	}

	if e.IsRecurring && e.RecurrenceType != "" {
		pattern := &calview.RecurrencePattern{
			Type:       calview.RecurrenceType(e.RecurrenceType),
			Interval:   e.RecurrenceInterval,
			EndDate:    e.RecurrenceEndDate,
			DayOfMonth: e.RecurrenceDayOfMonth,
		}
		for _, part := range splitList(e.RecurrenceDaysOfWeek) {
			if day, err := strconv.Atoi(part); err == nil {
				pattern.DaysOfWeek = append(pattern.DaysOfWeek, day)
			}
		}
		record.Recurrence = pattern
	}

	return record
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, ",")
}

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
