// Package calview is the pure calendar core: it expands recurring events
// into concrete occurrences for a display window and projects them onto
// month/week/day grids. It performs no I/O and keeps no state; every
// operation is a pure function of its arguments.
package calview

// RecurrenceType is one of the four interval-based cadences.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// RecurrencePattern governs how a recurring event repeats.
type RecurrencePattern struct {
	Type RecurrenceType
	// Interval is the cadence multiplier; values below 1 are treated as 1.
	Interval int
	// EndDate is an optional YYYY-MM-DD bound; no occurrence is produced
	// on a later date. Unparsable values act as "no bound".
	EndDate string
	// DaysOfWeek restricts weekly occurrences to these weekdays
	// (0=Sunday .. 6=Saturday). Empty means no restriction.
	DaysOfWeek []int
	// DayOfMonth restricts monthly occurrences to this day of the month.
	// Zero means no restriction. Yearly occurrences require it.
	DayOfMonth int
}

// Location is either a plain address string or a structured place.
type Location interface {
	// DisplayAddress is the human-readable address for rendering.
	DisplayAddress() string
	isLocation()
}

type PlainAddress string

func (p PlainAddress) DisplayAddress() string { return string(p) }
func (PlainAddress) isLocation()              {}

type StructuredPlace struct {
	PlaceID   string
	Address   string
	Latitude  float64
	Longitude float64
	// HasCoordinates distinguishes a real (0,0) coordinate from "not set".
	HasCoordinates bool
}

func (s StructuredPlace) DisplayAddress() string { return s.Address }
func (StructuredPlace) isLocation()              {}

// EventRecord is a stored event as supplied by the persistence collaborator.
// Dates are YYYY-MM-DD and times are HH:MM, both local-civil. The core never
// mutates a record; malformed date/time strings cause the record to be
// skipped rather than an error.
type EventRecord struct {
	ID          string
	Title       string
	Description string

	StartDate string
	EndDate   string
	StartTime string
	EndTime   string

	Location Location

	IsPublic    bool
	IsDraft     bool
	IsRecurring bool

	Tags         []string
	Participants []string
	Reminders    []int

	Recurrence *RecurrencePattern
}

// Occurrence is one concrete realization of an event on a specific date.
// Occurrences are never persisted; they are recomputed on every window
// request. ID is synthesized as "<originalID>_rec_<n>" for recurring
// events so rendering lists can key them; OriginalID always points back
// at the stored record, which is the only thing that is editable.
type Occurrence struct {
	EventRecord
	OriginalID string
}
