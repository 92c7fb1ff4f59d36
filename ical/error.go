package ical

var (
	ErrIDNotSet         = "id not set"
	ErrSummaryNotSet    = "summary not set"
	ErrStartDateInvalid = "start date invalid"
	ErrEndDateInvalid   = "end date invalid"

	ErrStartDateAfterEndDate = "start date is after end date"
)
