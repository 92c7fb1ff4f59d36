package calview

import "errors"

// Caller-contract violations. Unlike bad event data, which is silently
// skipped, these surface immediately: a wrong-shaped grid is a bug in the
// caller, not a data-quality problem.
var (
	ErrMonthOutOfRange     = errors.New("month out of range")
	ErrStartOfWeekInvalid  = errors.New("start of week out of range")
	ErrWeekDaysWrongLength = errors.New("week must be exactly 7 days")
)
