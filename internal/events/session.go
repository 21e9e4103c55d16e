package events

import (
	"time"

	"github.com/eventdesk/backend/pkg/response"
)

// validateTimeRange checks the session invariant end_time > start_time.
func validateTimeRange(start, end time.Time) response.FieldErrors {
	if !end.After(start) {
		return response.FieldErrors{}.Add("end_time", "end_time must be greater than start_time")
	}
	return nil
}

// resolveSessionTimes merges supplied endpoints over an existing session's
// times and validates the result. Unsupplied sides keep their stored values.
// When the event had no session both existing times are zero; a side that
// stays zero after merging is reported as missing rather than compared
// against the zero value.
func resolveSessionTimes(existingStart, existingEnd time.Time, start, end *time.Time) (time.Time, time.Time, response.FieldErrors) {
	s, e := existingStart, existingEnd
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	var errs response.FieldErrors
	if s.IsZero() {
		errs = errs.Add("start_time", "start_time is required when the event has no session")
	}
	if e.IsZero() {
		errs = errs.Add("end_time", "end_time is required when the event has no session")
	}
	if errs != nil {
		return s, e, errs
	}
	if errs := validateTimeRange(s, e); errs != nil {
		return s, e, errs
	}
	return s, e, nil
}
