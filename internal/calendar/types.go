package calendar

import (
	"errors"
	"fmt"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/teemow/calaudit/internal/timeline"
)

// FailureReason is a coarse classification of why a user's calendar could
// not be fetched.
type FailureReason string

const (
	// ReasonNotFoundOrNoAccess covers calendars that do not exist or are
	// not shared with the auditing account; the Calendar API reports both
	// as 404.
	ReasonNotFoundOrNoAccess FailureReason = "not_found_or_no_access"

	// ReasonForbidden covers calendars the auditing account is explicitly
	// denied access to.
	ReasonForbidden FailureReason = "forbidden"

	// ReasonOther covers everything else (network errors, quota, ...).
	ReasonOther FailureReason = "other"
)

// FetchFailure records one user whose events could not be fetched. It is
// carried alongside successful results so downstream serialization can emit
// an error row; it never participates in timeline or criteria logic.
type FetchFailure struct {
	OwnerID string
	Reason  FailureReason
	Message string
}

// ClassifyFetchError maps a Calendar API error to a FetchFailure for the
// given user.
func ClassifyFetchError(ownerID string, err error) FetchFailure {
	failure := FetchFailure{
		OwnerID: ownerID,
		Reason:  ReasonOther,
		Message: err.Error(),
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 404:
			failure.Reason = ReasonNotFoundOrNoAccess
			failure.Message = fmt.Sprintf("calendar for %s not found or not shared", ownerID)
		case 403:
			failure.Reason = ReasonForbidden
			failure.Message = fmt.Sprintf("access to calendar for %s is forbidden", ownerID)
		}
	}
	return failure
}

// toRawEvent converts a Google Calendar API event into the normalized wire
// shape. All-day events carry a civil date instead of a datetime; they are
// normalized to midnight instants and flagged so the builder can discard
// them.
func toRawEvent(ownerID string, ev *calendar.Event) timeline.RawEvent {
	raw := timeline.RawEvent{OwnerID: ownerID, Title: ev.Summary}
	if ev.Start != nil {
		if ev.Start.DateTime != "" {
			raw.Start = ev.Start.DateTime
		} else if ev.Start.Date != "" {
			raw.Start = ev.Start.Date + "T00:00:00Z"
			raw.AllDay = true
		}
	}
	if ev.End != nil {
		if ev.End.DateTime != "" {
			raw.End = ev.End.DateTime
		} else if ev.End.Date != "" {
			raw.End = ev.End.Date + "T00:00:00Z"
		}
	}
	return raw
}
