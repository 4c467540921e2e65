// Package calendar fetches Google Calendar events for audited users and
// normalizes them into the event shape the timeline builder consumes.
//
// The client supports multi-account authentication using the Google OAuth2
// flow. Per-user fetch failures are represented as data (FetchFailure) with
// a coarse reason code, so a report can still be produced for the users
// whose calendars were readable.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events, err := client.ListDayEvents(ctx, "a@example.com", date, loc)
//	if err != nil {
//	    failure := calendar.ClassifyFetchError("a@example.com", err)
//	    ...
//	}
package calendar
