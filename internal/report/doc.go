// Package report orchestrates report generation: it fetches events for the
// audited users, feeds them through the timeline builder and the criteria
// evaluator, and serializes the outcome as CSV.
//
// Fetching happens with bounded per-user parallelism; the builder and
// evaluator themselves are pure, so no synchronization crosses into them.
// Users whose calendars cannot be read are carried through as fetch
// failures and surface as error rows in the CSV output.
package report
