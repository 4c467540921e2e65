// Package criteria evaluates workday timelines against calendar-hygiene
// rules and renders the per-user outcome message.
//
// Two interchangeable rule sets exist: a single-day check (no long meeting
// blocks, sufficient planned occupancy) and a two-day comparison (no long
// blocks on either day, a mostly-planned earlier day, a partially-planned
// later day). Evaluation is a pure function of its inputs; no state is
// retained between users or runs.
package criteria
