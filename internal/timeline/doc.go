// Package timeline converts flat lists of calendar events into per-user,
// per-day sequences of busy and free blocks bounded by a configured workday
// window.
//
// The builder groups events by (owner, civil date), clips them to the
// workday, and fills the gaps between them with free blocks so that every
// timeline exactly tiles the window. Overlapping events are kept as
// independent busy blocks; the gap cursor never moves backward, so no free
// block is ever emitted inside an interval that an earlier event already
// covered.
//
// All functions in this package are pure: they read their arguments and
// allocate new output, so concurrent invocations over disjoint inputs are
// safe without synchronization.
package timeline
