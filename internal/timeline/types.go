package timeline

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors surfaced by this package. Wrap sites add context; callers
// test with errors.Is.
var (
	// ErrInvalidTimestamp indicates an event start or end that cannot be
	// parsed as an absolute instant. The offending event is the unit of
	// failure, not the whole batch.
	ErrInvalidTimestamp = errors.New("invalid event timestamp")

	// ErrInvalidWorkdayConfig indicates a workday window whose start is not
	// strictly before its end, or a non-positive long-block threshold.
	ErrInvalidWorkdayConfig = errors.New("invalid workday configuration")
)

// BlockKind distinguishes busy blocks (attributed to an event) from free
// blocks (gaps between events or at the window edges).
type BlockKind string

const (
	BlockBusy BlockKind = "busy"
	BlockFree BlockKind = "free"
)

// Date is a civil calendar date, used as the grouping key for events.
// It is comparable and safe to use as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the civil date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" civil date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String renders the date as "YYYY-MM-DD".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Before reports whether d is earlier than other by literal date value.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// At combines the date with a clock time in the given location.
func (d Date) At(hour, min int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, min, 0, 0, loc)
}

// Event is a normalized, timed calendar event for one user. Events arrive
// already fetched; this package only consumes them.
type Event struct {
	OwnerID string
	Start   time.Time
	End     time.Time
	AllDay  bool
	Title   string
}

// RawEvent is the wire shape handed over by the calendar-fetching
// collaborator: timestamps are ISO-8601 strings that still need parsing.
type RawEvent struct {
	OwnerID string
	Start   string
	End     string
	AllDay  bool
	Title   string
}

// ParseEvent converts a RawEvent into an Event. Timestamps must be RFC 3339
// instants; anything else fails with ErrInvalidTimestamp.
func ParseEvent(raw RawEvent) (Event, error) {
	start, err := time.Parse(time.RFC3339, raw.Start)
	if err != nil {
		return Event{}, fmt.Errorf("%w: start %q: %v", ErrInvalidTimestamp, raw.Start, err)
	}
	end, err := time.Parse(time.RFC3339, raw.End)
	if err != nil {
		return Event{}, fmt.Errorf("%w: end %q: %v", ErrInvalidTimestamp, raw.End, err)
	}
	return Event{
		OwnerID: raw.OwnerID,
		Start:   start,
		End:     end,
		AllDay:  raw.AllDay,
		Title:   raw.Title,
	}, nil
}

// Block is one contiguous sub-interval of a workday. Within a timeline,
// blocks are ordered by start time, non-overlapping, and their union equals
// the workday window. Title and IsLong are only meaningful for busy blocks.
type Block struct {
	Kind            BlockKind
	Title           string
	Start           time.Time
	End             time.Time
	DurationMinutes int
	IsLong          bool
}

// StartClock returns the block start as a "HH:MM" clock time.
func (b Block) StartClock() string {
	return b.Start.Format("15:04")
}

// EndClock returns the block end as a "HH:MM" clock time.
func (b Block) EndClock() string {
	return b.End.Format("15:04")
}

// DayKey identifies one (user, civil date) partition. A structured tuple is
// used instead of a concatenated string so that owner identifiers containing
// arbitrary characters cannot collide.
type DayKey struct {
	OwnerID string
	Date    Date
}

// DayTimeline is the ordered block sequence for one user on one date.
// It is immutable after construction.
type DayTimeline struct {
	OwnerID string
	Date    Date
	Blocks  []Block
}

// BusyMinutes sums the durations of the busy blocks in the timeline.
func (t DayTimeline) BusyMinutes() int {
	total := 0
	for _, b := range t.Blocks {
		if b.Kind == BlockBusy {
			total += b.DurationMinutes
		}
	}
	return total
}

// HasLongBlock reports whether any busy block exceeds the long threshold.
func (t DayTimeline) HasLongBlock() bool {
	for _, b := range t.Blocks {
		if b.Kind == BlockBusy && b.IsLong {
			return true
		}
	}
	return false
}

// WorkdayConfig defines the daily audit window and the long-block threshold.
type WorkdayConfig struct {
	// DayStart and DayEnd are "HH:MM" clock times with DayStart < DayEnd.
	DayStart string
	DayEnd   string

	// LongBlockThresholdMinutes marks busy blocks strictly longer than this
	// as long.
	LongBlockThresholdMinutes int
}

// DefaultWorkdayConfig returns the stock 07:00-17:00 window with a
// 60-minute long-block threshold.
func DefaultWorkdayConfig() WorkdayConfig {
	return WorkdayConfig{
		DayStart:                  "07:00",
		DayEnd:                    "17:00",
		LongBlockThresholdMinutes: 60,
	}
}

// Validate checks the window invariant DayStart < DayEnd and the threshold.
func (c WorkdayConfig) Validate() error {
	startH, startM, err := parseClock(c.DayStart)
	if err != nil {
		return fmt.Errorf("%w: day start: %v", ErrInvalidWorkdayConfig, err)
	}
	endH, endM, err := parseClock(c.DayEnd)
	if err != nil {
		return fmt.Errorf("%w: day end: %v", ErrInvalidWorkdayConfig, err)
	}
	if startH*60+startM >= endH*60+endM {
		return fmt.Errorf("%w: day start %s must be before day end %s", ErrInvalidWorkdayConfig, c.DayStart, c.DayEnd)
	}
	if c.LongBlockThresholdMinutes <= 0 {
		return fmt.Errorf("%w: long block threshold must be positive, got %d", ErrInvalidWorkdayConfig, c.LongBlockThresholdMinutes)
	}
	return nil
}

// Window resolves the absolute [workStart, workEnd) instants for a date.
func (c WorkdayConfig) Window(date Date, loc *time.Location) (time.Time, time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	startH, startM, _ := parseClock(c.DayStart)
	endH, endM, _ := parseClock(c.DayEnd)
	return date.At(startH, startM, loc), date.At(endH, endM, loc), nil
}

func parseClock(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q", s)
	}
	return t.Hour(), t.Minute(), nil
}
