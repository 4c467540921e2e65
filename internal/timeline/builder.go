package timeline

import (
	"sort"
	"time"
)

// Build partitions events by (owner, civil date of start) and constructs one
// DayTimeline per partition. Timelines are returned sorted by owner and then
// date so repeated runs over the same input produce identical output.
//
// All-day events never contribute blocks. Events that do not intersect the
// workday window are discarded; the survivors are clipped to it. Overlapping
// events are not merged: each one becomes its own busy block, mirroring
// independent meeting listings rather than true occupancy coverage.
func Build(events []Event, cfg WorkdayConfig, loc *time.Location) ([]DayTimeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	groups := make(map[DayKey][]Event)
	var keys []DayKey
	for _, ev := range events {
		key := DayKey{OwnerID: ev.OwnerID, Date: DateOf(ev.Start.In(loc))}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], ev)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].OwnerID != keys[j].OwnerID {
			return keys[i].OwnerID < keys[j].OwnerID
		}
		return keys[i].Date.Before(keys[j].Date)
	})

	timelines := make([]DayTimeline, 0, len(keys))
	for _, key := range keys {
		tl, err := BuildDay(key.OwnerID, key.Date, groups[key], cfg, loc)
		if err != nil {
			return nil, err
		}
		timelines = append(timelines, tl)
	}
	return timelines, nil
}

// BuildDay constructs the block sequence for a single user and date. With no
// qualifying events the result is one free block spanning the whole workday.
func BuildDay(ownerID string, date Date, events []Event, cfg WorkdayConfig, loc *time.Location) (DayTimeline, error) {
	if loc == nil {
		loc = time.Local
	}
	workStart, workEnd, err := cfg.Window(date, loc)
	if err != nil {
		return DayTimeline{}, err
	}

	// Keep only timed events that intersect [workStart, workEnd), clipped
	// to the window.
	clipped := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.AllDay {
			continue
		}
		if !ev.End.After(workStart) || !ev.Start.Before(workEnd) {
			continue
		}
		c := ev
		if c.Start.Before(workStart) {
			c.Start = workStart
		}
		if c.End.After(workEnd) {
			c.End = workEnd
		}
		clipped = append(clipped, c)
	}

	// Stable: ties in start instant keep their input order.
	sort.SliceStable(clipped, func(i, j int) bool {
		return clipped[i].Start.Before(clipped[j].Start)
	})

	tl := DayTimeline{OwnerID: ownerID, Date: date}
	cursor := workStart
	for _, ev := range clipped {
		if ev.Start.After(cursor) {
			tl.Blocks = appendBlock(tl.Blocks, freeBlock(cursor, ev.Start))
		}
		tl.Blocks = appendBlock(tl.Blocks, busyBlock(ev, cfg.LongBlockThresholdMinutes))
		// Monotonic: overlapping events never move the cursor backward.
		if ev.End.After(cursor) {
			cursor = ev.End
		}
	}
	if cursor.Before(workEnd) {
		tl.Blocks = appendBlock(tl.Blocks, freeBlock(cursor, workEnd))
	}
	return tl, nil
}

func busyBlock(ev Event, longThresholdMinutes int) Block {
	minutes := durationMinutes(ev.Start, ev.End)
	return Block{
		Kind:            BlockBusy,
		Title:           ev.Title,
		Start:           ev.Start,
		End:             ev.End,
		DurationMinutes: minutes,
		IsLong:          minutes > longThresholdMinutes,
	}
}

func freeBlock(start, end time.Time) Block {
	return Block{
		Kind:            BlockFree,
		Start:           start,
		End:             end,
		DurationMinutes: durationMinutes(start, end),
	}
}

// appendBlock suppresses zero and negative durations, which can only arise
// from boundary equality after clipping.
func appendBlock(blocks []Block, b Block) []Block {
	if b.DurationMinutes <= 0 {
		return blocks
	}
	return append(blocks, b)
}

func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
