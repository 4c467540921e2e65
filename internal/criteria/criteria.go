package criteria

import (
	"errors"
	"fmt"

	"github.com/teemow/calaudit/internal/timeline"
)

// ErrMissingTargetDate indicates a two-day evaluation invoked with fewer
// than two distinct dates.
var ErrMissingTargetDate = errors.New("two-day evaluation requires two distinct dates")

// Mode selects which rule set a verdict was produced by.
type Mode string

const (
	ModeSingleDay Mode = "single-day"
	ModeTwoDay    Mode = "two-day"
)

// Thresholds holds the numeric inputs of the rule sets.
type Thresholds struct {
	// TotalWorkdayMinutes is the nominal workday length the percentages
	// are computed against. It is a fixed constant independent of the
	// configured window start/end; see DESIGN.md for the open question.
	TotalWorkdayMinutes int

	// OccupancyThresholdPercent is the minimum busy percentage for the
	// single-day occupancy rule.
	OccupancyThresholdPercent float64

	// LowDayCeilingPercent caps the earlier day's availability in two-day
	// mode: day1 should already be mostly planned.
	LowDayCeilingPercent float64

	// HighDayCeilingPercent caps the later day's availability in two-day
	// mode: day2 should at least be taking shape.
	HighDayCeilingPercent float64
}

// DefaultThresholds returns the stock rule parameters.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalWorkdayMinutes:       540,
		OccupancyThresholdPercent: 85,
		LowDayCeilingPercent:      30,
		HighDayCeilingPercent:     70,
	}
}

// Verdict is the per-user outcome of one evaluation. It is constructed once
// and never mutated afterward.
type Verdict struct {
	OwnerID       string
	Mode          Mode
	Passed        bool
	PassedReasons []string
	FailedReasons []string
	Message       string

	// Single-day fields.
	Date        timeline.Date
	BusyMinutes int
	BusyPercent float64

	// Two-day fields. Day1 is always the earlier of the two target dates,
	// regardless of argument order.
	Day1                    timeline.Date
	Day2                    timeline.Date
	Day1AvailabilityPercent float64
	Day2AvailabilityPercent float64
}

// EvaluateDay applies the single-day rule set for one user. A user with no
// timeline on the target date counts as maximally free, not as an error.
func EvaluateDay(timelines []timeline.DayTimeline, ownerID string, date timeline.Date, cfg timeline.WorkdayConfig, th Thresholds) Verdict {
	v := Verdict{OwnerID: ownerID, Mode: ModeSingleDay, Date: date}

	day, found := dayFor(timelines, ownerID, date)
	if found {
		v.BusyMinutes = day.BusyMinutes()
	}
	v.BusyPercent = percent(v.BusyMinutes, th.TotalWorkdayMinutes)

	noLong := !found || !day.HasLongBlock()
	recordRule(&v, noLong,
		fmt.Sprintf("no meeting block longer than %d minutes", cfg.LongBlockThresholdMinutes),
		fmt.Sprintf("has meeting blocks longer than %d minutes", cfg.LongBlockThresholdMinutes))

	occupied := v.BusyPercent >= th.OccupancyThresholdPercent
	recordRule(&v, occupied,
		fmt.Sprintf("planned time at or above %.0f%% of the workday", th.OccupancyThresholdPercent),
		fmt.Sprintf("planned time below %.0f%% of the workday", th.OccupancyThresholdPercent))

	v.Passed = noLong && occupied
	v.Message = renderDayMessage(v, noLong, occupied, cfg, th)
	return v
}

// EvaluateDays applies the two-day rule set for one user. The earlier of the
// two dates becomes day1, so swapping the arguments yields an identical
// verdict. Equal dates fail with ErrMissingTargetDate.
func EvaluateDays(timelines []timeline.DayTimeline, ownerID string, dateA, dateB timeline.Date, cfg timeline.WorkdayConfig, th Thresholds) (Verdict, error) {
	if dateA == dateB {
		return Verdict{}, fmt.Errorf("%w: got %s twice", ErrMissingTargetDate, dateA)
	}
	day1, day2 := dateA, dateB
	if day2.Before(day1) {
		day1, day2 = day2, day1
	}

	v := Verdict{OwnerID: ownerID, Mode: ModeTwoDay, Day1: day1, Day2: day2}

	tl1, found1 := dayFor(timelines, ownerID, day1)
	tl2, found2 := dayFor(timelines, ownerID, day2)

	busy1, busy2 := 0, 0
	if found1 {
		busy1 = tl1.BusyMinutes()
	}
	if found2 {
		busy2 = tl2.BusyMinutes()
	}
	v.Day1AvailabilityPercent = percent(th.TotalWorkdayMinutes-busy1, th.TotalWorkdayMinutes)
	v.Day2AvailabilityPercent = percent(th.TotalWorkdayMinutes-busy2, th.TotalWorkdayMinutes)

	noLong := !(found1 && tl1.HasLongBlock()) && !(found2 && tl2.HasLongBlock())
	recordRule(&v, noLong,
		fmt.Sprintf("no meeting block longer than %d minutes on either day", cfg.LongBlockThresholdMinutes),
		fmt.Sprintf("has meeting blocks longer than %d minutes", cfg.LongBlockThresholdMinutes))

	day1Planned := v.Day1AvailabilityPercent <= th.LowDayCeilingPercent
	recordRule(&v, day1Planned,
		fmt.Sprintf("%s availability at or below %.0f%%", day1, th.LowDayCeilingPercent),
		fmt.Sprintf("%s availability above %.0f%%", day1, th.LowDayCeilingPercent))

	day2Planned := v.Day2AvailabilityPercent <= th.HighDayCeilingPercent
	recordRule(&v, day2Planned,
		fmt.Sprintf("%s availability at or below %.0f%%", day2, th.HighDayCeilingPercent),
		fmt.Sprintf("%s availability above %.0f%%", day2, th.HighDayCeilingPercent))

	v.Passed = noLong && day1Planned && day2Planned
	v.Message = renderCompareMessage(v, noLong, day1Planned, day2Planned, cfg, th)
	return v, nil
}

func recordRule(v *Verdict, passed bool, passReason, failReason string) {
	if passed {
		v.PassedReasons = append(v.PassedReasons, passReason)
	} else {
		v.FailedReasons = append(v.FailedReasons, failReason)
	}
}

func dayFor(timelines []timeline.DayTimeline, ownerID string, date timeline.Date) (timeline.DayTimeline, bool) {
	for _, tl := range timelines {
		if tl.OwnerID == ownerID && tl.Date == date {
			return tl, true
		}
	}
	return timeline.DayTimeline{}, false
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
