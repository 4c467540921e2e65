package criteria

import (
	"fmt"
	"strings"

	"github.com/teemow/calaudit/internal/timeline"
)

// Fixed message framing. The fragments are sentence pieces joined with a
// connector, so each must read naturally after "please".
const (
	msgGreeting       = "Hi! Quick calendar check:"
	msgClosing        = "Thanks for keeping your calendar tidy!"
	msgAllPass        = "Hi! Your calendar looks great - no long meeting blocks and your days are well planned. Keep it up!"
	msgGenericFail    = "please review how your upcoming days are planned"
	fragmentConnector = ", and "
)

func fragmentSplitLong(cfg timeline.WorkdayConfig) string {
	return fmt.Sprintf("break up meeting blocks longer than %d minutes", cfg.LongBlockThresholdMinutes)
}

func renderDayMessage(v Verdict, noLong, occupied bool, cfg timeline.WorkdayConfig, th Thresholds) string {
	if v.Passed {
		return msgAllPass
	}
	var fragments []string
	if !noLong {
		fragments = append(fragments, fragmentSplitLong(cfg))
	}
	if !occupied {
		fragments = append(fragments,
			fmt.Sprintf("plan at least %.0f%% of your workday (%s is at %.1f%%)",
				th.OccupancyThresholdPercent, v.Date, v.BusyPercent))
	}
	return frame(fragments)
}

func renderCompareMessage(v Verdict, noLong, day1Planned, day2Planned bool, cfg timeline.WorkdayConfig, th Thresholds) string {
	if v.Passed {
		return msgAllPass
	}
	var fragments []string
	if !noLong {
		fragments = append(fragments, fragmentSplitLong(cfg))
	}
	if !day1Planned {
		fragments = append(fragments,
			fmt.Sprintf("fill in %s - it is still %.1f%% free and should be nearly fully planned",
				v.Day1, v.Day1AvailabilityPercent))
	}
	if !day2Planned {
		fragments = append(fragments,
			fmt.Sprintf("rough out %s - it is still %.1f%% free",
				v.Day2, v.Day2AvailabilityPercent))
	}
	return frame(fragments)
}

// frame wraps rule fragments in the fixed greeting and closing. A not-passed
// verdict always has at least one failed rule, so the empty case only covers
// future rule sets.
func frame(fragments []string) string {
	if len(fragments) == 0 {
		fragments = []string{msgGenericFail}
	}
	return fmt.Sprintf("%s please %s. %s", msgGreeting, strings.Join(fragments, fragmentConnector), msgClosing)
}
