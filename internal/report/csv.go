package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/criteria"
)

// reasonSeparator joins pass/fail reason lists into one CSV field.
const reasonSeparator = "; "

var blocksHeader = []string{"email", "date", "type", "title", "from", "to", "duration_minutes", "is_long"}

var verdictsHeaderSingleDay = []string{"email", "passed", "criteria_passed", "criteria_failed", "slack_message", "date", "busy_minutes", "busy_percent"}

var verdictsHeaderTwoDay = []string{"email", "passed", "criteria_passed", "criteria_failed", "slack_message", "day1", "day2", "day1_availability_percent", "day2_availability_percent"}

// WriteBlocksCSV serializes a blocks report. Each timeline block becomes one
// row; users whose calendars could not be read get one error row each.
func WriteBlocksCSV(w io.Writer, rep BlocksReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(blocksHeader); err != nil {
		return err
	}
	for _, tl := range rep.Timelines {
		for _, b := range tl.Blocks {
			row := []string{
				tl.OwnerID,
				tl.Date.String(),
				string(b.Kind),
				b.Title,
				b.StartClock(),
				b.EndClock(),
				strconv.Itoa(b.DurationMinutes),
				strconv.FormatBool(b.IsLong),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	for _, f := range rep.Failures {
		if err := cw.Write(blocksErrorRow(f)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func blocksErrorRow(f calendar.FetchFailure) []string {
	return []string{f.OwnerID, "", "error", failureMessage(f), "", "", "", ""}
}

// WriteVerdictsCSV serializes a criteria report. The column set depends on
// the evaluation mode; fetch failures get one error row each.
func WriteVerdictsCSV(w io.Writer, rep CriteriaReport) error {
	cw := csv.NewWriter(w)

	header := verdictsHeaderSingleDay
	if rep.Mode == criteria.ModeTwoDay {
		header = verdictsHeaderTwoDay
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, v := range rep.Verdicts {
		if err := cw.Write(verdictRow(v)); err != nil {
			return err
		}
	}
	for _, f := range rep.Failures {
		if err := cw.Write(verdictErrorRow(f, len(header))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func verdictRow(v criteria.Verdict) []string {
	row := []string{
		v.OwnerID,
		strconv.FormatBool(v.Passed),
		strings.Join(v.PassedReasons, reasonSeparator),
		strings.Join(v.FailedReasons, reasonSeparator),
		v.Message,
	}
	if v.Mode == criteria.ModeTwoDay {
		return append(row,
			v.Day1.String(),
			v.Day2.String(),
			formatPercent(v.Day1AvailabilityPercent),
			formatPercent(v.Day2AvailabilityPercent),
		)
	}
	return append(row,
		v.Date.String(),
		strconv.Itoa(v.BusyMinutes),
		formatPercent(v.BusyPercent),
	)
}

func verdictErrorRow(f calendar.FetchFailure, width int) []string {
	row := make([]string, width)
	row[0] = f.OwnerID
	row[1] = "error"
	row[4] = failureMessage(f)
	return row
}

func failureMessage(f calendar.FetchFailure) string {
	if f.Message != "" {
		return string(f.Reason) + ": " + f.Message
	}
	return string(f.Reason)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
