package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/criteria"
	"github.com/teemow/calaudit/internal/timeline"
)

func parseCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteBlocksCSV(t *testing.T) {
	date := timeline.Date{Year: 2026, Month: 3, Day: 2}
	rep := BlocksReport{
		Date: date,
		Timelines: []timeline.DayTimeline{
			{
				OwnerID: "alice@example.com",
				Date:    date,
				Blocks: []timeline.Block{
					{
						Kind:            timeline.BlockFree,
						Start:           date.At(7, 0, time.UTC),
						End:             date.At(9, 0, time.UTC),
						DurationMinutes: 120,
					},
					{
						Kind:            timeline.BlockBusy,
						Title:           "Planning",
						Start:           date.At(9, 0, time.UTC),
						End:             date.At(10, 30, time.UTC),
						DurationMinutes: 90,
						IsLong:          true,
					},
				},
			},
		},
		Failures: []calendar.FetchFailure{
			{OwnerID: "carol@example.com", Reason: calendar.ReasonForbidden, Message: "access denied"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBlocksCSV(&buf, rep))

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"email", "date", "type", "title", "from", "to", "duration_minutes", "is_long"}, rows[0])
	assert.Equal(t, []string{"alice@example.com", "2026-03-02", "free", "", "07:00", "09:00", "120", "false"}, rows[1])
	assert.Equal(t, []string{"alice@example.com", "2026-03-02", "busy", "Planning", "09:00", "10:30", "90", "true"}, rows[2])
	assert.Equal(t, []string{"carol@example.com", "", "error", "forbidden: access denied", "", "", "", ""}, rows[3])
}

func TestWriteVerdictsCSVSingleDay(t *testing.T) {
	rep := CriteriaReport{
		Mode:  criteria.ModeSingleDay,
		Dates: []timeline.Date{{Year: 2026, Month: 3, Day: 2}},
		Verdicts: []criteria.Verdict{
			{
				OwnerID:       "alice@example.com",
				Mode:          criteria.ModeSingleDay,
				Passed:        true,
				PassedReasons: []string{"no long blocks", "busy enough"},
				Message:       "Hi! Quick calendar check: all good.",
				Date:          timeline.Date{Year: 2026, Month: 3, Day: 2},
				BusyMinutes:   500,
				BusyPercent:   92.59,
			},
		},
		Failures: []calendar.FetchFailure{
			{OwnerID: "dave@example.com", Reason: calendar.ReasonNotFoundOrNoAccess},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVerdictsCSV(&buf, rep))

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"email", "passed", "criteria_passed", "criteria_failed", "slack_message", "date", "busy_minutes", "busy_percent"}, rows[0])
	assert.Equal(t, "true", rows[1][1])
	assert.Equal(t, "no long blocks; busy enough", rows[1][2])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "2026-03-02", rows[1][5])
	assert.Equal(t, "500", rows[1][6])
	assert.Equal(t, "92.6", rows[1][7])

	assert.Equal(t, "dave@example.com", rows[2][0])
	assert.Equal(t, "error", rows[2][1])
	assert.Equal(t, "not_found_or_no_access", rows[2][4])
}

func TestWriteVerdictsCSVTwoDay(t *testing.T) {
	rep := CriteriaReport{
		Mode: criteria.ModeTwoDay,
		Verdicts: []criteria.Verdict{
			{
				OwnerID:                 "bob@example.com",
				Mode:                    criteria.ModeTwoDay,
				Passed:                  false,
				FailedReasons:           []string{"first day too open"},
				Message:                 "Hi! Quick calendar check: please fill in 2026-03-02.",
				Day1:                    timeline.Date{Year: 2026, Month: 3, Day: 2},
				Day2:                    timeline.Date{Year: 2026, Month: 3, Day: 3},
				Day1AvailabilityPercent: 45.0,
				Day2AvailabilityPercent: 62.5,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVerdictsCSV(&buf, rep))

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"email", "passed", "criteria_passed", "criteria_failed", "slack_message", "day1", "day2", "day1_availability_percent", "day2_availability_percent"}, rows[0])
	assert.Equal(t, []string{
		"bob@example.com", "false", "", "first day too open",
		"Hi! Quick calendar check: please fill in 2026-03-02.",
		"2026-03-02", "2026-03-03", "45.0", "62.5",
	}, rows[1])
}
