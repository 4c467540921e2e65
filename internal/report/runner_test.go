package report

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/criteria"
	"github.com/teemow/calaudit/internal/timeline"
)

var reportDate = timeline.Date{Year: 2026, Month: 3, Day: 2}

// fakeFetcher serves canned events per user and optionally fails some users.
type fakeFetcher struct {
	mu       sync.Mutex
	events   map[string][]timeline.Event
	failWith map[string]error
	calls    int
}

func (f *fakeFetcher) ListDayEvents(_ context.Context, ownerID string, date timeline.Date, loc *time.Location) ([]timeline.Event, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.failWith[ownerID]; ok {
		return nil, err
	}
	var out []timeline.Event
	for _, ev := range f.events[ownerID] {
		if timeline.DateOf(ev.Start.In(loc)) == date {
			out = append(out, ev)
		}
	}
	return out, nil
}

func meeting(owner string, date timeline.Date, fromH, fromM, minutes int, title string) timeline.Event {
	start := date.At(fromH, fromM, time.UTC)
	return timeline.Event{
		OwnerID: owner,
		Title:   title,
		Start:   start,
		End:     start.Add(time.Duration(minutes) * time.Minute),
	}
}

func newTestRunner(t *testing.T, fetcher EventFetcher) *Runner {
	t.Helper()
	r, err := NewRunner(fetcher, Options{
		Workday:    timeline.DefaultWorkdayConfig(),
		Location:   time.UTC,
		Thresholds: criteria.DefaultThresholds(),
	})
	require.NoError(t, err)
	return r
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := NewRunner(nil, Options{Workday: timeline.DefaultWorkdayConfig()})
	assert.Error(t, err)

	_, err = NewRunner(&fakeFetcher{}, Options{
		Workday: timeline.WorkdayConfig{DayStart: "17:00", DayEnd: "07:00", LongBlockThresholdMinutes: 60},
	})
	assert.ErrorIs(t, err, timeline.ErrInvalidWorkdayConfig)
}

func TestBlocksBuildsTimelinePerUser(t *testing.T) {
	fetcher := &fakeFetcher{
		events: map[string][]timeline.Event{
			"alice@example.com": {meeting("alice@example.com", reportDate, 9, 0, 120, "Planning")},
			"bob@example.com":   nil,
		},
	}
	r := newTestRunner(t, fetcher)

	rep, err := r.Blocks(context.Background(), []string{"alice@example.com", "bob@example.com"}, reportDate)
	require.NoError(t, err)
	require.Len(t, rep.Timelines, 2)
	assert.Empty(t, rep.Failures)

	// Deterministic owner order from the builder.
	assert.Equal(t, "alice@example.com", rep.Timelines[0].OwnerID)
	assert.Equal(t, "bob@example.com", rep.Timelines[1].OwnerID)

	// Alice: free, busy, free. Bob: one fully free day.
	assert.Len(t, rep.Timelines[0].Blocks, 3)
	assert.Equal(t, timeline.BlockBusy, rep.Timelines[0].Blocks[1].Kind)
	require.Len(t, rep.Timelines[1].Blocks, 1)
	assert.Equal(t, timeline.BlockFree, rep.Timelines[1].Blocks[0].Kind)
	assert.Equal(t, 600, rep.Timelines[1].Blocks[0].DurationMinutes)
}

func TestFetchFailureExcludesUserFromVerdicts(t *testing.T) {
	fetcher := &fakeFetcher{
		events: map[string][]timeline.Event{
			"alice@example.com": {meeting("alice@example.com", reportDate, 9, 0, 30, "Standup")},
		},
		failWith: map[string]error{
			"carol@example.com": &googleapi.Error{Code: 404, Message: "calendar not found"},
		},
	}
	r := newTestRunner(t, fetcher)

	rep, err := r.CheckDay(context.Background(), []string{"alice@example.com", "carol@example.com"}, reportDate)
	require.NoError(t, err)

	require.Len(t, rep.Verdicts, 1)
	assert.Equal(t, "alice@example.com", rep.Verdicts[0].OwnerID)

	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "carol@example.com", rep.Failures[0].OwnerID)
	assert.Equal(t, calendar.ReasonNotFoundOrNoAccess, rep.Failures[0].Reason)
}

func TestCheckDayMissingUserIsMaximallyFree(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := newTestRunner(t, fetcher)

	rep, err := r.CheckDay(context.Background(), []string{"ghost@example.com"}, reportDate)
	require.NoError(t, err)
	require.Len(t, rep.Verdicts, 1)

	v := rep.Verdicts[0]
	assert.False(t, v.Passed)
	assert.Equal(t, 0, v.BusyMinutes)
	assert.NotEmpty(t, v.Message)
}

func TestCompareDaysRejectsDuplicateDate(t *testing.T) {
	r := newTestRunner(t, &fakeFetcher{})
	_, err := r.CompareDays(context.Background(), []string{"alice@example.com"}, reportDate, reportDate)
	assert.ErrorIs(t, err, criteria.ErrMissingTargetDate)
}

func TestCompareDaysFetchesBothDates(t *testing.T) {
	day2 := timeline.Date{Year: 2026, Month: 3, Day: 3}
	fetcher := &fakeFetcher{
		events: map[string][]timeline.Event{
			"alice@example.com": {
				meeting("alice@example.com", reportDate, 8, 0, 420, "Offsite"),
				meeting("alice@example.com", day2, 9, 0, 180, "Review"),
			},
		},
	}
	r := newTestRunner(t, fetcher)

	rep, err := r.CompareDays(context.Background(), []string{"alice@example.com"}, reportDate, day2)
	require.NoError(t, err)
	require.Len(t, rep.Verdicts, 1)

	v := rep.Verdicts[0]
	assert.Equal(t, criteria.ModeTwoDay, v.Mode)
	assert.Equal(t, reportDate, v.Day1)
	assert.Equal(t, day2, v.Day2)
	assert.Equal(t, 2, fetcher.calls, "one fetch call per date for the single user")
}

func TestFetchAllBoundedConcurrency(t *testing.T) {
	const users = 20

	var mu sync.Mutex
	inFlight, peak := 0, 0
	fetcher := fetchFunc(func(ctx context.Context, ownerID string, date timeline.Date, loc *time.Location) ([]timeline.Event, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	})

	r, err := NewRunner(fetcher, Options{
		Workday:     timeline.DefaultWorkdayConfig(),
		Concurrency: 3,
	})
	require.NoError(t, err)

	names := make([]string, users)
	for i := range names {
		names[i] = fmt.Sprintf("user%02d@example.com", i)
	}
	_, failures := r.fetchAll(context.Background(), names, []timeline.Date{reportDate})
	assert.Empty(t, failures)
	assert.LessOrEqual(t, peak, 3)
}

// fetchFunc adapts a function to the EventFetcher interface.
type fetchFunc func(ctx context.Context, ownerID string, date timeline.Date, loc *time.Location) ([]timeline.Event, error)

func (f fetchFunc) ListDayEvents(ctx context.Context, ownerID string, date timeline.Date, loc *time.Location) ([]timeline.Event, error) {
	return f(ctx, ownerID, date, loc)
}
