package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/criteria"
	"github.com/teemow/calaudit/internal/instrumentation"
	"github.com/teemow/calaudit/internal/logging"
	"github.com/teemow/calaudit/internal/timeline"
)

// defaultConcurrency bounds the number of calendars fetched in parallel.
const defaultConcurrency = 4

// EventFetcher reads one user's events for one calendar day. The calendar
// client implements it; tests substitute fakes.
type EventFetcher interface {
	ListDayEvents(ctx context.Context, ownerID string, date timeline.Date, loc *time.Location) ([]timeline.Event, error)
}

// Options configures a Runner.
type Options struct {
	Workday     timeline.WorkdayConfig
	Location    *time.Location
	Thresholds  criteria.Thresholds
	Concurrency int
	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
}

// Runner produces block and criteria reports for a set of users.
type Runner struct {
	fetcher     EventFetcher
	workday     timeline.WorkdayConfig
	loc         *time.Location
	thresholds  criteria.Thresholds
	concurrency int
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
}

// NewRunner validates the options and returns a ready Runner.
func NewRunner(fetcher EventFetcher, opts Options) (*Runner, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("event fetcher is required")
	}
	if err := opts.Workday.Validate(); err != nil {
		return nil, err
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher:     fetcher,
		workday:     opts.Workday,
		loc:         loc,
		thresholds:  opts.Thresholds,
		concurrency: concurrency,
		logger:      logger,
		metrics:     opts.Metrics,
	}, nil
}

// BlocksReport holds per-user day timelines plus the users whose calendars
// could not be read.
type BlocksReport struct {
	Date      timeline.Date
	Timelines []timeline.DayTimeline
	Failures  []calendar.FetchFailure
}

// CriteriaReport holds per-user verdicts plus fetch failures.
type CriteriaReport struct {
	Mode     criteria.Mode
	Dates    []timeline.Date
	Verdicts []criteria.Verdict
	Failures []calendar.FetchFailure
}

// fetchResult carries one user's events across every requested date, or the
// failure that prevented reading them.
type fetchResult struct {
	ownerID string
	events  []timeline.Event
	failure *calendar.FetchFailure
}

// fetchAll reads every user's events for the given dates with bounded
// parallelism. A user that fails on any date is reported as a single
// failure and contributes no events at all, so a partially fetched user
// never masquerades as a partially free one.
func (r *Runner) fetchAll(ctx context.Context, users []string, dates []timeline.Date) ([]timeline.Event, []calendar.FetchFailure) {
	results := make([]fetchResult, len(users))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, user := range users {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.fetchUser(ctx, user, dates)
		}(i, user)
	}
	wg.Wait()

	var events []timeline.Event
	var failures []calendar.FetchFailure
	for _, res := range results {
		if res.failure != nil {
			failures = append(failures, *res.failure)
			continue
		}
		events = append(events, res.events...)
	}
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].OwnerID < failures[j].OwnerID
	})
	return events, failures
}

func (r *Runner) fetchUser(ctx context.Context, user string, dates []timeline.Date) fetchResult {
	var events []timeline.Event
	for _, date := range dates {
		start := time.Now()
		dayEvents, err := r.fetcher.ListDayEvents(ctx, user, date, r.loc)
		if err != nil {
			failure := calendar.ClassifyFetchError(user, err)
			r.metrics.RecordCalendarFetch(ctx, instrumentation.StatusError, time.Since(start))
			r.metrics.RecordFetchFailure(ctx, string(failure.Reason))
			r.logger.Warn("calendar fetch failed",
				logging.UserHash(user),
				logging.Date(date.String()),
				slog.String("reason", string(failure.Reason)),
				logging.Err(err))
			return fetchResult{ownerID: user, failure: &failure}
		}
		r.metrics.RecordCalendarFetch(ctx, instrumentation.StatusSuccess, time.Since(start))
		events = append(events, dayEvents...)
	}
	return fetchResult{ownerID: user, events: events}
}

// Blocks builds the gap-filled day timeline for every user on one date.
func (r *Runner) Blocks(ctx context.Context, users []string, date timeline.Date) (BlocksReport, error) {
	start := time.Now()
	events, failures := r.fetchAll(ctx, users, []timeline.Date{date})

	timelines, err := timeline.Build(events, r.workday, r.loc)
	if err != nil {
		r.metrics.RecordReportRun(ctx, "blocks", instrumentation.StatusError, time.Since(start))
		return BlocksReport{}, err
	}
	r.metrics.RecordReportRun(ctx, "blocks", instrumentation.StatusSuccess, time.Since(start))
	return BlocksReport{Date: date, Timelines: timelines, Failures: failures}, nil
}

// CheckDay evaluates the single-day rule set for every user.
func (r *Runner) CheckDay(ctx context.Context, users []string, date timeline.Date) (CriteriaReport, error) {
	start := time.Now()
	events, failures := r.fetchAll(ctx, users, []timeline.Date{date})

	timelines, err := timeline.Build(events, r.workday, r.loc)
	if err != nil {
		r.metrics.RecordReportRun(ctx, "check_day", instrumentation.StatusError, time.Since(start))
		return CriteriaReport{}, err
	}

	verdicts := make([]criteria.Verdict, 0, len(users))
	for _, user := range users {
		if hasFailure(failures, user) {
			continue
		}
		verdicts = append(verdicts, criteria.EvaluateDay(timelines, user, date, r.workday, r.thresholds))
	}
	r.metrics.RecordReportRun(ctx, "check_day", instrumentation.StatusSuccess, time.Since(start))
	return CriteriaReport{
		Mode:     criteria.ModeSingleDay,
		Dates:    []timeline.Date{date},
		Verdicts: verdicts,
		Failures: failures,
	}, nil
}

// CompareDays evaluates the two-day rule set for every user.
func (r *Runner) CompareDays(ctx context.Context, users []string, dateA, dateB timeline.Date) (CriteriaReport, error) {
	if dateA == dateB {
		return CriteriaReport{}, criteria.ErrMissingTargetDate
	}

	start := time.Now()
	events, failures := r.fetchAll(ctx, users, []timeline.Date{dateA, dateB})

	timelines, err := timeline.Build(events, r.workday, r.loc)
	if err != nil {
		r.metrics.RecordReportRun(ctx, "compare_days", instrumentation.StatusError, time.Since(start))
		return CriteriaReport{}, err
	}

	verdicts := make([]criteria.Verdict, 0, len(users))
	for _, user := range users {
		if hasFailure(failures, user) {
			continue
		}
		verdict, err := criteria.EvaluateDays(timelines, user, dateA, dateB, r.workday, r.thresholds)
		if err != nil {
			r.metrics.RecordReportRun(ctx, "compare_days", instrumentation.StatusError, time.Since(start))
			return CriteriaReport{}, err
		}
		verdicts = append(verdicts, verdict)
	}
	r.metrics.RecordReportRun(ctx, "compare_days", instrumentation.StatusSuccess, time.Since(start))
	return CriteriaReport{
		Mode:     criteria.ModeTwoDay,
		Dates:    []timeline.Date{dateA, dateB},
		Verdicts: verdicts,
		Failures: failures,
	}, nil
}

func hasFailure(failures []calendar.FetchFailure, user string) bool {
	for _, f := range failures {
		if f.OwnerID == user {
			return true
		}
	}
	return false
}
