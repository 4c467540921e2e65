package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/teemow/calaudit/internal/calendar"
	"github.com/teemow/calaudit/internal/config"
	"github.com/teemow/calaudit/internal/criteria"
	"github.com/teemow/calaudit/internal/report"
	"github.com/teemow/calaudit/internal/timeline"
)

// reportRuntime bundles what the report commands share: the loaded
// configuration, its timezone, and a runner backed by the account's
// Calendar client.
type reportRuntime struct {
	cfg    *config.Config
	loc    *time.Location
	runner *report.Runner
}

func newReportRuntime(ctx context.Context, account string) (*reportRuntime, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid configured timezone: %w", err)
	}

	if !calendar.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google OAuth token for account %q; run 'calaudit auth --account %s' first", account, account)
	}
	client, err := calendar.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
	}

	runner, err := report.NewRunner(client, report.Options{
		Workday:    cfg.Workday(),
		Location:   loc,
		Thresholds: criteria.DefaultThresholds(),
	})
	if err != nil {
		return nil, err
	}
	return &reportRuntime{cfg: cfg, loc: loc, runner: runner}, nil
}

// resolveUsers returns the explicit user list when given, otherwise the
// configured one.
func (r *reportRuntime) resolveUsers(users []string) ([]string, error) {
	if len(users) > 0 {
		return users, nil
	}
	if len(r.cfg.Users) > 0 {
		return r.cfg.Users, nil
	}
	return nil, fmt.Errorf("no users given via --users and none configured in %s", config.DefaultPath())
}

// resolveDate parses a --date style flag, defaulting to today in the
// configured timezone.
func (r *reportRuntime) resolveDate(flag string) (timeline.Date, error) {
	if flag == "" {
		return timeline.DateOf(time.Now().In(r.loc)), nil
	}
	return timeline.ParseDate(flag)
}

// writeOutput writes a report to the given file, or to stdout when the
// path is empty.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
