package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/calaudit/internal/report"
	"github.com/teemow/calaudit/internal/timeline"
)

func newCompareCmd() *cobra.Command {
	var (
		account string
		day1    string
		day2    string
		users   []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Audit two workdays against the planning-horizon criteria",
		Long: `Check each audited user's calendar across two workdays: no meeting may
exceed the long-block threshold, the earlier day must be mostly planned,
and the later day must at least be roughed out. Prints one CSV verdict
row per user.

Defaults to today and tomorrow when no dates are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newReportRuntime(ctx, account)
			if err != nil {
				return err
			}

			dateA, err := rt.resolveDate(day1)
			if err != nil {
				return err
			}
			var dateB timeline.Date
			if day2 == "" {
				dateB = timeline.DateOf(dateA.At(0, 0, rt.loc).AddDate(0, 0, 1))
			} else {
				if dateB, err = timeline.ParseDate(day2); err != nil {
					return err
				}
			}

			auditUsers, err := rt.resolveUsers(users)
			if err != nil {
				return err
			}

			rep, err := rt.runner.CompareDays(ctx, auditUsers, dateA, dateB)
			if err != nil {
				return fmt.Errorf("failed to compare days: %w", err)
			}
			return writeOutput(output, func(w io.Writer) error {
				return report.WriteVerdictsCSV(w, rep)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&day1, "day1", "", "First target date in YYYY-MM-DD format (default: today)")
	cmd.Flags().StringVar(&day2, "day2", "", "Second target date in YYYY-MM-DD format (default: the day after day1)")
	cmd.Flags().StringSliceVar(&users, "users", nil, "User email addresses to audit (default: configured user list)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of stdout")

	return cmd
}
