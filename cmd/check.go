package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/calaudit/internal/report"
)

func newCheckCmd() *cobra.Command {
	var (
		account string
		date    string
		users   []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Audit one workday against the hygiene criteria",
		Long: `Check each audited user's workday: no meeting may exceed the long-block
threshold, and enough of the day must be planned. Prints one CSV verdict
row per user, including a ready-to-send message for the failing ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newReportRuntime(ctx, account)
			if err != nil {
				return err
			}
			targetDate, err := rt.resolveDate(date)
			if err != nil {
				return err
			}
			auditUsers, err := rt.resolveUsers(users)
			if err != nil {
				return err
			}

			rep, err := rt.runner.CheckDay(ctx, auditUsers, targetDate)
			if err != nil {
				return fmt.Errorf("failed to check day: %w", err)
			}
			return writeOutput(output, func(w io.Writer) error {
				return report.WriteVerdictsCSV(w, rep)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&date, "date", "", "Target date in YYYY-MM-DD format (default: today)")
	cmd.Flags().StringSliceVar(&users, "users", nil, "User email addresses to audit (default: configured user list)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of stdout")

	return cmd
}
