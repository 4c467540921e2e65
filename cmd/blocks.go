package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/calaudit/internal/report"
)

func newBlocksCmd() *cobra.Command {
	var (
		account string
		date    string
		users   []string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Print the busy/free workday timeline for one date",
		Long: `Build the gap-filled busy/free timeline of one workday for each audited
user and print it as CSV. Every minute of the workday window appears in
exactly one block; meetings outside the window are clipped or dropped.`,
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

			rep, err := rt.runner.Blocks(ctx, auditUsers, targetDate)
			if err != nil {
				return fmt.Errorf("failed to build day blocks: %w", err)
			}
			return writeOutput(output, func(w io.Writer) error {
				return report.WriteBlocksCSV(w, rep)
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&date, "date", "", "Target date in YYYY-MM-DD format (default: today)")
	cmd.Flags().StringSliceVar(&users, "users", nil, "User email addresses to audit (default: configured user list)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to this file instead of stdout")

	return cmd
}
