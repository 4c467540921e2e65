package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/calaudit/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize read-only Google Calendar access",
		Long: `Run the OAuth flow for an account. Without --code, prints the authorization
URL to visit. With --code, exchanges the authorization code for a token and
saves it for later use.

Requires GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" {
				if google.HasTokenForAccount(account) {
					fmt.Printf("Account %q already has a token. Re-authorize to replace it:\n\n", account)
				}
				fmt.Printf("Visit this URL to authorize Calendar access for account %q:\n\n  %s\n\nThen run: calaudit auth --account %s --code <authorization-code>\n",
					account, google.GetAuthURLForAccount(account), account)
				return nil
			}

			if err := google.SaveTokenForAccount(cmd.Context(), account, code); err != nil {
				return fmt.Errorf("failed to save token for account %s: %w", account, err)
			}
			fmt.Printf("Authorization successful for account %q. Token saved.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code from the OAuth consent page")

	return cmd
}
