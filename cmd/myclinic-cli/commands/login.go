package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login [--email <email>] [--password <password>]",
	Short: "Checks that the credentials can log in.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := loggedInClient(cmd.Context())
		if err != nil {
			return err
		}
		if asJson {
			return printJson(cmd, map[string]any{
				"authenticated": client.IsAuthenticated(),
				"sessionCookie": client.SessionCookie(),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "login successful")
		return nil
	},
}
