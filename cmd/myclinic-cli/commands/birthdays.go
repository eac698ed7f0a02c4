package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	birthdaysStart     string
	birthdaysEnd       string
	birthdaysSituation string
)

func init() {
	birthdaysCmd.Flags().StringVar(&birthdaysStart, "start", "", "First day as YYYY-MM-DD.")
	birthdaysCmd.Flags().StringVar(&birthdaysEnd, "end", "", "Last day as YYYY-MM-DD.")
	birthdaysCmd.Flags().StringVar(&birthdaysSituation, "situacao", "", "Customer situation id.")
	rootCmd.AddCommand(birthdaysCmd)
}

var birthdaysCmd = &cobra.Command{
	Use:   "birthdays --start <YYYY-MM-DD> --end <YYYY-MM-DD>",
	Short: "Prints the customers with a birthday in the range.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if birthdaysStart == "" || birthdaysEnd == "" {
			return fmt.Errorf("--start and --end are required")
		}

		client, err := loggedInClient(cmd.Context())
		if err != nil {
			return err
		}
		entries, err := client.BirthdayCelebrants(cmd.Context(), birthdaysStart, birthdaysEnd, birthdaysSituation)
		if err != nil {
			return err
		}

		if asJson {
			return printJson(cmd, entries)
		}
		t := newTable(cmd)
		t.AppendHeader(table.Row{"Aniversário", "Cliente", "Telefone", "Situação"})
		for _, entry := range entries {
			t.AppendRow(table.Row{entry.Date, entry.Name, entry.Phone, entry.SituationLabel})
		}
		t.AppendFooter(table.Row{"", "Total", len(entries)})
		t.Render()
		return nil
	},
}
