package commands

import (
	"myclinic-backend/internal/scrapers/myclinic"
	"myclinic-backend/lib/timezone"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	agendaDate     string
	agendaNoShow   bool
	agendaStatuses []string
)

func init() {
	agendaCmd.Flags().StringVar(&agendaDate, "date", "", "Day to list as YYYY-MM-DD, today in the clinic when empty.")
	agendaCmd.Flags().BoolVar(&agendaNoShow, "sem-falta", false, "Exclude no-shows.")
	agendaCmd.Flags().StringSliceVar(&agendaStatuses, "status", nil, "Keep only these statuses (case-insensitive substring).")
	rootCmd.AddCommand(agendaCmd)
}

var agendaCmd = &cobra.Command{
	Use:   "agenda [--date <YYYY-MM-DD>] [--sem-falta] [--status <status>...]",
	Short: "Prints the schedule of a day with the customers' phones.",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := agendaDate
		if date == "" {
			date = timezone.Day(timezone.Now())
		}

		client, err := loggedInClient(cmd.Context())
		if err != nil {
			return err
		}
		items, err := client.Agenda(cmd.Context(), myclinic.AgendaQuery{
			StartDate:     date,
			EndDate:       date,
			ExcludeNoShow: agendaNoShow,
			StatusFilter:  agendaStatuses,
		})
		if err != nil {
			return err
		}

		if asJson {
			return printJson(cmd, items)
		}
		t := newTable(cmd)
		t.AppendHeader(table.Row{"Id", "Início", "Fim", "Cliente", "Telefone", "Serviços", "Status"})
		for _, item := range items {
			t.AppendRow(table.Row{
				item.Id,
				item.StartTime,
				item.EndTime,
				item.PersonName,
				item.Phone,
				strings.Join(item.Services, ", "),
				item.Status,
			})
		}
		t.AppendFooter(table.Row{"", "", "", "Total", len(items)})
		t.Render()
		return nil
	},
}
