package handlers

import (
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/internal/scrapers/myclinic"
	"net/http"
)

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type BirthdaysResponse struct {
	Success bool                     `json:"success"`
	Data    []myclinic.BirthdayEntry `json:"data"`
	Count   int                      `json:"count"`
	Period  Period                   `json:"periodo"`
}

func Birthdays(clinic Clinic, tel telemetry.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		startDate := query.Get("startDate")
		endDate := query.Get("endDate")
		if !validDate(startDate) || !validDate(endDate) {
			badRequest(w, "startDate and endDate are required as YYYY-MM-DD")
			return
		}

		entries, err := clinic.BirthdayCelebrants(r.Context(), startDate, endDate, query.Get("situacaoId"))
		if err != nil {
			writeFailure(w, tel, report_api_birthdays, err, "Failed to fetch aniversariantes")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, BirthdaysResponse{
			Success: true,
			Data:    entries,
			Count:   len(entries),
			Period: Period{
				StartDate: startDate,
				EndDate:   endDate,
			},
		})
	}
}
