package handlers

import (
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/internal/scrapers/myclinic"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
)

type AgendaResponse struct {
	Success bool                  `json:"success"`
	Date    string                `json:"date,omitempty"`
	Data    []myclinic.AgendaItem `json:"data"`
	Count   int                   `json:"count"`
}

// agendaFilters reads semFalta and the repeatable status parameter.
func agendaFilters(query url.Values) (excludeNoShow bool, statuses []string, ok bool) {
	raw := query.Get("semFalta")
	if raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return false, nil, false
		}
		excludeNoShow = parsed
	}
	return excludeNoShow, query["status"], true
}

// Agenda lists the schedule of startDate, endDate is validated but the
// upstream listing only covers one day.
func Agenda(clinic Clinic, tel telemetry.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		startDate := query.Get("startDate")
		endDate := query.Get("endDate")
		if !validDate(startDate) || !validDate(endDate) {
			badRequest(w, "startDate and endDate are required as YYYY-MM-DD")
			return
		}
		excludeNoShow, statuses, ok := agendaFilters(query)
		if !ok {
			badRequest(w, "semFalta must be a boolean")
			return
		}

		items, err := clinic.Agenda(r.Context(), myclinic.AgendaQuery{
			StartDate:     startDate,
			EndDate:       endDate,
			ExcludeNoShow: excludeNoShow,
			StatusFilter:  statuses,
		})
		if err != nil {
			writeFailure(w, tel, report_api_agenda, err, "Failed to fetch agenda")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, AgendaResponse{
			Success: true,
			Data:    items,
			Count:   len(items),
		})
	}
}

// AgendaByDate is Agenda for a single day taken from the path.
func AgendaByDate(clinic Clinic, tel telemetry.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := mux.Vars(r)["date"]
		if !validDate(date) {
			badRequest(w, "date must be YYYY-MM-DD")
			return
		}
		excludeNoShow, statuses, ok := agendaFilters(r.URL.Query())
		if !ok {
			badRequest(w, "semFalta must be a boolean")
			return
		}

		items, err := clinic.Agenda(r.Context(), myclinic.AgendaQuery{
			StartDate:     date,
			EndDate:       date,
			ExcludeNoShow: excludeNoShow,
			StatusFilter:  statuses,
		})
		if err != nil {
			writeFailure(w, tel, report_api_agenda, err, "Failed to fetch agenda")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, AgendaResponse{
			Success: true,
			Date:    date,
			Data:    items,
			Count:   len(items),
		})
	}
}
