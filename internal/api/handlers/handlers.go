// Package handlers implements the json endpoints over a myclinic session.
package handlers

import (
	"context"
	"errors"
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/telemetry"
	"myclinic-backend/internal/scrapers/myclinic"
	"net/http"
	"regexp"
	"time"
)

const (
	report_api_login     = "api.auth-login"
	report_api_agenda    = "api.agenda"
	report_api_birthdays = "api.birthdays"
)

// Clinic is the part of *myclinic.Client the handlers use.
type Clinic interface {
	Login(ctx context.Context, identity, secret string) bool
	IsAuthenticated() bool
	SessionCookie() string
	EnsureAuthenticated(ctx context.Context) error
	Agenda(ctx context.Context, q myclinic.AgendaQuery) ([]myclinic.AgendaItem, error)
	BirthdayCelebrants(ctx context.Context, startDate, endDate, situationId string) ([]myclinic.BirthdayEntry, error)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validDate accepts YYYY-MM-DD naming a real calendar day.
func validDate(date string) bool {
	if !datePattern.MatchString(date) {
		return false
	}
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, myclinic.ErrNotAuthenticated) ||
		errors.Is(err, myclinic.ErrSessionRejected) ||
		errors.Is(err, myclinic.ErrAuthentication)
}

// writeFailure answers a failed operation. Upstream details stay in the
// report, the body only carries `failure`.
func writeFailure(w http.ResponseWriter, tel telemetry.API, id string, err error, failure string) {
	if isAuthFailure(err) {
		middleware.WriteError(w, http.StatusUnauthorized, "Unauthorized", "Valid authentication session required")
		return
	}
	tel.ReportBroken(id, err)
	middleware.WriteError(w, http.StatusInternalServerError, failure, "Internal server error")
}

func badRequest(w http.ResponseWriter, message string) {
	middleware.WriteError(w, http.StatusBadRequest, "Bad Request", message)
}
