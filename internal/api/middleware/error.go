// Package middleware holds the http middleware of the api and its json
// error shape.
package middleware

import (
	"encoding/json"
	"fmt"
	"myclinic-backend/internal/components/telemetry"
	"net/http"
	"runtime/debug"
)

const report_http_panic = "http.panic"

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteJSON encodes `body` with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, err, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// ErrorRecovery turns a panicking handler into a 500 response.
func ErrorRecovery(tel telemetry.API) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				tel.ReportBroken(report_http_panic, fmt.Errorf("%v", recovered), r.Method, r.URL.Path, string(debug.Stack()))
				WriteError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
