package handlers

import (
	"encoding/json"
	"myclinic-backend/internal/api/middleware"
	"myclinic-backend/internal/components/telemetry"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Authenticated bool   `json:"authenticated"`
}

type StatusResponse struct {
	Authenticated bool    `json:"authenticated"`
	SessionCookie *string `json:"sessionCookie"`
}

// Login performs the upstream login with the posted credentials.
func Login(clinic Clinic, tel telemetry.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body LoginRequest
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil {
			badRequest(w, "body must be a json object with email and password")
			return
		}
		if body.Email == "" || body.Password == "" {
			badRequest(w, "email and password are required")
			return
		}

		if !clinic.Login(r.Context(), body.Email, body.Password) {
			tel.ReportDebug(report_api_login, "rejected", body.Email)
			middleware.WriteError(
				w,
				http.StatusUnauthorized,
				"Authentication failed",
				"Invalid credentials or authentication error",
			)
			return
		}

		middleware.WriteJSON(w, http.StatusOK, LoginResponse{
			Success:       true,
			Message:       "Login successful",
			Authenticated: true,
		})
	}
}

// Status tells whether a session is held, the cookie is only shown when it is.
func Status(clinic Clinic) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := StatusResponse{Authenticated: clinic.IsAuthenticated()}
		if res.Authenticated {
			cookie := clinic.SessionCookie()
			res.SessionCookie = &cookie
		}
		middleware.WriteJSON(w, http.StatusOK, res)
	}
}
