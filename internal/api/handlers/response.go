package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "github.com/santeconnect/careconnect/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// respondWithAppError maps an application error onto an HTTP response
func respondWithAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
		if appErr.StatusCode == http.StatusForbidden {
			status = http.StatusForbidden
		}
	case apperrors.ErrorTypeConflict:
		status = http.StatusConflict
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
		if appErr.StatusCode == http.StatusTooManyRequests || appErr.StatusCode == http.StatusServiceUnavailable {
			status = appErr.StatusCode
		}
	}

	message := appErr.Message
	if status >= 500 && appErr.Type != apperrors.ErrorTypeExternal {
		message = "internal server error"
	}
	respondWithJSON(w, status, errorBody{Error: message, Errors: appErr.Fields})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
