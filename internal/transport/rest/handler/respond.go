package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"formpulse/internal/log"
	"formpulse/internal/service"
)

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error      string `json:"error"`
	QuestionID string `json:"questionId,omitempty"`
	Question   string `json:"question,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var serr *service.SchemaError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:      verr.Error(),
			QuestionID: verr.QuestionID,
			Question:   verr.QuestionText,
		})
	case errors.As(err, &serr):
		writeError(w, http.StatusBadRequest, serr.Error())
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, service.ErrFormNotFound):
		writeError(w, http.StatusNotFound, "Form not found")
	case errors.Is(err, service.ErrEmptyExport):
		writeError(w, http.StatusNotFound, "No responses found")
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "Too many submissions, please try again later")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "Email already registered")
	default:
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Errorf("unhandled error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

// decodeBody decodes a JSON request body; an oversized body keeps its own error
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return errInvalidBody
	}
	return nil
}

var errInvalidBody = &service.SchemaError{Message: "Invalid request body"}
