package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kinship/internal/service"
	"kinship/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func respondWithError(w http.ResponseWriter, log *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, zap.Int("status", status), zap.Error(err))
		} else {
			log.Debug(logMsg, zap.Int("status", status), zap.Error(err))
		}
	}

	respondJSON(w, log, status, errorResponse{Error: userMsg})
}

// respondWithServiceError maps a service error onto a status and a user-facing
// message. Unknown errors become a 500 with fallback as the message.
func respondWithServiceError(w http.ResponseWriter, log *zap.Logger, err error, fallback string) {
	var verr utils.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Debug("validation failed", zap.String("field", verr.Field), zap.String("message", verr.Message))
		msg := ErrMissingFields
		if !verr.Missing() {
			msg = capitalize(verr.Message)
		}
		respondJSON(w, log, http.StatusBadRequest, errorResponse{Error: msg, Field: verr.Field})
	case errors.Is(err, service.ErrMissingFields):
		respondWithError(w, log, http.StatusBadRequest, ErrMissingFields, "", err)
	case errors.Is(err, service.ErrMissingQuery):
		respondWithError(w, log, http.StatusBadRequest, ErrMissingQuery, "", err)
	case errors.Is(err, service.ErrInvalidScope),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidUsers):
		respondWithError(w, log, http.StatusBadRequest, capitalize(err.Error()), "", err)
	case errors.Is(err, service.ErrNotConnectionPartner):
		respondWithError(w, log, http.StatusForbidden, ErrForbidden, "", err)
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrAnalysisNotFound),
		errors.Is(err, service.ErrConnectionNotFound):
		respondWithError(w, log, http.StatusNotFound, capitalize(rootMessage(err)), "", err)
	case errors.Is(err, service.ErrAnalysisFailed):
		respondWithError(w, log, http.StatusInternalServerError, ErrDNAAnalysisFailed, "DNA analysis failed", err)
	case errors.Is(err, service.ErrFamilySaveFailed):
		respondWithError(w, log, http.StatusInternalServerError, ErrFamilySaveFailed, "Error saving family data", err)
	case errors.Is(err, service.ErrAssistantUnavailable):
		respondWithError(w, log, http.StatusInternalServerError, ErrAssistantUnavailable, "Assistant request failed", err)
	default:
		respondWithError(w, log, http.StatusInternalServerError, fallback, "", err)
	}
}

// rootMessage returns the innermost error text of a wrap chain
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// decodeJSON reads a JSON body capped at maxBytes
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
