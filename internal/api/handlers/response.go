package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	apperrors "github.com/ayursutra/wellness-portal/pkg/errors"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error  string              `json:"error"`
	Code   apperrors.ErrorType `json:"code,omitempty"`
	Fields []string            `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithAppError renders err with the status its type maps to
func respondWithAppError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	body := ErrorResponse{Error: "internal server error", Code: apperrors.ErrorTypeInternal}
	if appErr, ok := apperrors.As(err); ok {
		body.Code = appErr.Type
		body.Fields = appErr.Fields
		if status < http.StatusInternalServerError || appErr.Type != apperrors.ErrorTypeInternal {
			body.Error = appErr.Message
		}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	}
	respondWithJSON(w, status, body)
}

// statusForError maps an AppError type to an HTTP status
func statusForError(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeMissingField, apperrors.ErrorTypeInvalidTimestamp, apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeProviderUnavailable, apperrors.ErrorTypeExternal, apperrors.ErrorTypeNetwork:
		return http.StatusBadGateway
	case apperrors.ErrorTypeProviderMisconfigured, apperrors.ErrorTypeLocationUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeProviderTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// parseLatLng parses "lat,lng"
func parseLatLng(value string) (entities.LatLng, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return entities.LatLng{}, apperrors.NewValidationError("expected lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return entities.LatLng{}, apperrors.NewValidationError("invalid latitude " + parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return entities.LatLng{}, apperrors.NewValidationError("invalid longitude " + parts[1])
	}
	return entities.LatLng{Lat: lat, Lng: lng}, nil
}
