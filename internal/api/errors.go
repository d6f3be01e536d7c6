package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luckyturtle/nftape.me/internal/analysis"
	"github.com/luckyturtle/nftape.me/internal/domain"
)

// Error codes returned in the error envelope.
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUpstreamFailure = "UPSTREAM_FAILURE"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// mapError maps analysis errors to HTTP status codes.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrInvalidAddress), errors.Is(err, domain.ErrUnknownPriceMethod):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		return http.StatusBadGateway, ErrCodeUpstreamFailure
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}
