package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mindflow/mindflow/internal/model"
)

// internalMessage is the only detail a client sees for a 5xx.
const internalMessage = "internal error"

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse fills Error from the status text of code.
func NewErrorResponse(code int, message string) ErrorResponse {
	return ErrorResponse{Error: http.StatusText(code), Code: code, Message: message}
}

// StatusFor reports the HTTP status a non-nil service error maps to.
func StatusFor(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the client-facing body for err. 4xx messages are safe
// to echo; a 5xx is reduced to internalMessage.
func FromError(err error) ErrorResponse {
	code := StatusFor(err)
	if code < http.StatusInternalServerError {
		return NewErrorResponse(code, err.Error())
	}
	return NewErrorResponse(code, internalMessage)
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, NewErrorResponse(statusCode, message))
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError replies with FromError(err). Server-side failures are
// logged with the request id so the hidden cause can be traced.
func WriteServiceError(w http.ResponseWriter, err error) {
	body := FromError(err)
	if body.Code >= http.StatusInternalServerError {
		log.Error().Stack().Err(err).
			Str("req_id", w.Header().Get("X-Request-Id")).
			Msg("request failed")
	}
	WriteJSON(w, body.Code, body)
}
