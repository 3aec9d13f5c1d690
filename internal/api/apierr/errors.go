package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/battleship-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Codes that have no model error behind them. Everything else uses model.ErrorCode.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return &httpError{status, APIError{CodeInternalError, "Internal server error"}}
	}
	return &httpError{status, APIError{model.ErrorCode(err), err.Error()}}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrUnknownGrid), errors.Is(err, model.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidRoomID),
		errors.Is(err, model.ErrInvalidMessage),
		errors.Is(err, model.ErrInvalidCoordinate),
		errors.Is(err, model.ErrInvalidFleet),
		errors.Is(err, model.ErrUnknownStrategy):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrInvalidPasscode):
		return http.StatusForbidden
	case errors.Is(err, model.ErrRoomFull),
		errors.Is(err, model.ErrGameAlreadyStarted),
		errors.Is(err, model.ErrWrongPhase):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
