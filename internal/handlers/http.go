package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/errors"
	"github.com/abrezinsky/classbet/internal/services"
)

// Error codes for standardized API error responses
const (
	ErrCodeBadRequest     = "BAD_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeUnknownClass   = "UNKNOWN_CLASS"
	ErrCodeMissingWinner  = "MISSING_WINNER"
	ErrCodeInvalidWinner  = "INVALID_WINNER"
	ErrCodeInvalidBet     = "INVALID_BET"
	ErrCodeIntegrity      = "INTEGRITY_ERROR"
	ErrCodeInternalServer = "INTERNAL_SERVER_ERROR"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// APIError represents an error with an HTTP status code and error code
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrBadRequest     = &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: "Bad request"}
	ErrUnauthorized   = &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: "Unauthorized"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: "Not found"}
	ErrInternalServer = &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
)

// NewAPIError creates a new API error with custom message and code
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// BadRequest creates a 400 error with custom message
func BadRequest(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: ErrCodeBadRequest, Message: message}
}

// Unauthorized creates a 401 error with custom message
func Unauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: ErrCodeUnauthorized, Message: message}
}

// NotFound creates a 404 error with custom message
func NotFound(message string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: ErrCodeNotFound, Message: message}
}

// InternalError creates a 500 error, logs the original error
func InternalError(err error) *APIError {
	slog.Error("Internal error", "error", err)
	return &APIError{Status: http.StatusInternalServerError, Code: ErrCodeInternalServer, Message: "Internal server error"}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondOK writes a 200 OK JSON response
func respondOK(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*APIError); ok {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}
	// Convert service errors to appropriate API errors
	apiErr := ToAPIError(err)
	respondJSON(w, apiErr.Status, apiErr)
}

// decodeJSON decodes JSON from request body into the target.
// Unknown fields are rejected so typos in bet payloads surface.
func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if err == io.EOF {
			return BadRequest("Request body is empty")
		}
		return BadRequest("Invalid JSON: " + err.Error())
	}
	return nil
}

// ToAPIError converts domain, service and application errors to API errors
func ToAPIError(err error) *APIError {
	var (
		unknownClass    *betting.UnknownClassError
		unknownCategory *betting.UnknownCategoryError
		missingWinner   *betting.MissingWinnerError
		invalidWinner   *betting.InvalidWinnerError
		invalidBet      *betting.BetValidationError
		integrity       *betting.IntegrityError
	)
	switch {
	case stderrors.As(err, &unknownClass):
		return NewAPIError(http.StatusBadRequest, ErrCodeUnknownClass, unknownClass.Error())
	case stderrors.As(err, &unknownCategory):
		return NewAPIError(http.StatusBadRequest, ErrCodeValidation, unknownCategory.Error())
	case stderrors.As(err, &missingWinner):
		return NewAPIError(http.StatusBadRequest, ErrCodeMissingWinner, missingWinner.Error())
	case stderrors.As(err, &invalidWinner):
		return NewAPIError(http.StatusBadRequest, ErrCodeInvalidWinner, invalidWinner.Error())
	case stderrors.As(err, &invalidBet):
		return NewAPIError(http.StatusBadRequest, ErrCodeInvalidBet, invalidBet.Error())
	case stderrors.As(err, &integrity):
		slog.Error("Points store integrity error", "missing", integrity.Missing)
		return NewAPIError(http.StatusInternalServerError, ErrCodeIntegrity, integrity.Error())
	}

	// Application errors
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		switch appErr.Kind {
		case errors.ErrNotFound:
			return NotFound(appErr.Message)
		case errors.ErrValidation, errors.ErrInvalidInput:
			return NewAPIError(http.StatusBadRequest, ErrCodeValidation, appErr.Message)
		case errors.ErrUnauthorized:
			return Unauthorized(appErr.Message)
		default:
			return InternalError(err)
		}
	}

	// Service errors
	var svcErr *services.ServiceError
	if stderrors.As(err, &svcErr) {
		if svcErr == services.ErrNoRound || svcErr == services.ErrNoBaseURL {
			return NotFound(svcErr.Message)
		}
		return NewAPIError(http.StatusBadRequest, ErrCodeValidation, svcErr.Message)
	}

	return InternalError(err)
}
