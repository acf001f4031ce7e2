package services

import (
	"errors"

	"github.com/abrezinsky/classbet/internal/betting"
	apperrors "github.com/abrezinsky/classbet/internal/errors"
)

// Service errors
var (
	ErrNoRound        = &ServiceError{Message: "no round has been settled yet"}
	ErrNoPoints       = &ServiceError{Message: "no points given"}
	ErrNoBaseURL      = &ServiceError{Message: "base URL is not configured"}
	ErrInvalidBaseURL = &ServiceError{Message: "base URL must be an absolute http or https URL"}
)

// ServiceError represents a service-level error
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// RejectReason classifies a domain error for the rejection metric.
// Errors that are not domain errors return "other".
func RejectReason(err error) string {
	var (
		unknownClass  *betting.UnknownClassError
		missingWinner *betting.MissingWinnerError
		invalidWinner *betting.InvalidWinnerError
		invalidBet    *betting.BetValidationError
		integrity     *betting.IntegrityError
	)
	switch {
	case errors.As(err, &unknownClass):
		return "unknown_class"
	case errors.As(err, &invalidBet):
		return "invalid_bet"
	case errors.As(err, &missingWinner):
		return "missing_winner"
	case errors.As(err, &invalidWinner):
		return "invalid_winner"
	case errors.As(err, &integrity):
		return "integrity"
	default:
		return "other"
	}
}

// storageError wraps a repository failure as an internal application error.
// Integrity errors are returned as is so callers can report the missing rows.
func storageError(err error) error {
	var integrity *betting.IntegrityError
	if errors.As(err, &integrity) {
		return err
	}
	return apperrors.Internal(err)
}
